package membership

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a membership.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
	StatusSuspended Status = "SUSPENDED"
)

// Membership grants a user access to the gym for a term. It is created at
// most once per sale; the daily sweep or a manual edit mutates it later.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	PlanName  string    `json:"plan_name,omitempty"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	PricePaid float64   `json:"price_paid"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
