package user

import (
	"time"

	"github.com/google/uuid"
)

// AccountStatus represents the lifecycle state of a gym account. Buying a
// membership flips the account to ACTIVE as part of the sale transaction;
// the expiry sweep later marks lapsed memberships.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// User represents a gym member or staff account.
type User struct {
	ID           uuid.UUID     `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	FirstName    string        `json:"first_name,omitempty"`
	LastName     string        `json:"last_name,omitempty"`
	Role         string        `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
