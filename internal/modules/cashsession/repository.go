package cashsession

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines cash-session data access. Close performs the whole
// closing computation inside one transaction so that no sale can slip into
// the session between the aggregate and the status flip.
type Repository interface {
	Create(ctx context.Context, s *CashSession) error
	GetOpenSession(ctx context.Context) (*CashSession, error)
	Close(ctx context.Context, closingAmount float64, notes string, closedBy uuid.UUID, at time.Time) (*CashSession, error)
}
