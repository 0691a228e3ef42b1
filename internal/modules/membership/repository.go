package membership

import (
	"context"
	"time"
)

// Repository defines membership data access. Creation happens inside the
// sale transaction, not here.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]*Membership, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Membership, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}
