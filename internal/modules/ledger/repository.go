package ledger

import (
	"context"
	"time"
)

// Repository defines append-only ledger storage.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, from, to time.Time) ([]*Entry, error)
	Summarize(ctx context.Context, from, to time.Time) (*Summary, error)
}
