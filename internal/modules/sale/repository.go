package sale

import (
	"context"
	"errors"

	"github.com/dcastellanos/gymcore-backend/internal/modules/ledger"
	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
)

// ErrInvoiceNumberTaken is returned by CreateSale when the generated invoice
// number collides with the uniqueness constraint; the processor retries with
// a fresh number.
var ErrInvoiceNumberTaken = errors.New("invoice number already taken")

// Repository persists sales. CreateSale runs the whole atomic unit (stock
// decrement, sale, line items, optional membership issuance, ledger entry)
// in a single transaction.
type Repository interface {
	CreateSale(ctx context.Context, s *Sale, m *membership.Membership, entry *ledger.Entry) error
	GetByID(ctx context.Context, id string) (*Sale, error)
	ListBySession(ctx context.Context, sessionID string) ([]*Sale, error)
}
