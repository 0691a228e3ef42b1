package sale

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
)

// Kind represents what a sale is composed of.
type Kind string

const (
	KindProducts   Kind = "PRODUCTS"
	KindMembership Kind = "MEMBERSHIP"
	KindMixed      Kind = "MIXED"
)

// TenderMethod represents the payment channel settling a sale.
type TenderMethod string

const (
	TenderCash     TenderMethod = "CASH"
	TenderCard     TenderMethod = "CARD"
	TenderTransfer TenderMethod = "TRANSFER"
	TenderApp      TenderMethod = "APP"
	TenderMixed    TenderMethod = "MIXED"
)

// TenderBreakdown is the declared amount per payment channel.
type TenderBreakdown struct {
	Cash     float64 `json:"cash,omitempty"`
	Card     float64 `json:"card,omitempty"`
	Transfer float64 `json:"transfer,omitempty"`
	App      float64 `json:"app,omitempty"`
}

// Sum returns the total declared across all channels.
func (b TenderBreakdown) Sum() float64 {
	return b.Cash + b.Card + b.Transfer + b.App
}

// AmountFor returns the declared amount for a single channel.
func (b TenderBreakdown) AmountFor(method TenderMethod) float64 {
	switch method {
	case TenderCash:
		return b.Cash
	case TenderCard:
		return b.Card
	case TenderTransfer:
		return b.Transfer
	case TenderApp:
		return b.App
	default:
		return 0
	}
}

// NonZeroMethods counts the channels with a declared amount.
func (b TenderBreakdown) NonZeroMethods() int {
	n := 0
	for _, amount := range []float64{b.Cash, b.Card, b.Transfer, b.App} {
		if amount != 0 {
			n++
		}
	}
	return n
}

// LineItem is one product position of a sale. UnitPrice is the catalog price
// snapshotted at sale time.
type LineItem struct {
	SaleID       uuid.UUID `json:"sale_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	LineSubtotal float64   `json:"line_subtotal"`
}

// Sale is an immutable committed sale. There is no edit or void surface.
type Sale struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CashSessionID uuid.UUID       `json:"cash_session_id"`
	BuyerID       *uuid.UUID      `json:"buyer_id,omitempty"`
	Kind          Kind            `json:"kind"`
	Subtotal      float64         `json:"subtotal"`
	Discount      float64         `json:"discount"`
	Total         float64         `json:"total"`
	TenderMethod  TenderMethod    `json:"tender_method"`
	Breakdown     TenderBreakdown `json:"tender_breakdown"`
	Observations  string          `json:"observations,omitempty"`
	SoldAt        time.Time       `json:"sold_at"`
	SellerID      uuid.UUID       `json:"seller_id"`

	Items      []*LineItem            `json:"items"`
	Membership *membership.Membership `json:"membership,omitempty"`
}

// ItemRequest is one requested product position. The unit price is never
// taken from the client.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"qty"`
}

// Request is the payload for processing a sale.
type Request struct {
	Items           []ItemRequest   `json:"items"`
	Kind            string          `json:"kind"`
	BuyerID         string          `json:"buyer_id,omitempty"`
	PlanID          string          `json:"plan_id,omitempty"`
	TenderMethod    string          `json:"tender_method"`
	TenderBreakdown TenderBreakdown `json:"tender_breakdown"`
	Discount        float64         `json:"discount,omitempty"`
	Observations    string          `json:"observations,omitempty"`
}
