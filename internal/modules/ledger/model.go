package ledger

import (
	"time"

	"github.com/google/uuid"
)

// EntryType classifies an entry as money in or money out.
type EntryType string

const (
	TypeIncome  EntryType = "INCOME"
	TypeExpense EntryType = "EXPENSE"
)

// Categories written by the sale processor. Manual entries may use free-form
// categories.
const (
	CategoryProduct    = "producto"
	CategoryMembership = "membresia"
)

// Entry is an immutable financial record. Entries are only ever appended;
// there is no update or delete surface.
type Entry struct {
	ID                uuid.UUID  `json:"id"`
	Type              EntryType  `json:"type"`
	Category          string     `json:"category"`
	Amount            float64    `json:"amount"`
	Method            string     `json:"method,omitempty"`
	Reference         string     `json:"reference,omitempty"`
	RelatedUser       *uuid.UUID `json:"related_user,omitempty"`
	RelatedMembership *uuid.UUID `json:"related_membership,omitempty"`
	RecordedBy        uuid.UUID  `json:"recorded_by"`
	RecordedAt        time.Time  `json:"recorded_at"`
}

// CreateEntryRequest is the payload for a manual income/expense entry.
type CreateEntryRequest struct {
	Type      string  `json:"type"`
	Category  string  `json:"category"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method,omitempty"`
	Reference string  `json:"reference,omitempty"`
}

// Summary aggregates a date range for the reporting collaborator.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Entries int     `json:"entries"`
}
