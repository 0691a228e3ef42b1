package cashsession

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a register session. A session is
// opened once, closed once, and never reopened or deleted.
type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

// CashSession is the open/closed window of the physical register within
// which sales accumulate. ExpectedAmount and Variance are stamped exactly
// once, at close time.
type CashSession struct {
	ID             uuid.UUID  `json:"id"`
	OpeningFloat   float64    `json:"opening_float"`
	ClosingAmount  *float64   `json:"closing_amount,omitempty"`
	ExpectedAmount *float64   `json:"expected_amount,omitempty"`
	Variance       *float64   `json:"variance,omitempty"`
	Status         Status     `json:"status"`
	Observations   string     `json:"observations,omitempty"`
	ClosingNotes   string     `json:"closing_notes,omitempty"`
	OpenedBy       uuid.UUID  `json:"opened_by"`
	ClosedBy       *uuid.UUID `json:"closed_by,omitempty"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`

	// CashTendered is the live sum of cash-tender portions of the session's
	// sales. Populated on reads, not stored.
	CashTendered float64 `json:"cash_tendered"`
}

// OpenRequest is the payload for opening the register.
type OpenRequest struct {
	OpeningFloat float64 `json:"opening_float"`
	Observations string  `json:"observations,omitempty"`
}

// CloseRequest is the payload for closing the register with a counted amount.
type CloseRequest struct {
	ClosingAmount float64 `json:"closing_amount"`
	Observations  string  `json:"observations,omitempty"`
}
