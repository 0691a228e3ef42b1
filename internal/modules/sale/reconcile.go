package sale

import (
	"math"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// Tolerance absorbs float rounding when comparing declared tender amounts
// against the computed total.
const Tolerance = 0.01

var tenderChannels = []TenderMethod{TenderCash, TenderCard, TenderTransfer, TenderApp}

// Reconcile validates that the declared tender amounts settle the total.
// For a single method the declared amount for that method must equal the
// total and every other channel must individually be zero. For mixed tender
// the declared amounts must sum to the total across at least two channels;
// a "mixed" sale settled by one channel is a contract violation, not a
// convenience. Negative amounts are rejected on any channel so offsetting
// strays cannot hide behind the sum.
func Reconcile(total float64, method TenderMethod, breakdown TenderBreakdown) error {
	for _, channel := range tenderChannels {
		if breakdown.AmountFor(channel) < 0 {
			return domain.Validation("tender_breakdown %s amount cannot be negative", channel)
		}
	}

	switch method {
	case TenderCash, TenderCard, TenderTransfer, TenderApp:
		declared := breakdown.AmountFor(method)
		if math.Abs(declared-total) > Tolerance {
			return domain.Reconciliation("declared %s amount %.2f does not match total %.2f",
				method, declared, total)
		}
		for _, channel := range tenderChannels {
			if channel != method && breakdown.AmountFor(channel) != 0 {
				return domain.Reconciliation("tender_breakdown declares %s outside method %s", channel, method)
			}
		}
		return nil

	case TenderMixed:
		if breakdown.NonZeroMethods() < 2 {
			return domain.Reconciliation("mixed tender requires at least two payment methods")
		}
		if sum := breakdown.Sum(); math.Abs(sum-total) > Tolerance {
			return domain.Reconciliation("declared tender sum %.2f does not match total %.2f", sum, total)
		}
		return nil

	default:
		return domain.Validation("invalid tender_method: %s (allowed: CASH, CARD, TRANSFER, APP, MIXED)", method)
	}
}
