package membership

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dcastellanos/gymcore-backend/internal/modules/catalog"
)

// Issuer computes the term and price of a membership from a plan. It is pure
// computation; the record it builds is persisted inside the sale transaction.
type Issuer struct {
	logger *zap.Logger
}

func NewIssuer(logger *zap.Logger) *Issuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Issuer{logger: logger}
}

// PriceFor returns the plan price for the given tender method: the app-tier
// price when paying through the in-app wallet (and the plan defines one),
// the standard price otherwise.
func (i *Issuer) PriceFor(plan *catalog.Plan, tenderMethod string) float64 {
	if tenderMethod == "APP" && plan.AppPrice > 0 {
		return plan.AppPrice
	}
	return plan.Price
}

// Term returns the membership end date. The plan's explicit duration_days is
// authoritative when set; the coarse duration unit only applies to plans that
// never declared a day count. A disagreement between the two is reported
// rather than silently resolved.
func (i *Issuer) Term(plan *catalog.Plan, start time.Time) time.Time {
	byUnit := endByUnit(plan.DurationUnit, start)
	if plan.DurationDays <= 0 {
		return byUnit
	}

	byDays := start.AddDate(0, 0, plan.DurationDays)
	if !byDays.Equal(byUnit) {
		i.logger.Warn("plan duration_days disagrees with duration_unit; using duration_days",
			zap.String("plan_id", plan.ID.String()),
			zap.Int("duration_days", plan.DurationDays),
			zap.String("duration_unit", string(plan.DurationUnit)),
			zap.Time("end_by_days", byDays),
			zap.Time("end_by_unit", byUnit))
	}
	return byDays
}

// Issue builds the membership record for a buyer. StartDate defaults to now
// when zero.
func (i *Issuer) Issue(plan *catalog.Plan, buyerID uuid.UUID, tenderMethod string, start time.Time) *Membership {
	if start.IsZero() {
		start = time.Now()
	}
	return &Membership{
		ID:        uuid.New(),
		UserID:    buyerID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		StartDate: start,
		EndDate:   i.Term(plan, start),
		PricePaid: i.PriceFor(plan, tenderMethod),
		Status:    StatusActive,
	}
}

func endByUnit(unit catalog.DurationUnit, start time.Time) time.Time {
	switch unit {
	case catalog.UnitDay:
		return start.AddDate(0, 0, 1)
	case catalog.UnitWeek:
		return start.AddDate(0, 0, 7)
	case catalog.UnitYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}
