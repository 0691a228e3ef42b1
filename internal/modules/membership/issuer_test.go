package membership

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/dcastellanos/gymcore-backend/internal/modules/catalog"
)

func TestTermByUnit(t *testing.T) {
	issuer := NewIssuer(zaptest.NewLogger(t))
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		unit catalog.DurationUnit
		want time.Time
	}{
		{catalog.UnitDay, start.AddDate(0, 0, 1)},
		{catalog.UnitWeek, start.AddDate(0, 0, 7)},
		{catalog.UnitMonth, start.AddDate(0, 1, 0)},
		{catalog.UnitYear, start.AddDate(1, 0, 0)},
	}
	for _, tc := range cases {
		plan := &catalog.Plan{ID: uuid.New(), DurationUnit: tc.unit}
		assert.Equal(t, tc.want, issuer.Term(plan, start), "unit %s", tc.unit)
	}
}

func TestTermPrefersExplicitDayCount(t *testing.T) {
	issuer := NewIssuer(zaptest.NewLogger(t))
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// a "monthly" plan that actually grants 45 days
	plan := &catalog.Plan{
		ID:           uuid.New(),
		DurationUnit: catalog.UnitMonth,
		DurationDays: 45,
	}
	assert.Equal(t, start.AddDate(0, 0, 45), issuer.Term(plan, start))
}

func TestPriceForTenderTier(t *testing.T) {
	issuer := NewIssuer(zaptest.NewLogger(t))
	plan := &catalog.Plan{Price: 60000, AppPrice: 54000}

	assert.Equal(t, 54000.0, issuer.PriceFor(plan, "APP"))
	assert.Equal(t, 60000.0, issuer.PriceFor(plan, "CASH"))
	assert.Equal(t, 60000.0, issuer.PriceFor(plan, "CARD"))

	// no app tier defined: standard price applies everywhere
	flat := &catalog.Plan{Price: 60000}
	assert.Equal(t, 60000.0, issuer.PriceFor(flat, "APP"))
}

func TestIssue(t *testing.T) {
	issuer := NewIssuer(zaptest.NewLogger(t))
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	buyer := uuid.New()
	plan := &catalog.Plan{
		ID:           uuid.New(),
		Name:         "Mensual",
		DurationUnit: catalog.UnitMonth,
		Price:        60000,
		AppPrice:     54000,
	}

	m := issuer.Issue(plan, buyer, "APP", start)

	assert.Equal(t, buyer, m.UserID)
	assert.Equal(t, plan.ID, m.PlanID)
	assert.Equal(t, start, m.StartDate)
	assert.Equal(t, start.AddDate(0, 1, 0), m.EndDate)
	assert.Equal(t, 54000.0, m.PricePaid)
	assert.Equal(t, StatusActive, m.Status)
}
