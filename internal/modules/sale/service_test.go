package sale

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
	"github.com/dcastellanos/gymcore-backend/internal/modules/cashsession"
	"github.com/dcastellanos/gymcore-backend/internal/modules/catalog"
	"github.com/dcastellanos/gymcore-backend/internal/modules/ledger"
	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
	"github.com/dcastellanos/gymcore-backend/internal/modules/user"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeSessions struct{ open *cashsession.CashSession }

func (f *fakeSessions) Open(ctx context.Context, req cashsession.OpenRequest) (*cashsession.CashSession, error) {
	return nil, nil
}
func (f *fakeSessions) Close(ctx context.Context, req cashsession.CloseRequest) (*cashsession.CashSession, error) {
	return nil, nil
}
func (f *fakeSessions) Current(ctx context.Context) (*cashsession.CashSession, error) {
	return f.open, nil
}

type fakeCatalog struct {
	products map[uuid.UUID]*catalog.Product
	plans    map[string]*catalog.Plan
}

func (f *fakeCatalog) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetPlanByID(ctx context.Context, id string) (*catalog.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type fakeUsers struct{ users map[string]*user.User }

func (f *fakeUsers) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

type fakeRepo struct {
	calls          int
	collideFirstN  int
	lastSale       *Sale
	lastMembership *membership.Membership
	lastEntry      *ledger.Entry
}

func (f *fakeRepo) CreateSale(ctx context.Context, s *Sale, m *membership.Membership, entry *ledger.Entry) error {
	f.calls++
	if f.calls <= f.collideFirstN {
		return ErrInvoiceNumberTaken
	}
	f.lastSale = s
	f.lastMembership = m
	f.lastEntry = entry
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	if f.lastSale != nil && f.lastSale.ID.String() == id {
		return f.lastSale, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListBySession(ctx context.Context, sessionID string) ([]*Sale, error) {
	if f.lastSale != nil {
		return []*Sale{f.lastSale}, nil
	}
	return nil, nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	svc     Service
	repo    *fakeRepo
	catalog *fakeCatalog
	users   *fakeUsers

	session *cashsession.CashSession
	water   *catalog.Product
	shake   *catalog.Product
	monthly *catalog.Plan
	buyer   *user.User
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		repo: &fakeRepo{},
		session: &cashsession.CashSession{
			ID:     uuid.New(),
			Status: cashsession.StatusOpen,
		},
		water: &catalog.Product{
			ID: uuid.New(), Name: "Agua Mineral", Price: 10000, Stock: 5, IsActive: true,
		},
		shake: &catalog.Product{
			ID: uuid.New(), Name: "Batido Proteico", Price: 50000, Stock: 10, IsActive: true,
		},
		monthly: &catalog.Plan{
			ID:           uuid.New(),
			Name:         "Mensual",
			DurationUnit: catalog.UnitMonth,
			Price:        60000,
			AppPrice:     54000,
			IsActive:     true,
		},
		buyer: &user.User{ID: uuid.New(), Email: "socio@gym.test", Role: domain.RoleMember},
	}
	f.catalog = &fakeCatalog{
		products: map[uuid.UUID]*catalog.Product{f.water.ID: f.water, f.shake.ID: f.shake},
		plans:    map[string]*catalog.Plan{f.monthly.ID.String(): f.monthly},
	}
	f.users = &fakeUsers{users: map[string]*user.User{f.buyer.ID.String(): f.buyer}}

	logger := zaptest.NewLogger(t)
	f.svc = NewService(f.repo, &fakeSessions{open: f.session}, f.catalog, f.users,
		membership.NewIssuer(logger), logger)
	return f
}

func sellerContext() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleStaff})
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestProcessSaleRequiresOpenSession(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.repo, &fakeSessions{open: nil}, f.catalog, f.users,
		membership.NewIssuer(zaptest.NewLogger(t)), zaptest.NewLogger(t))

	_, err := svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 10000},
	})
	require.ErrorIs(t, err, domain.ErrSessionRequired)
	assert.Zero(t, f.repo.calls)
}

func TestProcessSaleProducts(t *testing.T) {
	f := newFixture(t)

	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 2}},
		Kind:            "products",
		TenderMethod:    "cash",
		TenderBreakdown: TenderBreakdown{Cash: 20000},
	})
	require.NoError(t, err)

	assert.Equal(t, 20000.0, sold.Subtotal)
	assert.Equal(t, 20000.0, sold.Total)
	assert.Equal(t, KindProducts, sold.Kind)
	assert.Equal(t, TenderCash, sold.TenderMethod)
	assert.Equal(t, f.session.ID, sold.CashSessionID)
	assert.NotEmpty(t, sold.InvoiceNumber)

	require.Len(t, sold.Items, 1)
	assert.Equal(t, f.water.ID, sold.Items[0].ProductID)
	assert.Equal(t, 10000.0, sold.Items[0].UnitPrice)
	assert.Equal(t, 20000.0, sold.Items[0].LineSubtotal)
	assert.Equal(t, sold.ID, sold.Items[0].SaleID)

	require.NotNil(t, f.repo.lastEntry)
	assert.Equal(t, ledger.TypeIncome, f.repo.lastEntry.Type)
	assert.Equal(t, ledger.CategoryProduct, f.repo.lastEntry.Category)
	assert.Equal(t, 20000.0, f.repo.lastEntry.Amount)
	assert.Equal(t, sold.InvoiceNumber, f.repo.lastEntry.Reference)
	assert.Nil(t, f.repo.lastMembership)
}

func TestProcessSaleIgnoresClientPrices(t *testing.T) {
	f := newFixture(t)

	// the request says nothing about prices; only the catalog price counts
	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.shake.ID.String(), Quantity: 1}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CARD",
		TenderBreakdown: TenderBreakdown{Card: 50000},
	})
	require.NoError(t, err)
	assert.Equal(t, 50000.0, sold.Total)
}

func TestProcessSaleInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.water.Stock = 1

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 2}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 20000},
	})
	assertKind(t, err, domain.KindStock)
	assert.Contains(t, err.Error(), "Agua Mineral")
	// nothing was written and stock is untouched
	assert.Zero(t, f.repo.calls)
	assert.Equal(t, 1, f.water.Stock)
}

func TestProcessSaleRejectsDuplicateProductLines(t *testing.T) {
	f := newFixture(t)
	f.water.Stock = 5

	// two lines of the same product would each pass a per-line stock check
	// while jointly overdrawing; one line per product is enforced instead
	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items: []ItemRequest{
			{ProductID: f.water.ID.String(), Quantity: 3},
			{ProductID: f.water.ID.String(), Quantity: 3},
		},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 60000},
	})
	assertKind(t, err, domain.KindValidation)
	assert.Zero(t, f.repo.calls)
	assert.Equal(t, 5, f.water.Stock)
}

func TestProcessSaleMembershipAppTier(t *testing.T) {
	f := newFixture(t)

	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Kind:            "MEMBERSHIP",
		BuyerID:         f.buyer.ID.String(),
		PlanID:          f.monthly.ID.String(),
		TenderMethod:    "APP",
		TenderBreakdown: TenderBreakdown{App: 54000},
	})
	require.NoError(t, err)

	assert.Equal(t, 54000.0, sold.Total)
	require.NotNil(t, sold.Membership)
	assert.Equal(t, 54000.0, sold.Membership.PricePaid)
	assert.Equal(t, sold.Membership.StartDate.AddDate(0, 1, 0), sold.Membership.EndDate)
	assert.Equal(t, f.buyer.ID, sold.Membership.UserID)

	require.NotNil(t, f.repo.lastEntry)
	assert.Equal(t, ledger.CategoryMembership, f.repo.lastEntry.Category)
	assert.Equal(t, 54000.0, f.repo.lastEntry.Amount)
	require.NotNil(t, f.repo.lastEntry.RelatedMembership)
	assert.Equal(t, sold.Membership.ID, *f.repo.lastEntry.RelatedMembership)
}

func TestProcessSaleMixedTender(t *testing.T) {
	f := newFixture(t)

	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.shake.ID.String(), Quantity: 2}},
		Kind:            "PRODUCTS",
		TenderMethod:    "MIXED",
		TenderBreakdown: TenderBreakdown{Cash: 40000, Card: 60000},
	})
	require.NoError(t, err)
	assert.Equal(t, 100000.0, sold.Total)
	assert.Equal(t, TenderMixed, sold.TenderMethod)
}

func TestProcessSaleReconciliationMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.shake.ID.String(), Quantity: 2}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 90000},
	})
	assertKind(t, err, domain.KindReconciliation)
	assert.Zero(t, f.repo.calls)
}

func TestProcessSaleNonPositiveTotal(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "PRODUCTS",
		Discount:        10000,
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{},
	})
	assertKind(t, err, domain.KindValidation)
}

func TestProcessSaleMembershipShape(t *testing.T) {
	f := newFixture(t)

	// missing plan
	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Kind:            "MEMBERSHIP",
		BuyerID:         f.buyer.ID.String(),
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 60000},
	})
	assertKind(t, err, domain.KindValidation)

	// missing buyer
	_, err = f.svc.ProcessSale(sellerContext(), Request{
		Kind:            "MEMBERSHIP",
		PlanID:          f.monthly.ID.String(),
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 60000},
	})
	assertKind(t, err, domain.KindValidation)

	// items on a pure membership sale
	_, err = f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "MEMBERSHIP",
		BuyerID:         f.buyer.ID.String(),
		PlanID:          f.monthly.ID.String(),
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 70000},
	})
	assertKind(t, err, domain.KindValidation)
}

func TestProcessSaleMixedKind(t *testing.T) {
	f := newFixture(t)

	// product 10000 + monthly plan 60000, split cash/card
	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "MIXED",
		BuyerID:         f.buyer.ID.String(),
		PlanID:          f.monthly.ID.String(),
		TenderMethod:    "MIXED",
		TenderBreakdown: TenderBreakdown{Cash: 30000, Card: 40000},
	})
	require.NoError(t, err)
	assert.Equal(t, 70000.0, sold.Total)
	require.NotNil(t, sold.Membership)
	assert.Equal(t, 60000.0, sold.Membership.PricePaid)
	require.Len(t, sold.Items, 1)
}

func TestProcessSaleUnknownProduct(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: uuid.NewString(), Quantity: 1}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 10000},
	})
	assertKind(t, err, domain.KindNotFound)
}

func TestProcessSaleUnknownBuyer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Kind:            "MEMBERSHIP",
		BuyerID:         uuid.NewString(),
		PlanID:          f.monthly.ID.String(),
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 60000},
	})
	assertKind(t, err, domain.KindNotFound)
}

func TestProcessSaleRetriesInvoiceCollision(t *testing.T) {
	f := newFixture(t)
	f.repo.collideFirstN = 1

	sold, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 10000},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.repo.calls)
	assert.NotEmpty(t, sold.InvoiceNumber)
}

func TestProcessSaleGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFixture(t)
	f.repo.collideFirstN = invoiceAttempts

	_, err := f.svc.ProcessSale(sellerContext(), Request{
		Items:           []ItemRequest{{ProductID: f.water.ID.String(), Quantity: 1}},
		Kind:            "PRODUCTS",
		TenderMethod:    "CASH",
		TenderBreakdown: TenderBreakdown{Cash: 10000},
	})
	assertKind(t, err, domain.KindPersistence)
	assert.Equal(t, invoiceAttempts, f.repo.calls)
}
