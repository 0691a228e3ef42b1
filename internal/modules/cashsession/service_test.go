package cashsession

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// fakeRepo keeps at most one open session in memory, mirroring the partial
// unique index of the real store.
type fakeRepo struct {
	open         *CashSession
	cashTendered float64
	closed       []*CashSession
}

func (f *fakeRepo) Create(ctx context.Context, s *CashSession) error {
	if f.open != nil {
		return domain.ErrSessionAlreadyOpen
	}
	f.open = s
	return nil
}

func (f *fakeRepo) GetOpenSession(ctx context.Context) (*CashSession, error) {
	if f.open == nil {
		return nil, sql.ErrNoRows
	}
	copied := *f.open
	copied.CashTendered = f.cashTendered
	return &copied, nil
}

func (f *fakeRepo) Close(ctx context.Context, closingAmount float64, notes string, closedBy uuid.UUID, at time.Time) (*CashSession, error) {
	if f.open == nil {
		return nil, domain.ErrNoOpenSession
	}
	s := *f.open
	expected := s.OpeningFloat + f.cashTendered
	variance := closingAmount - expected
	s.Status = StatusClosed
	s.ClosingAmount = &closingAmount
	s.ExpectedAmount = &expected
	s.Variance = &variance
	s.ClosingNotes = notes
	s.ClosedBy = &closedBy
	s.ClosedAt = &at
	f.open = nil
	f.closed = append(f.closed, &s)
	return &s, nil
}

func staffContext() context.Context {
	return domain.WithActor(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleStaff})
}

func newTestService(t *testing.T, repo Repository) Service {
	return NewService(repo, zaptest.NewLogger(t))
}

func TestOpenSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	s, err := svc.Open(staffContext(), OpenRequest{OpeningFloat: 50000})
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, s.Status)
	assert.Equal(t, 50000.0, s.OpeningFloat)
}

func TestOpenRejectsNegativeFloat(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Open(staffContext(), OpenRequest{OpeningFloat: -1})
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindValidation, kind)
}

func TestOpenWhileAlreadyOpen(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Open(staffContext(), OpenRequest{OpeningFloat: 50000})
	require.NoError(t, err)

	// second open must be rejected without creating a row
	_, err = svc.Open(staffContext(), OpenRequest{OpeningFloat: 1000})
	require.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)
	assert.NotNil(t, repo.open)
	assert.Equal(t, 50000.0, repo.open.OpeningFloat)
}

func TestCloseComputesExpectedAndVariance(t *testing.T) {
	// opening float 50000, two cash sales of 10000 each, counted 70000
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Open(staffContext(), OpenRequest{OpeningFloat: 50000})
	require.NoError(t, err)
	repo.cashTendered = 20000

	s, err := svc.Close(staffContext(), CloseRequest{ClosingAmount: 70000})
	require.NoError(t, err)
	assert.Equal(t, 70000.0, *s.ExpectedAmount)
	assert.Equal(t, 0.0, *s.Variance)
	assert.Equal(t, StatusClosed, s.Status)
	assert.NotNil(t, s.ClosedBy)
}

func TestCloseMissingCashShowsVariance(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	_, err := svc.Open(staffContext(), OpenRequest{OpeningFloat: 50000})
	require.NoError(t, err)
	repo.cashTendered = 20000

	s, err := svc.Close(staffContext(), CloseRequest{ClosingAmount: 65000})
	require.NoError(t, err)
	assert.Equal(t, -5000.0, *s.Variance)
}

func TestCloseWithoutOpenSession(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Close(staffContext(), CloseRequest{ClosingAmount: 1000})
	require.ErrorIs(t, err, domain.ErrNoOpenSession)
}

func TestCloseRejectsNegativeAmount(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Close(staffContext(), CloseRequest{ClosingAmount: -5})
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindValidation, kind)
}

func TestCurrentIsIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)

	// no open session: nil, nil
	s, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = svc.Open(staffContext(), OpenRequest{OpeningFloat: 30000})
	require.NoError(t, err)
	repo.cashTendered = 12000

	first, err := svc.Current(context.Background())
	require.NoError(t, err)
	second, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 12000.0, first.CashTendered)
}

func TestRequiresActor(t *testing.T) {
	svc := newTestService(t, &fakeRepo{})

	_, err := svc.Open(context.Background(), OpenRequest{OpeningFloat: 1000})
	require.Error(t, err)
	kind, _ := domain.KindOf(err)
	assert.Equal(t, domain.KindAuthorization, kind)
}
