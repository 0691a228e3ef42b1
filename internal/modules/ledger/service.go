package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// Service records manual income/expense entries and serves the financial
// report reads. Sale entries bypass this service: they are written by the
// sale repository inside the sale transaction.
type Service interface {
	RecordManual(ctx context.Context, req CreateEntryRequest) (*Entry, error)
	List(ctx context.Context, from, to time.Time) ([]*Entry, *Summary, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger}
}

func (s *service) RecordManual(ctx context.Context, req CreateEntryRequest) (*Entry, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return nil, domain.Authorization("no authenticated actor")
	}

	entryType := EntryType(strings.ToUpper(req.Type))
	if entryType != TypeIncome && entryType != TypeExpense {
		return nil, domain.Validation("invalid type: %s (allowed: INCOME, EXPENSE)", req.Type)
	}
	if req.Amount <= 0 {
		return nil, domain.Validation("amount must be greater than zero")
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, domain.Validation("category is required")
	}

	e := &Entry{
		ID:         uuid.New(),
		Type:       entryType,
		Category:   req.Category,
		Amount:     req.Amount,
		Method:     req.Method,
		Reference:  req.Reference,
		RecordedBy: actor.ID,
		RecordedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, domain.Persistence(err)
	}

	s.logger.Info("manual ledger entry recorded",
		zap.String("entry_id", e.ID.String()),
		zap.String("type", string(e.Type)),
		zap.Float64("amount", e.Amount))
	return e, nil
}

func (s *service) List(ctx context.Context, from, to time.Time) ([]*Entry, *Summary, error) {
	entries, err := s.repo.List(ctx, from, to)
	if err != nil {
		return nil, nil, domain.Persistence(err)
	}
	summary, err := s.repo.Summarize(ctx, from, to)
	if err != nil {
		return nil, nil, domain.Persistence(err)
	}
	return entries, summary, nil
}
