package cashsession

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// Service owns the register lifecycle: at most one session is open at any
// time, and a closed session is terminal.
type Service interface {
	Open(ctx context.Context, req OpenRequest) (*CashSession, error)
	Close(ctx context.Context, req CloseRequest) (*CashSession, error)
	Current(ctx context.Context) (*CashSession, error)
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

func (s *service) Open(ctx context.Context, req OpenRequest) (*CashSession, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return nil, domain.Authorization("no authenticated actor")
	}
	if req.OpeningFloat < 0 {
		return nil, domain.Validation("opening_float cannot be negative")
	}

	if _, err := s.repo.GetOpenSession(ctx); err == nil {
		return nil, domain.ErrSessionAlreadyOpen
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Persistence(err)
	}

	session := &CashSession{
		ID:           uuid.New(),
		OpeningFloat: req.OpeningFloat,
		Status:       StatusOpen,
		Observations: req.Observations,
		OpenedBy:     actor.ID,
		OpenedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("cash session opened",
		zap.String("session_id", session.ID.String()),
		zap.Float64("opening_float", session.OpeningFloat),
		zap.String("opened_by", actor.ID.String()))
	return session, nil
}

func (s *service) Close(ctx context.Context, req CloseRequest) (*CashSession, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return nil, domain.Authorization("no authenticated actor")
	}
	if req.ClosingAmount < 0 {
		return nil, domain.Validation("closing_amount cannot be negative")
	}

	session, err := s.repo.Close(ctx, req.ClosingAmount, req.Observations, actor.ID, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.Info("cash session closed",
		zap.String("session_id", session.ID.String()),
		zap.Float64("expected", *session.ExpectedAmount),
		zap.Float64("variance", *session.Variance),
		zap.String("closed_by", actor.ID.String()))
	return session, nil
}

// Current returns the open session with its live cash aggregate, or nil when
// the register is closed. Repeated calls without writes return identical data.
func (s *service) Current(ctx context.Context) (*CashSession, error) {
	session, err := s.repo.GetOpenSession(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Persistence(err)
	}
	return session, nil
}
