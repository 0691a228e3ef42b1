package membership

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Service defines membership queries and the expiry sweep.
type Service interface {
	ListUserMemberships(ctx context.Context, userID string) ([]*Membership, error)
	ListExpiring(ctx context.Context, within time.Duration) ([]*Membership, error)
	ExpireOverdue(ctx context.Context) (int64, error)
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

func (s *service) ListUserMemberships(ctx context.Context, userID string) ([]*Membership, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListExpiring(ctx context.Context, within time.Duration) ([]*Membership, error) {
	return s.repo.ListExpiringBefore(ctx, time.Now().Add(within))
}

// ExpireOverdue runs the daily sweep. Safe to run more than once per day.
func (s *service) ExpireOverdue(ctx context.Context) (int64, error) {
	expired, err := s.repo.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("membership expiry sweep failed", zap.Error(err))
		return 0, err
	}
	if expired > 0 {
		s.logger.Info("membership expiry sweep", zap.Int64("expired", expired))
	}
	return expired, nil
}
