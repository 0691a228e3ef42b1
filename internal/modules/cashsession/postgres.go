package cashsession

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL cash-session repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, s *CashSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cash_sessions (id, opening_float, status, observations, opened_by, opened_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.OpeningFloat, s.Status, s.Observations, s.OpenedBy, s.OpenedAt)
	if err != nil {
		// Backstop behind the service-level check: a partial unique index on
		// status='OPEN' rejects a concurrent second open.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrSessionAlreadyOpen
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetOpenSession(ctx context.Context) (*CashSession, error) {
	s := &CashSession{}
	err := r.db.QueryRowContext(ctx, `
		SELECT cs.id, cs.opening_float, cs.status, cs.observations, cs.opened_by, cs.opened_at,
		       COALESCE(SUM(s.amount_cash), 0)
		FROM cash_sessions cs
		LEFT JOIN sales s ON s.cash_session_id = cs.id
		WHERE cs.status = 'OPEN'
		GROUP BY cs.id`,
	).Scan(&s.ID, &s.OpeningFloat, &s.Status, &s.Observations, &s.OpenedBy, &s.OpenedAt, &s.CashTendered)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepo) Close(ctx context.Context, closingAmount float64, notes string, closedBy uuid.UUID, at time.Time) (*CashSession, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, domain.Persistence(err)
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the open session row so no sale can be committed against it while
	// the closing balance is computed.
	s := &CashSession{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, opening_float, status, observations, opened_by, opened_at
		FROM cash_sessions
		WHERE status = 'OPEN'
		FOR UPDATE`,
	).Scan(&s.ID, &s.OpeningFloat, &s.Status, &s.Observations, &s.OpenedBy, &s.OpenedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNoOpenSession
		}
		return nil, domain.Persistence(err)
	}

	var cashTendered float64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cash), 0) FROM sales WHERE cash_session_id = $1`,
		s.ID,
	).Scan(&cashTendered)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	expected := s.OpeningFloat + cashTendered
	variance := closingAmount - expected

	_, err = tx.ExecContext(ctx, `
		UPDATE cash_sessions
		SET status = 'CLOSED', closing_amount = $1, expected_amount = $2, variance = $3,
		    closing_notes = $4, closed_by = $5, closed_at = $6
		WHERE id = $7`,
		closingAmount, expected, variance, notes, closedBy, at, s.ID)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Persistence(err)
	}

	s.Status = StatusClosed
	s.ClosingAmount = &closingAmount
	s.ExpectedAmount = &expected
	s.Variance = &variance
	s.ClosingNotes = notes
	s.ClosedBy = &closedBy
	s.ClosedAt = &at
	s.CashTendered = cashTendered
	return s, nil
}
