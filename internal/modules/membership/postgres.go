package membership

import (
	"context"
	"database/sql"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL membership repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

const selectColumns = `
	m.id, m.user_id, m.plan_id, COALESCE(p.name, ''), m.start_date, m.end_date,
	m.price_paid, m.status, m.created_at, m.updated_at`

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]*Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM memberships m
		LEFT JOIN membership_plans p ON p.id = m.plan_id
		WHERE m.user_id = $1
		ORDER BY m.start_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *postgresRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM memberships m
		LEFT JOIN membership_plans p ON p.id = m.plan_id
		WHERE m.status = 'ACTIVE' AND m.end_date < $1
		ORDER BY m.end_date`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ExpireOverdue flips lapsed active memberships to EXPIRED. The status and
// date predicates make it idempotent per calendar day.
func (r *postgresRepo) ExpireOverdue(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET status = 'EXPIRED', updated_at = now()
		WHERE status = 'ACTIVE' AND end_date < CURRENT_DATE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func collect(rows *sql.Rows) ([]*Membership, error) {
	var memberships []*Membership
	for rows.Next() {
		m := &Membership{}
		err := rows.Scan(&m.ID, &m.UserID, &m.PlanID, &m.PlanName, &m.StartDate,
			&m.EndDate, &m.PricePaid, &m.Status, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}
