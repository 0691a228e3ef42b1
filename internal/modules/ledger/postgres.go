package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL ledger repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, e *Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ledger_entries
		  (id, type, category, amount, method, reference, related_user, related_membership, recorded_by, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		e.ID, e.Type, e.Category, e.Amount, e.Method, e.Reference,
		e.RelatedUser, e.RelatedMembership, e.RecordedBy, e.RecordedAt)
	return err
}

func (r *postgresRepo) List(ctx context.Context, from, to time.Time) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, category, amount, method, reference, related_user, related_membership, recorded_by, recorded_at
		FROM ledger_entries
		WHERE recorded_at >= $1 AND recorded_at < $2
		ORDER BY recorded_at DESC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var method, reference sql.NullString
		var relatedUser, relatedMembership uuid.NullUUID
		err := rows.Scan(&e.ID, &e.Type, &e.Category, &e.Amount, &method, &reference,
			&relatedUser, &relatedMembership, &e.RecordedBy, &e.RecordedAt)
		if err != nil {
			return nil, err
		}
		e.Method = method.String
		e.Reference = reference.String
		if relatedUser.Valid {
			e.RelatedUser = &relatedUser.UUID
		}
		if relatedMembership.Valid {
			e.RelatedMembership = &relatedMembership.UUID
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) Summarize(ctx context.Context, from, to time.Time) (*Summary, error) {
	s := &Summary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  COALESCE(SUM(amount) FILTER (WHERE type = 'INCOME'), 0),
		  COALESCE(SUM(amount) FILTER (WHERE type = 'EXPENSE'), 0),
		  COUNT(*)
		FROM ledger_entries
		WHERE recorded_at >= $1 AND recorded_at < $2`, from, to,
	).Scan(&s.Income, &s.Expense, &s.Entries)
	if err != nil {
		return nil, err
	}
	s.Net = s.Income - s.Expense
	return s, nil
}
