package catalog

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL catalog repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (r *postgresRepo) CreateProduct(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, category, price, currency, stock, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Category, p.Price, p.Currency, p.Stock, p.IsActive)
	return err
}

func (r *postgresRepo) GetProductByID(ctx context.Context, id string) (*Product, error) {
	return r.scanProduct(r.db.QueryRowContext(ctx, `
		SELECT id,name,category,price,currency,stock,is_active,created_at,updated_at
		FROM products WHERE id=$1`, id))
}

func (r *postgresRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,category,price,currency,stock,is_active,created_at,updated_at
		FROM products WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectProducts(rows)
}

func (r *postgresRepo) ListProducts(ctx context.Context) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,category,price,currency,stock,is_active,created_at,updated_at
		FROM products WHERE is_active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collectProducts(rows)
}

func (r *postgresRepo) Restock(ctx context.Context, id string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`,
		quantity, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postgresRepo) UpdateProductPrice(ctx context.Context, id string, price float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET price = $1, updated_at = now() WHERE id = $2`,
		price, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ── Plans ─────────────────────────────────────────────────────────────────────

func (r *postgresRepo) CreatePlan(ctx context.Context, p *Plan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO membership_plans
		  (id, name, duration_unit, duration_days, price, app_price, currency, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.DurationUnit, p.DurationDays, p.Price, p.AppPrice, p.Currency, p.IsActive)
	return err
}

func (r *postgresRepo) GetPlanByID(ctx context.Context, id string) (*Plan, error) {
	return r.scanPlan(r.db.QueryRowContext(ctx, `
		SELECT id,name,duration_unit,duration_days,price,app_price,currency,is_active,created_at,updated_at
		FROM membership_plans WHERE id=$1`, id))
}

func (r *postgresRepo) ListPlans(ctx context.Context) ([]*Plan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,duration_unit,duration_days,price,app_price,currency,is_active,created_at,updated_at
		FROM membership_plans WHERE is_active = true ORDER BY price`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := r.scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// ── scanners ──────────────────────────────────────────────────────────────────

type rowScanner interface{ Scan(dest ...interface{}) error }

func (r *postgresRepo) scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Currency,
		&p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) collectProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) scanPlan(row rowScanner) (*Plan, error) {
	p := &Plan{}
	err := row.Scan(&p.ID, &p.Name, &p.DurationUnit, &p.DurationDays, &p.Price,
		&p.AppPrice, &p.Currency, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}
