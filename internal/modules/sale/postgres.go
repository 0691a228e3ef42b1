package sale

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
	"github.com/dcastellanos/gymcore-backend/internal/modules/ledger"
	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL sale repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

// CreateSale commits the atomic unit at read-committed isolation. The open
// session row and every affected product row are locked FOR UPDATE, so two
// concurrent sales cannot overdraw stock and the register cannot close under
// a mid-flight sale.
func (r *postgresRepo) CreateSale(ctx context.Context, s *Sale, m *membership.Membership, entry *ledger.Entry) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return domain.Persistence(err)
	}
	defer func() { _ = tx.Rollback() }()

	var openSessionID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM cash_sessions WHERE status = 'OPEN' FOR UPDATE`,
	).Scan(&openSessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrSessionRequired
		}
		return domain.Persistence(err)
	}
	if openSessionID != s.CashSessionID {
		// The session the request was admitted under was closed and another
		// one opened mid-flight.
		return domain.ErrSessionRequired
	}

	if err := r.decrementStock(ctx, tx, s.Items); err != nil {
		return err
	}

	var membershipID *uuid.UUID
	if m != nil {
		membershipID = &m.ID
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales
		  (id, invoice_number, cash_session_id, buyer_id, kind, subtotal, discount, total,
		   tender_method, amount_cash, amount_card, amount_transfer, amount_app,
		   observations, membership_id, sold_at, seller_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		s.ID, s.InvoiceNumber, s.CashSessionID, s.BuyerID, s.Kind, s.Subtotal, s.Discount, s.Total,
		s.TenderMethod, s.Breakdown.Cash, s.Breakdown.Card, s.Breakdown.Transfer, s.Breakdown.App,
		s.Observations, membershipID, s.SoldAt, s.SellerID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrInvoiceNumberTaken
		}
		return domain.Persistence(err)
	}

	for _, item := range s.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_line_items (sale_id, product_id, product_name, quantity, unit_price, line_subtotal)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			s.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice, item.LineSubtotal)
		if err != nil {
			return domain.Persistence(err)
		}
	}

	if m != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO memberships (id, user_id, plan_id, start_date, end_date, price_paid, status)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			m.ID, m.UserID, m.PlanID, m.StartDate, m.EndDate, m.PricePaid, m.Status)
		if err != nil {
			return domain.Persistence(err)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET status = 'ACTIVE', updated_at = now() WHERE id = $1`, m.UserID)
		if err != nil {
			return domain.Persistence(err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ledger_entries
		  (id, type, category, amount, method, reference, related_user, related_membership, recorded_by, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		entry.ID, entry.Type, entry.Category, entry.Amount, entry.Method, entry.Reference,
		entry.RelatedUser, entry.RelatedMembership, entry.RecordedBy, entry.RecordedAt)
	if err != nil {
		return domain.Persistence(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Persistence(err)
	}
	return nil
}

// decrementStock locks every affected product row, verifies availability and
// applies the decrement. Stock can never go negative: a shortfall fails the
// whole transaction before any write sticks.
func (r *postgresRepo) decrementStock(ctx context.Context, tx *sql.Tx, items []*LineItem) error {
	if len(items) == 0 {
		return nil
	}

	// Aggregate per product so repeated line items are checked and decremented
	// against the combined quantity, never each against the original stock.
	needed := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if _, ok := needed[item.ProductID]; !ok {
			ids = append(ids, item.ProductID)
		}
		needed[item.ProductID] += item.Quantity
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, stock FROM products WHERE id = ANY($1) FOR UPDATE`, pq.Array(ids))
	if err != nil {
		return domain.Persistence(err)
	}
	type productState struct {
		name  string
		stock int
	}
	available := make(map[uuid.UUID]productState, len(items))
	for rows.Next() {
		var id uuid.UUID
		var state productState
		if err := rows.Scan(&id, &state.name, &state.stock); err != nil {
			rows.Close()
			return domain.Persistence(err)
		}
		available[id] = state
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Persistence(err)
	}
	rows.Close()

	for _, id := range ids {
		state, ok := available[id]
		if !ok {
			return domain.NotFound("product " + id.String())
		}
		if state.stock < needed[id] {
			return domain.Stock(state.name)
		}
	}

	for _, id := range ids {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = now() WHERE id = $2`,
			needed[id], id)
		if err != nil {
			return domain.Persistence(err)
		}
	}
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

const saleColumns = `
	s.id, s.invoice_number, s.cash_session_id, s.buyer_id, s.kind, s.subtotal, s.discount,
	s.total, s.tender_method, s.amount_cash, s.amount_card, s.amount_transfer, s.amount_app,
	s.observations, s.membership_id, s.sold_at, s.seller_id`

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Sale, error) {
	s, membershipID, err := scanSale(r.db.QueryRowContext(ctx,
		`SELECT `+saleColumns+` FROM sales s WHERE s.id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, s); err != nil {
		return nil, err
	}
	if membershipID != nil {
		if err := r.loadMembership(ctx, s, *membershipID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *postgresRepo) ListBySession(ctx context.Context, sessionID string) ([]*Sale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saleColumns+` FROM sales s WHERE s.cash_session_id = $1 ORDER BY s.sold_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []*Sale
	for rows.Next() {
		s, _, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *postgresRepo) loadItems(ctx context.Context, s *Sale) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sale_id, product_id, product_name, quantity, unit_price, line_subtotal
		FROM sale_line_items WHERE sale_id = $1`, s.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := &LineItem{}
		err := rows.Scan(&item.SaleID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.LineSubtotal)
		if err != nil {
			return err
		}
		s.Items = append(s.Items, item)
	}
	return rows.Err()
}

func (r *postgresRepo) loadMembership(ctx context.Context, s *Sale, membershipID uuid.UUID) error {
	m := &membership.Membership{}
	err := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.user_id, m.plan_id, COALESCE(p.name, ''), m.start_date, m.end_date,
		       m.price_paid, m.status, m.created_at, m.updated_at
		FROM memberships m
		LEFT JOIN membership_plans p ON p.id = m.plan_id
		WHERE m.id = $1`, membershipID,
	).Scan(&m.ID, &m.UserID, &m.PlanID, &m.PlanName, &m.StartDate, &m.EndDate,
		&m.PricePaid, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}
	s.Membership = m
	return nil
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanSale(row rowScanner) (*Sale, *uuid.UUID, error) {
	s := &Sale{}
	var buyerID, membershipID uuid.NullUUID
	var observations sql.NullString
	err := row.Scan(&s.ID, &s.InvoiceNumber, &s.CashSessionID, &buyerID, &s.Kind,
		&s.Subtotal, &s.Discount, &s.Total, &s.TenderMethod,
		&s.Breakdown.Cash, &s.Breakdown.Card, &s.Breakdown.Transfer, &s.Breakdown.App,
		&observations, &membershipID, &s.SoldAt, &s.SellerID)
	if err != nil {
		return nil, nil, err
	}
	if buyerID.Valid {
		s.BuyerID = &buyerID.UUID
	}
	s.Observations = observations.String
	if membershipID.Valid {
		return s, &membershipID.UUID, nil
	}
	return s, nil, nil
}
