package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
	"github.com/dcastellanos/gymcore-backend/internal/modules/cashsession"
	"github.com/dcastellanos/gymcore-backend/internal/modules/catalog"
	"github.com/dcastellanos/gymcore-backend/internal/modules/ledger"
	"github.com/dcastellanos/gymcore-backend/internal/modules/membership"
	"github.com/dcastellanos/gymcore-backend/internal/modules/user"
)

// Catalog is the read-only slice of the product/plan catalog the processor
// consumes. Satisfied by catalog.Repository.
type Catalog interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error)
	GetPlanByID(ctx context.Context, id string) (*catalog.Plan, error)
}

// Users is the identity lookup the processor consumes. Satisfied by
// user.Repository.
type Users interface {
	GetUserByID(ctx context.Context, id string) (*user.User, error)
}

// Service is the sale processor: it admits a sale against the open register
// session, validates and prices it, reconciles the tender and commits the
// whole unit atomically.
type Service interface {
	ProcessSale(ctx context.Context, req Request) (*Sale, error)
	GetSale(ctx context.Context, id string) (*Sale, error)
	ListSessionSales(ctx context.Context, sessionID string) ([]*Sale, error)
}

const invoiceAttempts = 3

type service struct {
	repo     Repository
	sessions cashsession.Service
	catalog  Catalog
	users    Users
	issuer   *membership.Issuer
	logger   *zap.Logger
}

func NewService(repo Repository, sessions cashsession.Service, cat Catalog, users Users, issuer *membership.Issuer, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		catalog:  cat,
		users:    users,
		issuer:   issuer,
		logger:   logger,
	}
}

func (s *service) ProcessSale(ctx context.Context, req Request) (*Sale, error) {
	actor, ok := domain.ActorFrom(ctx)
	if !ok {
		return nil, domain.Authorization("no authenticated actor")
	}

	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionRequired
	}

	kind, method, err := parseKindAndMethod(req)
	if err != nil {
		return nil, err
	}
	if err := validateShape(req, kind); err != nil {
		return nil, err
	}

	items, subtotal, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var plan *catalog.Plan
	var buyerID *uuid.UUID
	if req.BuyerID != "" {
		buyer, err := s.lookupBuyer(ctx, req.BuyerID)
		if err != nil {
			return nil, err
		}
		buyerID = &buyer.ID
	}
	if kind == KindMembership || kind == KindMixed {
		plan, err = s.lookupPlan(ctx, req.PlanID)
		if err != nil {
			return nil, err
		}
		subtotal += s.issuer.PriceFor(plan, string(method))
	}

	total := subtotal - req.Discount
	if total <= 0 {
		return nil, domain.Validation("total must be greater than zero")
	}

	if err := Reconcile(total, method, req.TenderBreakdown); err != nil {
		return nil, err
	}

	now := time.Now()
	committed := &Sale{
		ID:            uuid.New(),
		CashSessionID: session.ID,
		BuyerID:       buyerID,
		Kind:          kind,
		Subtotal:      subtotal,
		Discount:      req.Discount,
		Total:         total,
		TenderMethod:  method,
		Breakdown:     req.TenderBreakdown,
		Observations:  req.Observations,
		SoldAt:        now,
		SellerID:      actor.ID,
		Items:         items,
	}
	for _, item := range items {
		item.SaleID = committed.ID
	}

	var issued *membership.Membership
	if plan != nil {
		issued = s.issuer.Issue(plan, *buyerID, string(method), now)
		committed.Membership = issued
	}

	entry := s.buildLedgerEntry(committed, issued, actor)

	// The invoice number carries a random suffix; on the rare collision with
	// the uniqueness constraint the whole unit is retried under a new number.
	for attempt := 0; attempt < invoiceAttempts; attempt++ {
		committed.InvoiceNumber = generateInvoiceNumber(now)
		entry.Reference = committed.InvoiceNumber

		err = s.repo.CreateSale(ctx, committed, issued, entry)
		if err == nil {
			s.logger.Info("sale committed",
				zap.String("sale_id", committed.ID.String()),
				zap.String("invoice", committed.InvoiceNumber),
				zap.String("kind", string(kind)),
				zap.Float64("total", total),
				zap.String("seller", actor.ID.String()))
			return committed, nil
		}
		if !errors.Is(err, ErrInvoiceNumberTaken) {
			return nil, err
		}
	}
	return nil, domain.Persistence(fmt.Errorf("could not allocate a unique invoice number after %d attempts", invoiceAttempts))
}

func (s *service) GetSale(ctx context.Context, id string) (*Sale, error) {
	sold, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("sale")
		}
		return nil, domain.Persistence(err)
	}
	return sold, nil
}

func (s *service) ListSessionSales(ctx context.Context, sessionID string) ([]*Sale, error) {
	return s.repo.ListBySession(ctx, sessionID)
}

// ── Validation & pricing ──────────────────────────────────────────────────────

func parseKindAndMethod(req Request) (Kind, TenderMethod, error) {
	kind := Kind(strings.ToUpper(req.Kind))
	switch kind {
	case KindProducts, KindMembership, KindMixed:
	default:
		return "", "", domain.Validation("invalid kind: %s (allowed: PRODUCTS, MEMBERSHIP, MIXED)", req.Kind)
	}

	method := TenderMethod(strings.ToUpper(req.TenderMethod))
	switch method {
	case TenderCash, TenderCard, TenderTransfer, TenderApp, TenderMixed:
	default:
		return "", "", domain.Validation("invalid tender_method: %s (allowed: CASH, CARD, TRANSFER, APP, MIXED)", req.TenderMethod)
	}
	return kind, method, nil
}

func validateShape(req Request, kind Kind) error {
	switch kind {
	case KindMembership:
		if len(req.Items) > 0 {
			return domain.Validation("a MEMBERSHIP sale carries no items; use kind MIXED")
		}
	default:
		if len(req.Items) == 0 {
			return domain.Validation("items are required for a %s sale", kind)
		}
	}

	if kind == KindMembership || kind == KindMixed {
		if req.PlanID == "" {
			return domain.Validation("plan_id is required for a %s sale", kind)
		}
		if req.BuyerID == "" {
			return domain.Validation("buyer_id is required for a %s sale", kind)
		}
	}

	if req.Discount < 0 {
		return domain.Validation("discount cannot be negative")
	}
	return nil
}

// priceItems snapshots current catalog prices into line items; client-supplied
// prices are never trusted. Availability is rechecked under row locks at
// commit time.
func (s *service) priceItems(ctx context.Context, reqItems []ItemRequest) ([]*LineItem, float64, error) {
	if len(reqItems) == 0 {
		return nil, 0, nil
	}

	ids := make([]uuid.UUID, 0, len(reqItems))
	seen := make(map[uuid.UUID]bool, len(reqItems))
	for _, item := range reqItems {
		if item.Quantity < 1 {
			return nil, 0, domain.Validation("item quantity must be at least 1")
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, 0, domain.Validation("invalid product_id: %s", item.ProductID)
		}
		// One line per product, so the availability check covers the full
		// requested quantity.
		if seen[id] {
			return nil, 0, domain.Validation("duplicate product_id: %s", item.ProductID)
		}
		seen[id] = true
		ids = append(ids, id)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, domain.Persistence(err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var items []*LineItem
	var subtotal float64
	for i, reqItem := range reqItems {
		p, ok := byID[ids[i]]
		if !ok {
			return nil, 0, domain.NotFound("product " + reqItem.ProductID)
		}
		if !p.IsActive {
			return nil, 0, domain.Validation("product %s is not for sale", p.Name)
		}
		if p.Stock < reqItem.Quantity {
			return nil, 0, domain.Stock(p.Name)
		}

		lineSubtotal := p.Price * float64(reqItem.Quantity)
		items = append(items, &LineItem{
			ProductID:    p.ID,
			ProductName:  p.Name,
			Quantity:     reqItem.Quantity,
			UnitPrice:    p.Price,
			LineSubtotal: lineSubtotal,
		})
		subtotal += lineSubtotal
	}
	return items, subtotal, nil
}

func (s *service) lookupBuyer(ctx context.Context, id string) (*user.User, error) {
	buyer, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("buyer")
		}
		return nil, domain.Persistence(err)
	}
	return buyer, nil
}

func (s *service) lookupPlan(ctx context.Context, id string) (*catalog.Plan, error) {
	plan, err := s.catalog.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("plan")
		}
		return nil, domain.Persistence(err)
	}
	if !plan.IsActive {
		return nil, domain.Validation("plan %s is not for sale", plan.Name)
	}
	return plan, nil
}

func (s *service) buildLedgerEntry(sold *Sale, issued *membership.Membership, actor domain.Actor) *ledger.Entry {
	category := ledger.CategoryProduct
	if sold.Kind != KindProducts {
		category = ledger.CategoryMembership
	}

	entry := &ledger.Entry{
		ID:          uuid.New(),
		Type:        ledger.TypeIncome,
		Category:    category,
		Amount:      sold.Total,
		Method:      string(sold.TenderMethod),
		RelatedUser: sold.BuyerID,
		RecordedBy:  actor.ID,
		RecordedAt:  sold.SoldAt,
	}
	if issued != nil {
		entry.RelatedMembership = &issued.ID
	}
	return entry
}

func generateInvoiceNumber(t time.Time) string {
	suffix := fmt.Sprintf("%06d", rand.Intn(1000000))
	return fmt.Sprintf("VTA-%s-%s", t.Format("200601"), suffix)
}
