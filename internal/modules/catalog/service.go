package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
)

// DefaultCurrency is applied to every catalog price.
const DefaultCurrency = "PYG"

// Service defines catalog business logic.
type Service interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	Restock(ctx context.Context, id string, req RestockRequest) (*Product, error)
	UpdatePrice(ctx context.Context, id string, req UpdatePriceRequest) (*Product, error)

	CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, domain.Validation("name is required")
	}
	if req.Price <= 0 {
		return nil, domain.Validation("price must be greater than zero")
	}
	if req.Stock < 0 {
		return nil, domain.Validation("stock cannot be negative")
	}

	p := &Product{
		ID:       uuid.New(),
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Currency: DefaultCurrency,
		Stock:    req.Stock,
		IsActive: true,
	}
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, domain.Persistence(err)
	}
	return p, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("product")
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *service) Restock(ctx context.Context, id string, req RestockRequest) (*Product, error) {
	if req.Quantity <= 0 {
		return nil, domain.Validation("quantity must be greater than zero")
	}
	if err := s.repo.Restock(ctx, id, req.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("product")
		}
		return nil, domain.Persistence(err)
	}
	return s.GetProduct(ctx, id)
}

func (s *service) UpdatePrice(ctx context.Context, id string, req UpdatePriceRequest) (*Product, error) {
	if req.Price <= 0 {
		return nil, domain.Validation("price must be greater than zero")
	}
	if err := s.repo.UpdateProductPrice(ctx, id, req.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("product")
		}
		return nil, domain.Persistence(err)
	}
	return s.GetProduct(ctx, id)
}

func (s *service) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, domain.Validation("name is required")
	}
	if req.Price <= 0 {
		return nil, domain.Validation("price must be greater than zero")
	}
	if req.AppPrice < 0 {
		return nil, domain.Validation("app_price cannot be negative")
	}
	if req.DurationDays < 0 {
		return nil, domain.Validation("duration_days cannot be negative")
	}

	unit := DurationUnit(strings.ToUpper(req.DurationUnit))
	switch unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
	default:
		return nil, domain.Validation("invalid duration_unit: %s (allowed: DAY, WEEK, MONTH, YEAR)", req.DurationUnit)
	}

	p := &Plan{
		ID:           uuid.New(),
		Name:         req.Name,
		DurationUnit: unit,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		AppPrice:     req.AppPrice,
		Currency:     DefaultCurrency,
		IsActive:     true,
	}
	if err := s.repo.CreatePlan(ctx, p); err != nil {
		return nil, domain.Persistence(err)
	}
	return p, nil
}

func (s *service) GetPlan(ctx context.Context, id string) (*Plan, error) {
	p, err := s.repo.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("plan")
		}
		return nil, err
	}
	return p, nil
}

func (s *service) ListPlans(ctx context.Context) ([]*Plan, error) {
	return s.repo.ListPlans(ctx)
}
