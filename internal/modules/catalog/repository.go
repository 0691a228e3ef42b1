package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines catalog data storage.
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	Restock(ctx context.Context, id string, quantity int) error
	UpdateProductPrice(ctx context.Context, id string, price float64) error

	CreatePlan(ctx context.Context, p *Plan) error
	GetPlanByID(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
}
