package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Product is a retail item sold at the front desk (supplements, drinks, gear).
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Stock     int       `json:"stock"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DurationUnit represents the coarse length of a membership plan.
type DurationUnit string

const (
	UnitDay   DurationUnit = "DAY"
	UnitWeek  DurationUnit = "WEEK"
	UnitMonth DurationUnit = "MONTH"
	UnitYear  DurationUnit = "YEAR"
)

// Plan is a membership plan. DurationDays, when set, is the authoritative
// plan length; DurationUnit is kept for plans defined the coarse way.
// AppPrice is the discounted price for purchases paid through the in-app
// wallet; zero means no app tier.
type Plan struct {
	ID           uuid.UUID    `json:"id"`
	Name         string       `json:"name"`
	DurationUnit DurationUnit `json:"duration_unit"`
	DurationDays int          `json:"duration_days,omitempty"`
	Price        float64      `json:"price"`
	AppPrice     float64      `json:"app_price,omitempty"`
	Currency     string       `json:"currency"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreateProductRequest is the payload for adding a retail product.
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock,omitempty"`
}

// RestockRequest is the payload for adding stock to a product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// UpdatePriceRequest is the payload for repricing a product.
type UpdatePriceRequest struct {
	Price float64 `json:"price"`
}

// CreatePlanRequest is the payload for adding a membership plan.
type CreatePlanRequest struct {
	Name         string  `json:"name"`
	DurationUnit string  `json:"duration_unit"`
	DurationDays int     `json:"duration_days,omitempty"`
	Price        float64 `json:"price"`
	AppPrice     float64 `json:"app_price,omitempty"`
}
