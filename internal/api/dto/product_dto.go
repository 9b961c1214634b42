package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/product-service/internal/domain"
)

// ProductRequest payload for create and update. Price accepts a JSON number
// or a numeric string.
type ProductRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
}

// ProductResponse is the full product view for authenticated callers.
type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PublicProductResponse is the reduced anonymous view. It deliberately has no
// description or creator fields.
type PublicProductResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// NewProductResponse maps a domain product to the full view.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewPublicProductResponse maps a domain product to the reduced view.
func NewPublicProductResponse(p *domain.Product) PublicProductResponse {
	return PublicProductResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price.StringFixed(2),
	}
}
