package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the catalogue item managed by the API. CreatedBy is assigned once
// at creation and never changed afterwards.
type Product struct {
	ID          int64
	Name        string
	Price       decimal.Decimal
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SeedProducts is the catalogue inserted into an empty store.
func SeedProducts() []Product {
	return []Product{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Description: "High-performance laptop"},
		{Name: "Mouse", Price: decimal.RequireFromString("25.50"), Description: "Wireless mouse"},
		{Name: "Keyboard", Price: decimal.RequireFromString("75.00"), Description: "Mechanical keyboard"},
		{Name: "Monitor", Price: decimal.RequireFromString("299.99"), Description: "27-inch 4K monitor"},
		{Name: "Headphones", Price: decimal.RequireFromString("149.99"), Description: "Noise-cancelling headphones"},
	}
}
