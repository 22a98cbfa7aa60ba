package domain

import "time"

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusSold     ProductStatus = "sold"
	ProductStatusArchived ProductStatus = "archived"
)

// Sellable reports whether a product may appear in a cart at validation time.
func (s ProductStatus) Sellable() bool {
	return s == ProductStatusActive
}

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusSold, ProductStatusArchived:
		return true
	}
	return false
}

type Product struct {
	ID          string        `json:"id"`
	SKU         string        `json:"sku"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Status      ProductStatus `json:"status"`
	Category    string        `json:"category"`
	Era         string        `json:"era,omitempty"`
	Condition   string        `json:"condition,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
