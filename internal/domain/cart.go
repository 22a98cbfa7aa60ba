package domain

import (
	"math"
	"time"
)

const (
	MinQuantity = 1
	MaxQuantity = 99

	// TaxRate is the flat sales tax applied to every validated cart.
	TaxRate = 0.08
)

// CartLineItem is client-supplied and untrusted. Prices are never read from it.
type CartLineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ValidatedLineItem carries the authoritative unit price taken from the
// catalog record at validation time.
type ValidatedLineItem struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

// ValidatedCart is recomputed per request and never persisted.
type ValidatedCart struct {
	Items    []ValidatedLineItem `json:"items"`
	Subtotal float64             `json:"subtotal"`
	Tax      float64             `json:"tax"`
	Shipping float64             `json:"shipping"`
	Total    float64             `json:"total"`
}

// Cart is the persistent per-user cart document.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// Round2 rounds a currency amount to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// MinorUnits converts a currency amount to integer cents for the payment provider.
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}
