package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to validate")

// ValidationError identifies the line item that failed, so the client gets a
// specific reason rather than a silent correction.
type ValidationError struct {
	ProductID string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.ProductID == "" {
		return e.Reason
	}
	return fmt.Sprintf("item %s: %s", e.ProductID, e.Reason)
}

// ProductSource yields the authoritative catalog record for a product.
type ProductSource interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Validator re-derives line-item prices and totals from the catalog. Client
// supplied prices are never consulted; a single bad item fails the whole cart.
type Validator struct {
	products ProductSource
}

func NewValidator(products ProductSource) *Validator {
	return &Validator{products: products}
}

func (v *Validator) Validate(ctx context.Context, items []domain.CartLineItem) (*domain.ValidatedCart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	validated := make([]domain.ValidatedLineItem, 0, len(items))
	var subtotal float64

	for _, item := range items {
		if item.Quantity < domain.MinQuantity || item.Quantity > domain.MaxQuantity {
			return nil, &ValidationError{
				ProductID: item.ProductID,
				Reason: fmt.Sprintf("quantity must be between %d and %d",
					domain.MinQuantity, domain.MaxQuantity),
			}
		}

		p, err := v.products.GetProduct(ctx, item.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, &ValidationError{ProductID: item.ProductID, Reason: "product does not exist"}
		}
		if err != nil {
			return nil, fmt.Errorf("fetch product %s: %w", item.ProductID, err)
		}

		if !p.Status.Sellable() {
			return nil, &ValidationError{
				ProductID: item.ProductID,
				Reason:    fmt.Sprintf("product is no longer available (status %s)", p.Status),
			}
		}

		lineTotal := domain.Round2(p.Price * float64(item.Quantity))
		validated = append(validated, domain.ValidatedLineItem{
			ProductID: p.ID,
			Title:     p.Title,
			UnitPrice: p.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		subtotal += lineTotal
	}

	subtotal = domain.Round2(subtotal)
	tax := domain.Round2(subtotal * domain.TaxRate)
	shipping := 0.0 // free shipping under current policy

	return &domain.ValidatedCart{
		Items:    validated,
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    domain.Round2(subtotal + tax + shipping),
	}, nil
}
