package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

// Service wraps the persistent cart store with quantity bounds and catalog
// existence checks.
type Service struct {
	store    Store
	products ProductSource
}

func NewService(store Store, products ProductSource) *Service {
	return &Service{store: store, products: products}
}

func (s *Service) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.store.GetCart(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		now := time.Now()
		return &domain.Cart{
			UserID:    userID,
			Items:     []domain.CartItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !p.Status.Sellable() {
		return &ValidationError{ProductID: productID, Reason: "product is not available"}
	}

	return s.store.AddItem(ctx, userID, domain.CartItem{
		ProductID: productID,
		Quantity:  quantity,
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if err := checkQuantity(quantity); err != nil {
		return err
	}
	return s.store.UpdateItemQuantity(ctx, userID, productID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.store.RemoveItem(ctx, userID, productID)
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	return s.store.DeleteCart(ctx, userID)
}

func checkQuantity(quantity int) error {
	if quantity < domain.MinQuantity || quantity > domain.MaxQuantity {
		return &ValidationError{
			Reason: fmt.Sprintf("quantity must be between %d and %d",
				domain.MinQuantity, domain.MaxQuantity),
		}
	}
	return nil
}
