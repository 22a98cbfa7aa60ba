package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cart"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
)

var ErrInvalidShipping = errors.New("invalid shipping info")

type IntentResult struct {
	ClientSecret    string
	PaymentIntentID string
	ValidatedTotal  float64
	Cart            *domain.ValidatedCart
}

// Service opens payment intents for validated carts. It never trusts a total
// computed in an earlier request: the cart is re-validated here.
type Service struct {
	validator *cart.Validator
	payments  payment.Client
	currency  string
}

func NewService(validator *cart.Validator, payments payment.Client) *Service {
	return &Service{
		validator: validator,
		payments:  payments,
		currency:  "usd",
	}
}

func (s *Service) CreatePaymentIntent(ctx context.Context, items []domain.CartLineItem, shipping domain.ShippingAddress) (*IntentResult, error) {
	if err := checkShipping(shipping); err != nil {
		return nil, err
	}

	validated, err := s.validator.Validate(ctx, items)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.CheckoutSnapshot{
		Items:           snapshotItems(validated),
		Subtotal:        validated.Subtotal,
		Tax:             validated.Tax,
		Shipping:        validated.Shipping,
		Total:           validated.Total,
		Email:           shipping.Email,
		ShippingAddress: shipping,
	}
	metadata, err := snapshot.ToMetadata()
	if err != nil {
		return nil, err
	}

	intent, err := s.payments.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:       domain.MinorUnits(validated.Total),
		Currency:     s.currency,
		ReceiptEmail: shipping.Email,
		Metadata:     metadata,
	})
	if err != nil {
		// provider detail stays server-side; the caller sees a generic failure
		log.Printf("create payment intent failed: %v", err)
		return nil, payment.ErrProviderUnavailable
	}

	return &IntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		ValidatedTotal:  validated.Total,
		Cart:            validated,
	}, nil
}

func snapshotItems(validated *domain.ValidatedCart) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(validated.Items))
	for _, it := range validated.Items {
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}
	return items
}

func checkShipping(shipping domain.ShippingAddress) error {
	switch {
	case shipping.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidShipping)
	case shipping.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidShipping)
	case shipping.Line1 == "":
		return fmt.Errorf("%w: address line is required", ErrInvalidShipping)
	case shipping.City == "":
		return fmt.Errorf("%w: city is required", ErrInvalidShipping)
	case shipping.PostalCode == "":
		return fmt.Errorf("%w: postal code is required", ErrInvalidShipping)
	case shipping.Country == "":
		return fmt.Errorf("%w: country is required", ErrInvalidShipping)
	}
	return nil
}
