package http

import (
	"errors"
	"net/http"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cart"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/checkout"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
)

type CheckoutHandler struct {
	checkout *checkout.Service
}

func NewCheckoutHandler(c *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: c}
}

type PaymentIntentRequestDTO struct {
	Items        []domain.CartLineItem   `json:"items"`
	ShippingInfo domain.ShippingAddress  `json:"shippingInfo"`
	BillingInfo  *domain.ShippingAddress `json:"billingInfo,omitempty"`
}

type PaymentIntentResponseDTO struct {
	ClientSecret    string  `json:"clientSecret"`
	PaymentIntentID string  `json:"paymentIntentId"`
	ValidatedTotal  float64 `json:"validatedTotal"`
}

// POST /api/v1/checkout/payment-intent
func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req PaymentIntentRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.CreatePaymentIntent(r.Context(), req.Items, req.ShippingInfo)
	if err != nil {
		var vErr *cart.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondError(w, http.StatusBadRequest, "invalid_cart", vErr.Error())
		case errors.Is(err, cart.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
		case errors.Is(err, checkout.ErrInvalidShipping):
			respondError(w, http.StatusBadRequest, "invalid_shipping", err.Error())
		case errors.Is(err, payment.ErrProviderUnavailable), errors.Is(err, payment.ErrProviderRejected):
			// never leak provider internals to the client
			respondError(w, http.StatusBadGateway, "payment_unavailable",
				"unable to start payment, please try again")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, PaymentIntentResponseDTO{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		ValidatedTotal:  result.ValidatedTotal,
	})
}
