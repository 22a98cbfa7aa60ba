package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cart"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

type CartHandler struct {
	validator *cart.Validator
	carts     *cart.Service
}

func NewCartHandler(validator *cart.Validator, carts *cart.Service) *CartHandler {
	return &CartHandler{validator: validator, carts: carts}
}

type ValidateCartRequestDTO struct {
	Items []domain.CartLineItem `json:"items"`
}

type ValidateCartResponseDTO struct {
	Valid    bool                       `json:"valid"`
	Items    []domain.ValidatedLineItem `json:"items"`
	Subtotal float64                    `json:"subtotal"`
	Tax      float64                    `json:"tax"`
	Shipping float64                    `json:"shipping"`
	Total    float64                    `json:"total"`
}

// POST /api/v1/cart/validate
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateCartRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	validated, err := h.validator.Validate(r.Context(), req.Items)
	if err != nil {
		respondCartError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ValidateCartResponseDTO{
		Valid:    true,
		Items:    validated.Items,
		Subtotal: validated.Subtotal,
		Tax:      validated.Tax,
		Shipping: validated.Shipping,
		Total:    validated.Total,
	})
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	if err := h.carts.RemoveItem(r.Context(), userID, productID); err != nil {
		respondCartError(w, err)
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	if err := h.carts.ClearCart(r.Context(), userID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	c, err := h.carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func respondCartError(w http.ResponseWriter, err error) {
	var vErr *cart.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, "invalid_cart", vErr.Error())
	case errors.Is(err, cart.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusBadRequest, "invalid_cart", "product does not exist")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "not_found", "item not found in cart")
	case errors.Is(err, cart.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "not_found", "cart not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "cart operation failed")
	}
}
