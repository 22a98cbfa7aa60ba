package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/order"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

type OrdersHandler struct {
	orders *order.Service
}

func NewOrdersHandler(s *order.Service) *OrdersHandler {
	return &OrdersHandler{orders: s}
}

type CreateOrderRequestDTO struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type OrderResponseDTO struct {
	Order *domain.Order `json:"order"`
}

// POST /api/v1/orders
func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentIntentID == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_intent",
			"paymentIntentId is required")
		return
	}

	// guest checkout is allowed: userID may be empty
	userID := getUserIDFromContext(r.Context())

	o, created, err := h.orders.CreateFromIntent(r.Context(), req.PaymentIntentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrPaymentNotSucceeded),
			errors.Is(err, order.ErrAmountMismatch),
			errors.Is(err, payment.ErrIntentNotFound):
			respondError(w, http.StatusBadRequest, "payment_not_confirmed",
				"payment has not been confirmed for this request")
		case errors.Is(err, payment.ErrProviderUnavailable):
			respondError(w, http.StatusBadGateway, "payment_unavailable",
				"unable to verify payment, please try again")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to create order")
		}
		return
	}

	status := http.StatusOK // replayed confirmation, order already existed
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, OrderResponseDTO{Order: o})
}

// GET /api/v1/orders
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	orders, err := h.orders.ListOrdersForUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	o, err := h.orders.GetOrder(r.Context(), id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	if o.UserID != userID {
		// do not reveal that the order exists
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, OrderResponseDTO{Order: o})
}

// GET /api/v1/admin/orders
func (h *OrdersHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	orders, err := h.orders.ListOrders(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

type UpdateOrderRequestDTO struct {
	Status           string `json:"status"`
	Carrier          string `json:"carrier"`
	TrackingNumber   string `json:"trackingNumber"`
	ShippingLabelURL string `json:"shippingLabelUrl"`
}

type UpdateOrderResponseDTO struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

// PATCH /api/v1/admin/orders/{order_id}
func (h *OrdersHandler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	var req UpdateOrderRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, order.StatusUpdate{
		Status:           domain.OrderStatus(req.Status),
		Carrier:          req.Carrier,
		TrackingNumber:   req.TrackingNumber,
		ShippingLabelURL: req.ShippingLabelURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "not_found", "order not found")
		case errors.Is(err, order.ErrInvalidTransition):
			respondError(w, http.StatusBadRequest, "invalid_transition", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order")
		}
		return
	}

	respondJSON(w, http.StatusOK, UpdateOrderResponseDTO{
		Order:   o,
		Message: fmt.Sprintf("order %s updated", o.OrderNumber),
	})
}
