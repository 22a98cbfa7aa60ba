package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/order"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
)

func newOrdersFixture(t *testing.T) (*OrdersHandler, *paymentClientStub) {
	t.Helper()

	snapshot := &domain.CheckoutSnapshot{
		Items:    []domain.OrderItem{{ProductID: "P1", Title: "Walnut Armoire", Quantity: 1, UnitPrice: 216.00, LineTotal: 216.00}},
		Subtotal: 216.00,
		Total:    216.00,
		Email:    "buyer@example.com",
	}
	md, err := snapshot.ToMetadata()
	require.NoError(t, err)

	payments := &paymentClientStub{intents: map[string]*payment.Intent{
		"pi_ok": {ID: "pi_ok", Status: payment.IntentStatusSucceeded, Amount: 21600, Metadata: md},
		"pi_pending": {ID: "pi_pending", Status: "processing", Amount: 21600, Metadata: md},
	}}
	svc := order.NewService(newOrderRepoStub(), payments, &notifierStub{})
	return NewOrdersHandler(svc), payments
}

func authedContext(userID string) context.Context {
	return context.WithValue(context.Background(), "user_id", userID)
}

func TestCreateOrder_Success(t *testing.T) {
	h, _ := newOrdersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"paymentIntentId":"pi_ok"}`)).WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pi_ok", resp.Order.PaymentIntentID)
	assert.Equal(t, "user-1", resp.Order.UserID)
	assert.Equal(t, domain.OrderStatusPending, resp.Order.Status)
}

func TestCreateOrder_ReplayReturns200(t *testing.T) {
	h, _ := newOrdersFixture(t)

	body := `{"paymentIntentId":"pi_ok"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)).
		WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var first OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)).
		WithContext(authedContext("user-1"))
	rec = httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var second OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.Order.OrderNumber, second.Order.OrderNumber)
}

func TestCreateOrder_PaymentNotConfirmed(t *testing.T) {
	h, _ := newOrdersFixture(t)

	for _, intentID := range []string{"pi_pending", "pi_missing"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
			strings.NewReader(`{"paymentIntentId":"`+intentID+`"}`)).WithContext(authedContext("user-1"))
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "intent %s", intentID)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "payment_not_confirmed", resp.Code)
	}
}

func TestCreateOrder_MissingIntentID(t *testing.T) {
	h, _ := newOrdersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`)).
		WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_GuestAllowed(t *testing.T) {
	h, _ := newOrdersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"paymentIntentId":"pi_ok"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Order.UserID)
}

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	h, _ := newOrdersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"paymentIntentId":"pi_ok"}`)).WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	r := chi.NewRouter()
	r.Get("/api/v1/orders/{order_id}", h.Get)

	// the owner sees the order
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.Order.ID.String(), nil).
		WithContext(authedContext("user-1"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// someone else gets a 404, not a 403
	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.Order.ID.String(), nil).
		WithContext(authedContext("user-2"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminUpdate_Transitions(t *testing.T) {
	h, _ := newOrdersFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders",
		strings.NewReader(`{"paymentIntentId":"pi_ok"}`)).WithContext(authedContext("user-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created OrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	r := chi.NewRouter()
	r.Patch("/api/v1/admin/orders/{order_id}", h.AdminUpdate)
	target := "/api/v1/admin/orders/" + created.Order.ID.String()

	req = httptest.NewRequest(http.MethodPatch, target,
		strings.NewReader(`{"status":"shipped","carrier":"UPS","trackingNumber":"1Z999"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated UpdateOrderResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.OrderStatusShipped, updated.Order.Status)
	assert.Equal(t, "UPS", updated.Order.Carrier)

	// backwards move is refused
	req = httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{"status":"pending"}`))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_transition", resp.Code)
}
