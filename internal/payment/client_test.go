package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		var params CreateIntentParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, int64(21600), params.Amount)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret",
			Status:       "requires_payment_method",
			Amount:       params.Amount,
			Currency:     params.Currency,
			Metadata:     params.Metadata,
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	intent, err := c.CreateIntent(context.Background(), CreateIntentParams{
		Amount:   21600,
		Currency: "usd",
		Metadata: map[string]string{"email": "buyer@example.com"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, "buyer@example.com", intent.Metadata["email"])
}

func TestHTTPClient_GetIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		json.NewEncoder(w).Encode(Intent{ID: "pi_123", Status: IntentStatusSucceeded, Amount: 21600})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	intent, err := c.GetIntent(context.Background(), "pi_123")

	require.NoError(t, err)
	assert.Equal(t, IntentStatusSucceeded, intent.Status)
}

func TestHTTPClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	_, err := c.GetIntent(context.Background(), "pi_missing")

	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestHTTPClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	_, err := c.GetIntent(context.Background(), "pi_123")

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestHTTPClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"amount must be positive"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	_, err := c.CreateIntent(context.Background(), CreateIntentParams{Amount: -1, Currency: "usd"})

	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestHTTPClient_BreakerOpensAfterFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "sk_test_123")
	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = c.GetIntent(context.Background(), "pi_123")
	}

	// once open, calls fail fast without reaching the provider
	require.Error(t, lastErr)
	assert.NotErrorIs(t, lastErr, ErrProviderUnavailable)
}
