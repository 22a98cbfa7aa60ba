package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusFailed    = "failed"

	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentFailed    = "payment_intent.payment_failed"
)

var (
	ErrIntentNotFound = errors.New("payment intent not found")
	// ErrProviderUnavailable covers transport failures, 5xx responses and an
	// open circuit breaker. Provider detail stays in the server log.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrProviderRejected    = errors.New("payment provider rejected the request")
)

// Intent mirrors the provider's payment-intent object. Amount is in minor
// currency units. Metadata round-trips the cart snapshot through the provider.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Metadata     map[string]string `json:"metadata"`
}

type CreateIntentParams struct {
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	ReceiptEmail string            `json:"receipt_email,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type Client interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

type HTTPClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*Intent]
}

func NewHTTPClient(baseURL, secretKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker[*Intent](gobreaker.Settings{
			Name:    "payment-provider",
			Timeout: 30 * time.Second,
		}),
	}
}

func (c *HTTPClient) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	return c.breaker.Execute(func() (*Intent, error) {
		body, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal intent params: %w", err)
		}
		return c.do(ctx, http.MethodPost, "/v1/payment_intents", bytes.NewReader(body))
	})
}

func (c *HTTPClient) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return c.breaker.Execute(func() (*Intent, error) {
		return c.do(ctx, http.MethodGet, "/v1/payment_intents/"+id, nil)
	})
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var intent Intent
		if e2 := json.Unmarshal(respBody, &intent); e2 != nil {
			return nil, fmt.Errorf("failed to unmarshal provider response: %w", e2)
		}
		return &intent, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrIntentNotFound
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, respBody)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderRejected, resp.StatusCode, respBody)
	}
}
