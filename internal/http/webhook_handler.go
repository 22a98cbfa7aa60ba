package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/order"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
)

type WebhookHandler struct {
	orders        *order.Service
	webhookSecret string
	development   bool
	maxBodySize   int64
	now           func() time.Time
}

func NewWebhookHandler(orders *order.Service, webhookSecret string, development bool, maxBodySize int64) *WebhookHandler {
	return &WebhookHandler{
		orders:        orders,
		webhookSecret: webhookSecret,
		development:   development,
		maxBodySize:   maxBodySize,
		now:           time.Now,
	}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	} `json:"data"`
}

// POST /api/v1/webhooks/payment
func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}

	if h.webhookSecret == "" {
		// fail closed: skipping verification silently would accept forged
		// events in production
		if !h.development {
			respondError(w, http.StatusServiceUnavailable, "missing_configuration",
				"webhook secret is not configured")
			return
		}
		log.Printf("[%s] webhook signature verification skipped (development mode)", getRequestID(r.Context()))
	} else {
		sig := r.Header.Get("X-Payment-Signature")
		if err := payment.VerifySignature(h.webhookSecret, sig, body, h.now()); err != nil {
			log.Printf("[%s] webhook signature rejected: %v", getRequestID(r.Context()), err)
			respondError(w, http.StatusBadRequest, "invalid_signature", "signature verification failed")
			return
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid event payload")
		return
	}

	if err := h.orders.ApplyPaymentEvent(r.Context(), event.Type, event.Data.Object.ID); err != nil {
		log.Printf("[%s] failed to apply payment event %s: %v", getRequestID(r.Context()), event.ID, err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process event")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
