package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

var (
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	ErrAmountMismatch      = errors.New("paid amount does not match cart snapshot")
	ErrInvalidTransition   = errors.New("illegal order status transition")
)

// Notifier receives order events. Implementations must not block and must not
// return errors into the request path.
type Notifier interface {
	OrderConfirmed(order *domain.Order)
	OrderStatusChanged(order *domain.Order)
}

type StatusUpdate struct {
	Status           domain.OrderStatus
	Carrier          string
	TrackingNumber   string
	ShippingLabelURL string
}

type Service struct {
	repo     repository.OrderRepository
	payments payment.Client
	notifier Notifier
	currency string
}

func NewService(repo repository.OrderRepository, payments payment.Client, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		payments: payments,
		notifier: notifier,
		currency: "usd",
	}
}

// CreateFromIntent materializes an order from a completed payment intent. The
// intent is re-fetched from the provider as the source of truth; a client
// claiming success is never believed. Replays of the same intent id return the
// existing order. The returned bool reports whether an order was created.
func (s *Service) CreateFromIntent(ctx context.Context, intentID, userID string) (*domain.Order, bool, error) {
	intent, err := s.payments.GetIntent(ctx, intentID)
	if err != nil {
		return nil, false, fmt.Errorf("fetch payment intent: %w", err)
	}
	if intent.Status != payment.IntentStatusSucceeded {
		return nil, false, fmt.Errorf("%w: intent status is %q", ErrPaymentNotSucceeded, intent.Status)
	}

	// replay guard: confirmation pages get reloaded
	existing, err := s.repo.GetOrderByPaymentIntentID(ctx, intentID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrOrderNotFound) {
		return nil, false, fmt.Errorf("check existing order: %w", err)
	}

	snapshot, err := domain.SnapshotFromMetadata(intent.Metadata)
	if err != nil {
		return nil, false, fmt.Errorf("decode intent metadata: %w", err)
	}
	if domain.MinorUnits(snapshot.Total) != intent.Amount {
		return nil, false, fmt.Errorf("%w: snapshot %.2f, paid %d", ErrAmountMismatch, snapshot.Total, intent.Amount)
	}

	now := time.Now()
	order := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     generateOrderNumber(now),
		UserID:          userID, // empty for guest checkout
		PaymentIntentID: intent.ID,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPaid,
		Subtotal:        snapshot.Subtotal,
		Tax:             snapshot.Tax,
		Shipping:        snapshot.Shipping,
		Total:           snapshot.Total,
		Currency:        s.currency,
		Items:           snapshot.Items,
		ShippingAddress: snapshot.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicateIntent) {
			// lost the race against a concurrent request for the same intent;
			// the unique index picked the winner, return it
			winner, e2 := s.repo.GetOrderByPaymentIntentID(ctx, intentID)
			if e2 != nil {
				return nil, false, fmt.Errorf("fetch winning order: %w", e2)
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create order: %w", err)
	}

	s.notifier.OrderConfirmed(order)
	return order, true, nil
}

// UpdateStatus applies an admin-issued transition. Tracking fields may be
// attached with or without a status change; only a status change triggers a
// notification.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) (*domain.Order, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	statusChanged := update.Status != "" && update.Status != order.Status
	if statusChanged {
		if !domain.CanTransitionTo(order.Status, update.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, update.Status)
		}
		order.Status = update.Status
	}
	if update.Carrier != "" {
		order.Carrier = update.Carrier
	}
	if update.TrackingNumber != "" {
		order.TrackingNumber = update.TrackingNumber
	}
	if update.ShippingLabelURL != "" {
		order.ShippingLabelURL = update.ShippingLabelURL
	}
	order.UpdatedAt = time.Now()

	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}

	if statusChanged {
		s.notifier.OrderStatusChanged(order)
	}
	return order, nil
}

// ApplyPaymentEvent is the webhook-driven confirmation path, independent of
// the client-driven CreateFromIntent flow.
func (s *Service) ApplyPaymentEvent(ctx context.Context, eventType, intentID string) error {
	var status domain.PaymentStatus
	switch eventType {
	case payment.EventIntentSucceeded:
		status = domain.PaymentStatusPaid
	case payment.EventIntentFailed:
		status = domain.PaymentStatusFailed
	default:
		return nil // unknown events are acknowledged and ignored
	}

	err := s.repo.UpdatePaymentStatus(ctx, intentID, status)
	if errors.Is(err, repository.ErrOrderNotFound) {
		// the webhook can outrun the client-driven materialization; nothing to
		// update yet
		log.Printf("payment event %s for unknown intent %s", eventType, intentID)
		return nil
	}
	return err
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *Service) ListOrdersForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx, limit, offset)
}

// Order numbers are human-meaningful and unique by construction:
// timestamp in milliseconds plus a random suffix.
func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("KI-%d-%04X", now.UnixMilli(), rand.Intn(0x10000))
}
