package http

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

// productSourceStub serves catalog lookups for handler tests
type productSourceStub struct {
	products map[string]*domain.Product
}

func (s *productSourceStub) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, exists := s.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

// orderRepoStub is an in-memory repository.OrderRepository
type orderRepoStub struct {
	mu       sync.Mutex
	byIntent map[string]*domain.Order
	byID     map[uuid.UUID]*domain.Order
}

func newOrderRepoStub() *orderRepoStub {
	return &orderRepoStub{
		byIntent: make(map[string]*domain.Order),
		byID:     make(map[uuid.UUID]*domain.Order),
	}
}

func (s *orderRepoStub) CreateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byIntent[o.PaymentIntentID]; exists {
		return repository.ErrDuplicateIntent
	}
	s.byIntent[o.PaymentIntentID] = o
	s.byID[o.ID] = o
	return nil
}

func (s *orderRepoStub) GetOrderByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.byID[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (s *orderRepoStub) GetOrderByPaymentIntentID(_ context.Context, intentID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.byIntent[intentID]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (s *orderRepoStub) ListOrdersByUserID(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, o := range s.byID {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *orderRepoStub) ListOrders(_ context.Context, _, _ int) ([]*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Order
	for _, o := range s.byID {
		out = append(out, o)
	}
	return out, nil
}

func (s *orderRepoStub) UpdateOrder(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[o.ID]; !exists {
		return repository.ErrOrderNotFound
	}
	s.byID[o.ID] = o
	s.byIntent[o.PaymentIntentID] = o
	return nil
}

func (s *orderRepoStub) UpdatePaymentStatus(_ context.Context, intentID string, status domain.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.byIntent[intentID]
	if !exists {
		return repository.ErrOrderNotFound
	}
	o.PaymentStatus = status
	return nil
}

// paymentClientStub implements payment.Client
type paymentClientStub struct {
	intents map[string]*payment.Intent
}

func (s *paymentClientStub) CreateIntent(_ context.Context, params payment.CreateIntentParams) (*payment.Intent, error) {
	return &payment.Intent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       "requires_payment_method",
		Amount:       params.Amount,
		Currency:     params.Currency,
		Metadata:     params.Metadata,
	}, nil
}

func (s *paymentClientStub) GetIntent(_ context.Context, id string) (*payment.Intent, error) {
	intent, exists := s.intents[id]
	if !exists {
		return nil, payment.ErrIntentNotFound
	}
	return intent, nil
}

// notifierStub implements order.Notifier
type notifierStub struct {
	mu        sync.Mutex
	confirmed []*domain.Order
	changed   []*domain.Order
}

func (s *notifierStub) OrderConfirmed(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, o)
}

func (s *notifierStub) OrderStatusChanged(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changed = append(s.changed, o)
}
