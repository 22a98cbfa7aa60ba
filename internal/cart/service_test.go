package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
)

// storeMock is an in-memory Store
type storeMock struct {
	carts map[string]*domain.Cart
}

func newStoreMock() *storeMock {
	return &storeMock{carts: make(map[string]*domain.Cart)}
}

func (m *storeMock) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	c, exists := m.carts[userID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return c, nil
}

func (m *storeMock) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	c, exists := m.carts[userID]
	if !exists {
		c = &domain.Cart{UserID: userID, CreatedAt: time.Now()}
		m.carts[userID] = c
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

func (m *storeMock) UpdateItemQuantity(_ context.Context, userID, productID string, quantity int) error {
	c, exists := m.carts[userID]
	if !exists {
		return ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *storeMock) RemoveItem(_ context.Context, userID, productID string) error {
	c, exists := m.carts[userID]
	if !exists {
		return ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *storeMock) DeleteCart(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return nil
}

func newCartService() (*Service, *storeMock) {
	store := newStoreMock()
	source := &ProductSourceMock{Products: map[string]*domain.Product{
		"P1": activeProduct("P1", 100.00),
	}}
	return NewService(store, source), store
}

func TestGetCart_EmptyForNewUser(t *testing.T) {
	s, _ := newCartService()

	c, err := s.GetCart(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UserID)
	assert.Empty(t, c.Items)
}

func TestAddItem(t *testing.T) {
	s, store := newCartService()

	require.NoError(t, s.AddItem(context.Background(), "user-1", "P1", 2))

	c := store.carts["user-1"]
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	s, _ := newCartService()

	err := s.AddItem(context.Background(), "user-1", "ghost", 1)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestAddItem_UnsellableProduct(t *testing.T) {
	store := newStoreMock()
	p := activeProduct("P1", 100.00)
	p.Status = domain.ProductStatusSold
	s := NewService(store, &ProductSourceMock{Products: map[string]*domain.Product{"P1": p}})

	err := s.AddItem(context.Background(), "user-1", "P1", 1)

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestAddItem_QuantityBounds(t *testing.T) {
	s, _ := newCartService()

	for _, q := range []int{0, 100} {
		err := s.AddItem(context.Background(), "user-1", "P1", q)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, "quantity %d", q)
	}
}

func TestUpdateQuantity(t *testing.T) {
	s, store := newCartService()
	require.NoError(t, s.AddItem(context.Background(), "user-1", "P1", 2))

	require.NoError(t, s.UpdateQuantity(context.Background(), "user-1", "P1", 5))
	assert.Equal(t, 5, store.carts["user-1"].Items[0].Quantity)

	assert.ErrorIs(t, s.UpdateQuantity(context.Background(), "user-1", "ghost", 1), ErrItemNotFound)
}

func TestRemoveItemAndClear(t *testing.T) {
	s, store := newCartService()
	require.NoError(t, s.AddItem(context.Background(), "user-1", "P1", 2))

	require.NoError(t, s.RemoveItem(context.Background(), "user-1", "P1"))
	assert.Empty(t, store.carts["user-1"].Items)

	require.NoError(t, s.ClearCart(context.Background(), "user-1"))
	_, exists := store.carts["user-1"]
	assert.False(t, exists)
}
