package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_ForwardProgression(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusProcessing))
	assert.True(t, CanTransitionTo(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransitionTo(OrderStatusShipped, OrderStatusDelivered))

	// admin may skip ahead, but never move backwards
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusShipped))
	assert.False(t, CanTransitionTo(OrderStatusShipped, OrderStatusProcessing))
	assert.False(t, CanTransitionTo(OrderStatusDelivered, OrderStatusPending))
}

func TestCanTransitionTo_SameStatus(t *testing.T) {
	assert.False(t, CanTransitionTo(OrderStatusPending, OrderStatusPending))
	assert.False(t, CanTransitionTo(OrderStatusShipped, OrderStatusShipped))
}

func TestCanTransitionTo_Cancelled(t *testing.T) {
	assert.True(t, CanTransitionTo(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransitionTo(OrderStatusProcessing, OrderStatusCancelled))
	assert.True(t, CanTransitionTo(OrderStatusShipped, OrderStatusCancelled))

	// terminal states have no way out
	assert.False(t, CanTransitionTo(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransitionTo(OrderStatusCancelled, OrderStatusCancelled))
	assert.False(t, CanTransitionTo(OrderStatusCancelled, OrderStatusProcessing))
}

func TestCanTransitionTo_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransitionTo(OrderStatus("unknown"), OrderStatusShipped))
	assert.False(t, CanTransitionTo(OrderStatusPending, OrderStatus("unknown")))
}

func TestProductStatus_Sellable(t *testing.T) {
	assert.True(t, ProductStatusActive.Sellable())
	assert.False(t, ProductStatusDraft.Sellable())
	assert.False(t, ProductStatusSold.Sellable())
	assert.False(t, ProductStatusArchived.Sellable())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 16.0, Round2(200*TaxRate))
	assert.Equal(t, 0.1, Round2(0.1))
	assert.Equal(t, 1.01, Round2(1.005000001))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(21600), MinorUnits(216.00))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
}
