package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	mdb "github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/mongodb"
)

func setupMongoStore(t *testing.T) (Store, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := mdb.Connect(ctx, uri, "testdb")
	require.NoError(t, err)

	require.NoError(t, EnsureIndexes(ctx, db))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewMongoStore(db), cleanup
}

func TestMongoStore_GetCart_NotFound(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	cart, err := store.GetCart(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestMongoStore_AddItem_NewCart(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	ctx := context.Background()
	err := store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 3})
	require.NoError(t, err)

	cart, err := store.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "P1", cart.Items[0].ProductID)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestMongoStore_AddItem_MergesQuantities(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 3}))
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 2}))

	cart, err := store.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestMongoStore_AddItem_MergeOverflowRejected(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 98}))

	err := store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 2})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "P1", vErr.ProductID)

	// the cart is left untouched, not silently capped
	cart, err := store.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 98, cart.Items[0].Quantity)
}

func TestMongoStore_UpdateItemQuantity(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 1}))

	require.NoError(t, store.UpdateItemQuantity(ctx, "user-1", "P1", 7))

	cart, err := store.GetCart(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	assert.ErrorIs(t, store.UpdateItemQuantity(ctx, "user-1", "ghost", 1), ErrItemNotFound)
}

func TestMongoStore_RemoveItemAndDeleteCart(t *testing.T) {
	store, cleanup := setupMongoStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P1", Quantity: 1}))
	require.NoError(t, store.AddItem(ctx, "user-1", domain.CartItem{ProductID: "P2", Quantity: 1}))

	require.NoError(t, store.RemoveItem(ctx, "user-1", "P1"))
	cart, err := store.GetCart(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "P2", cart.Items[0].ProductID)

	assert.ErrorIs(t, store.RemoveItem(ctx, "user-1", "ghost"), ErrItemNotFound)
	assert.ErrorIs(t, store.RemoveItem(ctx, "nobody", "P2"), ErrCartNotFound)

	require.NoError(t, store.DeleteCart(ctx, "user-1"))
	_, err = store.GetCart(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCartNotFound)
}
