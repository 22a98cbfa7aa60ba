package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
)

type mongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{collection: db.Collection("carts")}
}

// EnsureIndexes guarantees one cart document per user.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}
	return nil
}

func (m *mongoStore) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"user_id": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoStore) AddItem(ctx context.Context, userID string, item domain.CartItem) error {
	now := time.Now()
	item.AddedAt = now

	filter := bson.M{"user_id": userID}

	var existing domain.Cart
	err := m.collection.FindOne(ctx, filter).Decode(&existing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			cart := &domain.Cart{
				UserID:    userID,
				Items:     []domain.CartItem{item},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, e2 := m.collection.InsertOne(ctx, cart); e2 != nil {
				return fmt.Errorf("failed to create cart: %w", e2)
			}
			return nil
		}
		return fmt.Errorf("failed to get cart: %w", err)
	}

	// merge quantities if the product is already in the cart
	merged := false
	for i, it := range existing.Items {
		if it.ProductID == item.ProductID {
			total := it.Quantity + item.Quantity
			if total > domain.MaxQuantity {
				return &ValidationError{
					ProductID: item.ProductID,
					Reason: fmt.Sprintf("cart cannot hold more than %d of one product",
						domain.MaxQuantity),
				}
			}
			existing.Items[i].Quantity = total
			merged = true
			break
		}
	}
	if !merged {
		existing.Items = append(existing.Items, item)
	}

	update := bson.M{"$set": bson.M{"items": existing.Items, "updated_at": now}}
	if _, e2 := m.collection.UpdateOne(ctx, filter, update); e2 != nil {
		return fmt.Errorf("failed to update cart: %w", e2)
	}
	return nil
}

func (m *mongoStore) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	filter := bson.M{"user_id": userID, "items.product_id": productID}
	update := bson.M{"$set": bson.M{
		"items.$.quantity": quantity,
		"updated_at":       time.Now(),
	}}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update item quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoStore) RemoveItem(ctx context.Context, userID, productID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCartNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (m *mongoStore) DeleteCart(ctx context.Context, userID string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
