package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotInWishlist = errors.New("product not in wishlist")

type Entry struct {
	ProductID string    `bson:"product_id" json:"product_id"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

type Wishlist struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Entries   []Entry   `bson:"entries" json:"entries"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

type Store interface {
	Get(ctx context.Context, userID string) (*Wishlist, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type mongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{collection: db.Collection("wishlists")}
}

// EnsureIndexes creates the unique user_id index the Add upsert depends on:
// without it a concurrent or repeated add inserts a second wishlist document
// for the same user instead of failing over to the duplicate-key branch.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("wishlists").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create wishlist indexes: %w", err)
	}
	return nil
}

func (m *mongoStore) Get(ctx context.Context, userID string) (*Wishlist, error) {
	var w Wishlist

	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&w)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &Wishlist{UserID: userID, Entries: []Entry{}}, nil
		}
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}

	return &w, nil
}

func (m *mongoStore) Add(ctx context.Context, userID, productID string) error {
	now := time.Now()
	filter := bson.M{"user_id": userID, "entries.product_id": bson.M{"$ne": productID}}
	update := bson.M{
		"$push": bson.M{"entries": Entry{ProductID: productID, AddedAt: now}},
		"$set":  bson.M{"updated_at": now},
	}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		// the upsert races with an existing document when the entry is already
		// present; treat the duplicate-key outcome as already-added
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

func (m *mongoStore) Remove(ctx context.Context, userID, productID string) error {
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$pull": bson.M{"entries": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	res, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	if res.MatchedCount == 0 || res.ModifiedCount == 0 {
		return ErrNotInWishlist
	}
	return nil
}
