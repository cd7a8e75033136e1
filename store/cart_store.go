package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"secure-shop/models"
)

// CartStore persists carts in the "carts" collection, one per user.
type CartStore struct {
	col *mongo.Collection
}

// NewCartStore creates a CartStore over db.
func NewCartStore(db *mongo.Database) *CartStore {
	return &CartStore{col: db.Collection("carts")}
}

func (s *CartStore) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *models.Cart) error {
	if cart.ID.IsZero() {
		result, err := s.col.InsertOne(ctx, cart)
		if err != nil {
			return err
		}
		cart.ID = result.InsertedID.(primitive.ObjectID)
		return nil
	}

	_, err := s.col.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{"items": cart.Items}})
	return err
}

// Clear replaces the cart's items with an empty sequence. The cart document
// itself survives so a later add reuses it.
func (s *CartStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{"items": []models.CartItem{}}})
	return err
}
