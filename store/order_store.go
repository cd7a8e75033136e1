package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"secure-shop/models"
)

// OrderStore persists orders in the "orders" collection. Orders are
// append-mostly: status is the only field ever updated after insert.
type OrderStore struct {
	col *mongo.Collection
}

// NewOrderStore creates an OrderStore over db.
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{col: db.Collection("orders")}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) error {
	result, err := s.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// FindAll returns the complete order history, newest first.
func (s *OrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *OrderStore) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *OrderStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}
