package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"secure-shop/models"
)

// ProductStore persists products in the "products" collection.
type ProductStore struct {
	col *mongo.Collection
}

// NewProductStore creates a ProductStore over db.
func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{col: db.Collection("products")}
}

func (s *ProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) Count(ctx context.Context) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{})
}

func (s *ProductStore) Insert(ctx context.Context, p *models.Product) error {
	result, err := s.col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category":    p.Category,
	}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DecrementStock applies a conditional decrement: the filter only matches
// when the remaining stock covers qty, so concurrent checkouts can never
// drive stock negative. A false return means the guard failed (or the
// product is gone) and nothing was mutated.
func (s *ProductStore) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error) {
	filter := bson.M{"_id": id, "stock": bson.M{"$gte": qty}}
	result, err := s.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": -qty}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (s *ProductStore) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"stock": qty}})
	return err
}
