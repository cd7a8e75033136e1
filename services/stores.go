package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/models"
)

// Store interfaces are declared on the consumer side so the services can be
// exercised against in-memory fakes. The Mongo implementations live in the
// store package. Absent documents are reported as models.ErrNotFound.

// ProductStore provides catalog access plus the guarded stock mutations used
// by checkout.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// DecrementStock subtracts qty from the product's stock only if the
	// resulting stock stays non-negative. It returns false without mutating
	// anything when the guard fails or the product no longer exists.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	// IncrementStock adds qty back; used to compensate a failed checkout.
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
}

// CartStore holds the per-user carts.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	// Clear replaces the cart's line items with an empty sequence.
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// OrderStore holds the append-mostly order history. Status is the only field
// ever updated after insert.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// FindAll returns the full history, newest first.
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
	Count(ctx context.Context) (int64, error)
}

// Actor identifies the caller for audit purposes.
type Actor struct {
	Email string
	IP    string
}
