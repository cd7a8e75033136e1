package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a reference to a product plus a quantity. Stock is not
// validated here; that happens at checkout.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is a user's shopping cart. There is at most one per user, created
// lazily on first access. A product appears in at most one line; adding it
// again increments the existing quantity.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items  []CartItem         `bson:"items" json:"items"`
}
