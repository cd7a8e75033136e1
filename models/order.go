package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the payment/fulfillment state of an order.
type OrderStatus string

const (
	StatusPending OrderStatus = "Pending"
	StatusPaid    OrderStatus = "Paid"
	StatusShipped OrderStatus = "Shipped"
)

// ValidStatus reports whether s is one of the recognised order statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product taken at checkout. Name and price are
// copied so later catalog edits never change historical totals. ProductID is
// kept so analytics can attribute revenue by stable identifier rather than by
// name.
type OrderItem struct {
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	ProductName string             `bson:"product_name" json:"product_name"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
}

// Order is created exactly once per successful checkout and never deleted.
// Only Status may change afterwards, and only by an administrator.
type Order struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items      []OrderItem        `bson:"items" json:"items"`
	OrderTotal float64            `bson:"order_total" json:"order_total"`
	Status     OrderStatus        `bson:"status" json:"status"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
