package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/audit"
	"secure-shop/models"
)

// AddToCart puts a product into the user's cart, creating the cart lazily on
// first access. Adding a product already in the cart increments the existing
// line instead of inserting a duplicate. Stock is not checked here; that
// happens at checkout.
func (s *OrderService) AddToCart(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Msg: "quantity must be at least 1"}
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	} else if err != nil {
		return nil, err
	}

	merged := false
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *OrderService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateOrderStatus overwrites an order's status. Administrator capability;
// the caller is gated upstream. The status must be a recognised value but no
// forward-only transition check is applied.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID primitive.ObjectID, status models.OrderStatus, actor Actor) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid order status %q", status)}
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.recorder.Record(ctx, ActionOrderUpdate, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Order %s: %s -> %s", orderID.Hex(), oldStatus, status), actor.IP)
	return order, nil
}

// ListUserOrders returns the caller's own order history.
func (s *OrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}

// ListAllOrders returns every order, newest first. Administrator capability.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.FindAll(ctx)
}
