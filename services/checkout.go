package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/audit"
	"secure-shop/models"
)

// Audit action tags emitted by the order engine.
const (
	ActionOrderPlaced   = "ORDER_PLACED"
	ActionOrderRejected = "ORDER_REJECTED"
	ActionOrderError    = "ORDER_ERROR"
	ActionOrderUpdate   = "ORDER_UPDATE"
)

// PaymentMethodCOD marks cash-on-delivery orders, which start as Pending.
// Any other method is assumed already authorized via the payment simulation
// and the order starts as Paid.
const PaymentMethodCOD = "COD"

// OrderService is the order engine: it turns carts into committed orders,
// reconciles inventory, and emits audit entries for every outcome.
type OrderService struct {
	products ProductStore
	carts    CartStore
	orders   OrderStore
	recorder *audit.Recorder
}

// NewOrderService wires the order engine to its stores and audit recorder.
func NewOrderService(products ProductStore, carts CartStore, orders OrderStore, recorder *audit.Recorder) *OrderService {
	return &OrderService{
		products: products,
		carts:    carts,
		orders:   orders,
		recorder: recorder,
	}
}

// cartLine is the result of resolving one cart item against the live catalog.
// Dangling lines reference a product that no longer exists; checkout drops
// them rather than aborting, which callers rely on.
type cartLine struct {
	item     models.CartItem
	product  *models.Product
	dangling bool
}

// resolveCart resolves every cart item against current catalog entries,
// tagging each line instead of silently skipping.
func (s *OrderService) resolveCart(ctx context.Context, cart *models.Cart) ([]cartLine, error) {
	lines := make([]cartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if errors.Is(err, models.ErrNotFound) {
			lines = append(lines, cartLine{item: item, dangling: true})
			continue
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, cartLine{item: item, product: product})
	}
	return lines, nil
}

// Checkout converts the user's cart into a persisted order.
//
// Stock is deducted line by line through a conditional decrement, so two
// concurrent checkouts against the same product settle as one winner and one
// insufficient-stock failure instead of driving stock negative. If any line
// fails, or the order cannot be persisted, every decrement already applied is
// compensated before returning, leaving stock at its pre-checkout value.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, paymentMethod string, actor Actor) (*models.Order, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		s.recorder.Record(ctx, ActionOrderRejected, actor.Email, audit.StatusFailure, "cart is empty", actor.IP)
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, s.checkoutError(ctx, actor, err)
	}

	lines, err := s.resolveCart(ctx, cart)
	if err != nil {
		return nil, s.checkoutError(ctx, actor, err)
	}

	var resolved []cartLine
	for _, line := range lines {
		if !line.dangling {
			resolved = append(resolved, line)
		}
	}
	if len(resolved) == 0 {
		s.recorder.Record(ctx, ActionOrderRejected, actor.Email, audit.StatusFailure, "cart is empty", actor.IP)
		return nil, ErrEmptyCart
	}

	var (
		total    float64
		items    []models.OrderItem
		deducted []models.OrderItem
	)
	for _, line := range resolved {
		ok, err := s.products.DecrementStock(ctx, line.product.ID, line.item.Quantity)
		if err != nil {
			s.compensate(ctx, deducted)
			return nil, s.checkoutError(ctx, actor, err)
		}
		if !ok {
			s.compensate(ctx, deducted)
			s.recorder.Record(ctx, ActionOrderRejected, actor.Email, audit.StatusFailure,
				fmt.Sprintf("insufficient stock for %s", line.product.Name), actor.IP)
			return nil, &InsufficientStockError{ProductName: line.product.Name}
		}

		snapshot := models.OrderItem{
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			Price:       line.product.Price,
			Quantity:    line.item.Quantity,
		}
		items = append(items, snapshot)
		deducted = append(deducted, snapshot)
		total += line.product.Price * float64(line.item.Quantity)
	}

	status := models.StatusPaid
	if paymentMethod == PaymentMethodCOD {
		status = models.StatusPending
	}

	order := &models.Order{
		UserID:     userID,
		Items:      items,
		OrderTotal: total,
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		s.compensate(ctx, deducted)
		return nil, s.checkoutError(ctx, actor, err)
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		// The order exists and stock is committed; only the cart is stale.
		return nil, s.checkoutError(ctx, actor, err)
	}

	s.recorder.Record(ctx, ActionOrderPlaced, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Order ID: %s (%s)", order.ID.Hex(), paymentMethod), actor.IP)
	return order, nil
}

// compensate undoes stock decrements applied before a checkout failure.
func (s *OrderService) compensate(ctx context.Context, deducted []models.OrderItem) {
	for _, item := range deducted {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			slog.Error("stock compensation failed", "product_id", item.ProductID.Hex(), "quantity", item.Quantity, "error", err)
		}
	}
}

// checkoutError records the real cause in the audit trail and returns the
// opaque failure handed to callers.
func (s *OrderService) checkoutError(ctx context.Context, actor Actor, cause error) error {
	s.recorder.Record(ctx, ActionOrderError, actor.Email, audit.StatusFailure, cause.Error(), actor.IP)
	return ErrCheckoutFailed
}
