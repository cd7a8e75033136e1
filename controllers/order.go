package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/models"
	"secure-shop/services"
	"secure-shop/utils"
)

// OrderController handles checkout and order management requests.
type OrderController struct {
	Orders *services.OrderService
	Email  *utils.EmailService
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders *services.OrderService, email *utils.EmailService) *OrderController {
	return &OrderController{Orders: orders, Email: email}
}

// Checkout converts the caller's cart into an order.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, claims, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := oc.Orders.Checkout(r.Context(), userID, req.PaymentMethod, actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Confirmation mail is best-effort and never blocks the response.
	go func(email string, order *models.Order) {
		if err := oc.Email.SendOrderConfirmation(email, order); err != nil {
			slog.Warn("order confirmation email failed", "email", email, "error", err)
		}
	}(claims.Email, order)

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListMine returns the caller's own orders.
func (oc *OrderController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	orders, err := oc.Orders.ListUserOrders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// ListAll returns every order, newest first. Admin only.
func (oc *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.Orders.ListAllOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// UpdateStatus overwrites an order's status. Admin only.
func (oc *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(r.Context(), orderID, req.Status, actorFromRequest(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
