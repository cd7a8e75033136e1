package controllers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/services"
)

// CartController handles cart requests.
type CartController struct {
	Orders *services.OrderService
}

// NewCartController creates a new CartController.
func NewCartController(orders *services.OrderService) *CartController {
	return &CartController{Orders: orders}
}

// AddToCart adds a product to the caller's cart, creating the cart lazily.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	cart, err := cc.Orders.AddToCart(r.Context(), userID, productID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

// GetCart returns the caller's cart.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cart, err := cc.Orders.GetCart(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
