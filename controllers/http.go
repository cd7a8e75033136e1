package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/middleware"
	"secure-shop/services"
	"secure-shop/utils"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Business-rule failures carry a specific message; unexpected failures stay
// opaque to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Msg, http.StatusBadRequest)
	case errors.As(err, &stockErr):
		http.Error(w, stockErr.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrEmptyCart):
		http.Error(w, "Cart is empty", http.StatusBadRequest)
	case errors.Is(err, services.ErrOrderNotFound):
		http.Error(w, "Order not found", http.StatusNotFound)
	case errors.Is(err, services.ErrProductNotFound):
		http.Error(w, "Product not found", http.StatusNotFound)
	case errors.Is(err, services.ErrCheckoutFailed):
		http.Error(w, "Checkout Failed", http.StatusInternalServerError)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
	}
}

// clientIP extracts the caller address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// actorFromRequest identifies the caller for audit purposes. Unauthenticated
// callers are recorded with an empty email, which the recorder maps to
// "unknown".
func actorFromRequest(r *http.Request) services.Actor {
	actor := services.Actor{IP: clientIP(r)}
	if claims, ok := middleware.ClaimsFromRequest(r); ok {
		actor.Email = claims.Email
	}
	return actor
}

// callerID returns the authenticated caller's user id.
func callerID(r *http.Request) (primitive.ObjectID, *utils.Claims, bool) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		return primitive.NilObjectID, nil, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, nil, false
	}
	return id, claims, true
}
