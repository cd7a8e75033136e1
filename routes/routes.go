package routes

import (
	"github.com/gorilla/mux"

	"secure-shop/controllers"
	"secure-shop/middleware"
)

// RegisterRoutes sets up all the routes for the application.
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
	analyticsController *controllers.AnalyticsController,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Authenticated routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	protected.HandleFunc("/pay", paymentController.Pay).Methods("POST")
	protected.HandleFunc("/orders", orderController.ListMine).Methods("GET")

	// Admin catalog management
	adminProducts := router.PathPrefix("/products").Subrouter()
	adminProducts.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	adminProducts.HandleFunc("", productController.CreateProduct).Methods("POST")
	adminProducts.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	adminProducts.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Admin order management and analytics
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	admin.HandleFunc("/orders", orderController.ListAll).Methods("GET")
	admin.HandleFunc("/orders/{id}/status", orderController.UpdateStatus).Methods("PUT")

	analytics := router.PathPrefix("/analytics").Subrouter()
	analytics.Use(middleware.AuthMiddleware, middleware.AdminMiddleware)
	analytics.HandleFunc("", analyticsController.GetSummary).Methods("GET")
}
