package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"secure-shop/audit"
	"secure-shop/controllers"
	"secure-shop/routes"
	"secure-shop/services"
	"secure-shop/store"
	"secure-shop/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, proceeding with environment variables")
	}
	utils.SetupLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		utils.JwtKey = []byte(secret)
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	client, err := store.Connect(context.Background(), mongoURI)
	if err != nil {
		slog.Error("mongodb connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("mongodb disconnect failed", "error", err)
		}
	}()

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "secure_shop"
	}
	db := client.Database(dbName)

	// Stores and the injected audit sink
	productStore := store.NewProductStore(db)
	cartStore := store.NewCartStore(db)
	orderStore := store.NewOrderStore(db)
	userStore := store.NewUserStore(db)
	recorder := audit.NewRecorder(store.NewAuditStore(db))

	// Services
	orderService := services.NewOrderService(productStore, cartStore, orderStore, recorder)
	catalogService := services.NewCatalogService(productStore, recorder)
	analyticsService := services.NewAnalyticsService(productStore, orderStore)

	emailService := utils.NewEmailService()
	if emailService == nil {
		slog.Info("POSTMARK_API_TOKEN not set, order confirmation emails disabled")
	}

	// Controllers
	userController := controllers.NewUserController(userStore, recorder, utils.GenerateJWT)
	productController := controllers.NewProductController(catalogService)
	cartController := controllers.NewCartController(orderService)
	orderController := controllers.NewOrderController(orderService, emailService)
	paymentController := controllers.NewPaymentController(recorder)
	analyticsController := controllers.NewAnalyticsController(analyticsService)

	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController, paymentController, analyticsController)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	slog.Info("server listening", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
