package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/audit"
	"secure-shop/models"
)

// Audit action tags emitted by catalog management.
const (
	ActionProductCreate = "PRODUCT_CREATE"
	ActionProductUpdate = "PRODUCT_UPDATE"
	ActionProductDelete = "PRODUCT_DELETE"
)

// CatalogService is the product-management surface. Create, update, and
// delete are administrator capabilities; the caller is gated upstream.
type CatalogService struct {
	products ProductStore
	recorder *audit.Recorder
}

// NewCatalogService wires catalog management to its store and audit recorder.
func NewCatalogService(products ProductStore, recorder *audit.Recorder) *CatalogService {
	return &CatalogService{products: products, recorder: recorder}
}

// Create validates and inserts a new product.
func (s *CatalogService) Create(ctx context.Context, in models.Product, actor Actor) (*models.Product, error) {
	if in.Name == "" {
		return nil, &ValidationError{Msg: "product name is required"}
	}
	if in.Category == "" {
		return nil, &ValidationError{Msg: "product category is required"}
	}
	if in.Price < 0 {
		return nil, &ValidationError{Msg: "product price must not be negative"}
	}
	if in.Stock < 0 {
		return nil, &ValidationError{Msg: "product stock must not be negative"}
	}

	product := in
	product.ID = primitive.NilObjectID
	product.CreatedAt = time.Now().UTC()
	if err := s.products.Insert(ctx, &product); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, ActionProductCreate, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Added: %s", product.Name), actor.IP)
	return &product, nil
}

// Update merges the supplied fields into an existing product. Zero-valued
// fields keep their current value, so a price or stock of 0 cannot be set
// through this path.
func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, in models.Product, actor Actor) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Price != 0 {
		product.Price = in.Price
	}
	if in.Stock != 0 {
		product.Stock = in.Stock
	}
	if in.Category != "" {
		product.Category = in.Category
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, ActionProductUpdate, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Updated ID: %s", id.Hex()), actor.IP)
	return product, nil
}

// Delete removes a product from the catalog. Orders keep their snapshots;
// carts referencing the product become dangling and are dropped at checkout.
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.Record(ctx, ActionProductDelete, actor.Email, audit.StatusSuccess,
		fmt.Sprintf("Deleted ID: %s", id.Hex()), actor.IP)
	return nil
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

// Get returns one product.
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}
