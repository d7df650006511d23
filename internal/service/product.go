package service

import (
	"context"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
)

// ProductStore is the data-access contract of the product service.
type ProductStore interface {
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.ProductView, error)
	GetProduct(ctx context.Context, id int64) (*models.ProductView, error)
}

// ProductService serves the buyer-facing product listing.
type ProductService struct {
	store ProductStore
}

// NewProductService creates a new product service.
func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store}
}

// List returns products matching the filter.
func (s *ProductService) List(ctx context.Context, filter store.ProductFilter) ([]models.ProductView, error) {
	return s.store.ListProducts(ctx, filter)
}

// Get returns a single product with its offers.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.ProductView, error) {
	return s.store.GetProduct(ctx, id)
}
