package service

import (
	"context"

	"clothing-store/internal/model"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ProductService defines operations for product management.
// All errors returned are *model.DomainError.
type ProductService interface {
	// List retrieves all products, newest first.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates input, encodes images and stores a new product.
	Create(ctx context.Context, input *model.ProductInput, images []model.ImageUpload) (*model.Product, error)

	// Update applies a partial update, merging new images with the kept ones.
	Update(ctx context.Context, id string, update *model.ProductUpdate, images []model.ImageUpload) (*model.Product, error)

	// Delete removes a product. Orders referencing it are left untouched.
	Delete(ctx context.Context, id string) error
}

// OrderService defines operations for order management.
// All errors returned are *model.DomainError.
type OrderService interface {
	// CreateOrder validates a checkout and stores a pending order.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// List retrieves all orders, newest first, with products expanded.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order with products expanded.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// UpdateStatus moves an order to status and returns it with products expanded.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}
