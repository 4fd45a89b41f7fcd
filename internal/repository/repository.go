package repository

import (
	"context"
	"time"

	"clothing-store/internal/model"
)

// Repositories return (nil, nil) when a single entity is not found, including
// when the id is not well formed for the backing store.

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves all products, newest first.
	List(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves the products that exist among ids. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts p and assigns its ID.
	Create(ctx context.Context, p *model.Product) error

	// Update applies the non-nil fields of update and returns the stored product.
	Update(ctx context.Context, id string, update *model.ProductUpdate, updatedAt time.Time) (*model.Product, error)

	// Delete removes a product and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// Create inserts an order with its embedded items and assigns its ID.
	Create(ctx context.Context, order *model.Order) error

	// List retrieves all orders, newest first.
	List(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// UpdateStatus sets the status and modification time and returns the stored order.
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, updatedAt time.Time) (*model.Order, error)
}

// UserRepository defines the interface for admin account data access.
type UserRepository interface {
	// GetByEmail looks up a user by normalised email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// Create inserts u and assigns its ID. Returns model.ErrUserExists on a duplicate email.
	Create(ctx context.Context, u *model.User) error
}
