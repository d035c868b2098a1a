package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartLineNotFound is returned when a cart line is not found.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrDuplicateCartLine is returned when a second line for the same (customer, product) is inserted.
	ErrDuplicateCartLine = errors.New("cart line already exists")
)

// CartRepository defines the interface for cart line persistence.
// At most one line exists per (customer, product) pair.
type CartRepository interface {
	// ListByCustomer returns the customer's lines with their products, oldest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CartLine, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.CartLine, error)
	FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*entity.CartLine, error)

	Create(ctx context.Context, line *entity.CartLine) error

	// UpdateQuantity saves quantity and the cached total price.
	UpdateQuantity(ctx context.Context, line *entity.CartLine) error

	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByCustomer empties the customer's cart and returns the removed line count.
	DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// DeleteByProduct removes the product from every cart.
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
