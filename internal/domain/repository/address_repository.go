package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for shipping address persistence.
var (
	// ErrAddressNotFound is returned when an address is not found.
	ErrAddressNotFound = errors.New("address not found")
)

// ShippingAddressRepository defines the interface for saved delivery addresses.
type ShippingAddressRepository interface {
	Create(ctx context.Context, address *entity.ShippingAddress) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ShippingAddress, error)

	// ListByCustomer returns the customer's addresses, primary first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.ShippingAddress, error)

	// FindPrimary returns the customer's primary address.
	FindPrimary(ctx context.Context, customerID uuid.UUID) (*entity.ShippingAddress, error)

	Update(ctx context.Context, address *entity.ShippingAddress) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ClearPrimary unsets the primary flag on all of the customer's addresses.
	ClearPrimary(ctx context.Context, customerID uuid.UUID) error
}
