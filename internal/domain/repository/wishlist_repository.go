package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for wishlist persistence.
var (
	// ErrWishlistItemNotFound is returned when the product is not in the wishlist.
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

// WishlistRepository defines the interface for wishlist persistence.
type WishlistRepository interface {
	// Add saves the item; adding a product already in the wishlist is a no-op.
	Add(ctx context.Context, item *entity.WishlistItem) error

	// Remove deletes the product from the customer's wishlist.
	Remove(ctx context.Context, customerID, productID uuid.UUID) error

	// ListByCustomer returns the wishlist with live products, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.WishlistItem, error)

	// DeleteByProduct removes the product from every wishlist.
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
