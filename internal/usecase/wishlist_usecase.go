package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// WishlistUsecase defines the saved-for-later list of a customer.
type WishlistUsecase interface {
	ListWishlist(ctx context.Context, customerID uuid.UUID) ([]*entity.WishlistItem, error)
	// AddToWishlist is idempotent.
	AddToWishlist(ctx context.Context, customerID, productID uuid.UUID) error
	RemoveFromWishlist(ctx context.Context, customerID, productID uuid.UUID) error
	// MoveToCart adds one unit of the product to the cart and drops it from the wishlist.
	MoveToCart(ctx context.Context, customerID, productID uuid.UUID) (*entity.CartLine, error)
}
