package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddCartItemInput defines a product to put in the cart.
type AddCartItemInput struct {
	ProductID uuid.UUID
	Quantity  int // defaults to 1
}

// CartUsecase defines the cart mutations available to a customer.
type CartUsecase interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error)
	// AddItem increments the existing line for the product or inserts a new one.
	AddItem(ctx context.Context, customerID uuid.UUID, input *AddCartItemInput) (*entity.CartLine, error)
	IncrementItem(ctx context.Context, customerID, lineID uuid.UUID) (*entity.CartLine, error)
	// DecrementItem lowers the quantity by one. A line at quantity one is
	// deleted and the returned line is nil.
	DecrementItem(ctx context.Context, customerID, lineID uuid.UUID) (*entity.CartLine, error)
	RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) error
}
