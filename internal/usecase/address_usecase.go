package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// AddressInput defines a shipping address.
type AddressInput struct {
	RecipientName string
	Street        string
	City          string
	Region        string
	PostalCode    string
	Phone         string
	IsPrimary     bool
}

// AddressUsecase defines management of saved shipping addresses.
type AddressUsecase interface {
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]*entity.ShippingAddress, error)
	CreateAddress(ctx context.Context, customerID uuid.UUID, input *AddressInput) (*entity.ShippingAddress, error)
	UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input *AddressInput) (*entity.ShippingAddress, error)
	DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error
	SetPrimaryAddress(ctx context.Context, customerID, addressID uuid.UUID) (*entity.ShippingAddress, error)
}
