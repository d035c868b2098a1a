package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// addressService implements the AddressUsecase interface.
type addressService struct {
	txManager   repository.TransactionManager
	addressRepo repository.ShippingAddressRepository
	logger      *slog.Logger
}

// AddressServiceParams holds dependencies for AddressService, injected by Fx.
type AddressServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AddressRepo repository.ShippingAddressRepository
	Logger      *slog.Logger
}

// NewAddressService is the constructor for addressService.
func NewAddressService(params AddressServiceParams) usecase.AddressUsecase {
	return &addressService{
		txManager:   params.TxManager,
		addressRepo: params.AddressRepo,
		logger:      params.Logger,
	}
}

func (srv *addressService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *addressService) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]*entity.ShippingAddress, error) {
	addresses, err := srv.addressRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// CreateAddress saves a new address. The first address of a customer becomes primary.
func (srv *addressService) CreateAddress(ctx context.Context, customerID uuid.UUID, input *usecase.AddressInput) (*entity.ShippingAddress, error) {
	address := &entity.ShippingAddress{CustomerID: customerID}
	applyAddressInput(address, input)
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewShippingAddressRepository()

		existing, err := addressRepo.ListByCustomer(ctx, customerID)
		if err != nil {
			return errors.Wrap(err, "failed to list addresses")
		}
		if len(existing) == 0 {
			address.IsPrimary = true
		}

		if address.IsPrimary {
			if err := addressRepo.ClearPrimary(ctx, customerID); err != nil {
				return errors.Wrap(err, "failed to clear primary address")
			}
		}

		return errors.Wrap(addressRepo.Create(ctx, address), "failed to create address")
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to save address")
	}

	srv.log(ctx).Debug("Address created", slog.Any("customerID", customerID), slog.Any("addressID", address.ID))

	return address, nil
}

func (srv *addressService) UpdateAddress(ctx context.Context, customerID, addressID uuid.UUID, input *usecase.AddressInput) (*entity.ShippingAddress, error) {
	var address *entity.ShippingAddress
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewShippingAddressRepository()

		current, err := loadOwnedAddress(ctx, addressRepo, customerID, addressID)
		if err != nil {
			return err
		}

		wasPrimary := current.IsPrimary
		applyAddressInput(current, input)
		// Demoting the primary address is done by promoting another one.
		current.IsPrimary = current.IsPrimary || wasPrimary
		if err := validateAddress(current); err != nil {
			return err
		}

		if current.IsPrimary && !wasPrimary {
			if err := addressRepo.ClearPrimary(ctx, customerID); err != nil {
				return errors.Wrap(err, "failed to clear primary address")
			}
		}

		if err := addressRepo.Update(ctx, current); err != nil {
			return mapAddressError(err)
		}
		address = current

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update address")
	}

	return address, nil
}

// DeleteAddress removes the address. When it was primary, the oldest remaining address takes over.
func (srv *addressService) DeleteAddress(ctx context.Context, customerID, addressID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewShippingAddressRepository()

		address, err := loadOwnedAddress(ctx, addressRepo, customerID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.Delete(ctx, addressID); err != nil {
			return mapAddressError(err)
		}
		if !address.IsPrimary {
			return nil
		}

		remaining, err := addressRepo.ListByCustomer(ctx, customerID)
		if err != nil {
			return errors.Wrap(err, "failed to list addresses")
		}
		if len(remaining) == 0 {
			return nil
		}

		next := remaining[0]
		next.IsPrimary = true

		return mapAddressError(addressRepo.Update(ctx, next))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete address")
	}

	return nil
}

func (srv *addressService) SetPrimaryAddress(ctx context.Context, customerID, addressID uuid.UUID) (*entity.ShippingAddress, error) {
	var address *entity.ShippingAddress
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.NewShippingAddressRepository()

		current, err := loadOwnedAddress(ctx, addressRepo, customerID, addressID)
		if err != nil {
			return err
		}

		if err := addressRepo.ClearPrimary(ctx, customerID); err != nil {
			return errors.Wrap(err, "failed to clear primary address")
		}

		current.IsPrimary = true
		if err := addressRepo.Update(ctx, current); err != nil {
			return mapAddressError(err)
		}
		address = current

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set primary address")
	}

	return address, nil
}

func loadOwnedAddress(ctx context.Context, addressRepo repository.ShippingAddressRepository, customerID, addressID uuid.UUID) (*entity.ShippingAddress, error) {
	address, err := addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, mapAddressError(err)
	}
	if address.CustomerID != customerID {
		return nil, domainerrors.ErrAddressOwnership.WrapMessage("address belongs to another customer")
	}

	return address, nil
}

func applyAddressInput(address *entity.ShippingAddress, input *usecase.AddressInput) {
	address.RecipientName = strings.TrimSpace(input.RecipientName)
	address.Street = strings.TrimSpace(input.Street)
	address.City = strings.TrimSpace(input.City)
	address.Region = strings.TrimSpace(input.Region)
	address.PostalCode = strings.TrimSpace(input.PostalCode)
	address.Phone = strings.TrimSpace(input.Phone)
	address.IsPrimary = input.IsPrimary
}

func validateAddress(address *entity.ShippingAddress) error {
	if address.RecipientName == "" || address.Street == "" || address.City == "" {
		return domainerrors.ErrValidationFailed.WithDetails("recipient name, street and city are required")
	}

	return nil
}

func mapAddressError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrAddressNotFound):
		return domainerrors.ErrAddressNotFound.WrapMessage("address not found")
	default:
		return errors.Wrap(err, "address operation failed")
	}
}
