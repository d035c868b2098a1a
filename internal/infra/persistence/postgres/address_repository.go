package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// shippingAddressRepository implements the domain.ShippingAddressRepository interface.
type shippingAddressRepository struct {
	db *gorm.DB
}

// NewShippingAddressRepository is the constructor for shippingAddressRepository.
func NewShippingAddressRepository(db *gorm.DB) repository.ShippingAddressRepository {
	return &shippingAddressRepository{db: db}
}

func (repo *shippingAddressRepository) Create(ctx context.Context, address *entity.ShippingAddress) error {
	addressM := fromShippingAddressDomain(address)

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCustomerNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required address information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

func (repo *shippingAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShippingAddress, error) {
	var addressM model.ShippingAddressModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&addressM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toShippingAddressDomain(&addressM), nil
}

// ListByCustomer returns the customer's addresses, primary first.
func (repo *shippingAddressRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.ShippingAddress, error) {
	var addressModels []*model.ShippingAddressModel
	if err := repo.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_primary DESC").Order("created_at ASC").
		Find(&addressModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	addresses := make([]*entity.ShippingAddress, 0, len(addressModels))
	for _, addressM := range addressModels {
		addresses = append(addresses, toShippingAddressDomain(addressM))
	}

	return addresses, nil
}

// FindPrimary returns the customer's primary address.
func (repo *shippingAddressRepository) FindPrimary(ctx context.Context, customerID uuid.UUID) (*entity.ShippingAddress, error) {
	var addressM model.ShippingAddressModel
	if err := repo.db.WithContext(ctx).
		Where("customer_id = ? AND is_primary = ?", customerID, true).
		First(&addressM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toShippingAddressDomain(&addressM), nil
}

func (repo *shippingAddressRepository) Update(ctx context.Context, address *entity.ShippingAddress) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ShippingAddressModel{}).
		Where("id = ?", address.ID).
		Updates(map[string]any{
			"recipient_name": address.RecipientName,
			"street":         address.Street,
			"city":           address.City,
			"region":         address.Region,
			"postal_code":    address.PostalCode,
			"phone":          address.Phone,
			"is_primary":     address.IsPrimary,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

func (repo *shippingAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ShippingAddressModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// ClearPrimary unsets the primary flag on all of the customer's addresses.
func (repo *shippingAddressRepository) ClearPrimary(ctx context.Context, customerID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.ShippingAddressModel{}).
		Where("customer_id = ? AND is_primary = ?", customerID, true).
		Update("is_primary", false).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear primary address")
	}

	return nil
}

// --- Mapper Functions ---

func toShippingAddressDomain(data *model.ShippingAddressModel) *entity.ShippingAddress {
	if data == nil {
		return nil
	}

	return &entity.ShippingAddress{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		RecipientName: data.RecipientName,
		Street:        data.Street,
		City:          data.City,
		Region:        data.Region,
		PostalCode:    data.PostalCode,
		Phone:         data.Phone,
		IsPrimary:     data.IsPrimary,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromShippingAddressDomain(data *entity.ShippingAddress) *model.ShippingAddressModel {
	if data == nil {
		return nil
	}

	return &model.ShippingAddressModel{
		ID:            data.ID,
		CustomerID:    data.CustomerID,
		RecipientName: data.RecipientName,
		Street:        data.Street,
		City:          data.City,
		Region:        data.Region,
		PostalCode:    data.PostalCode,
		Phone:         data.Phone,
		IsPrimary:     data.IsPrimary,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
