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

// cartRepository implements the domain.CartRepository interface.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

// ListByCustomer returns the customer's lines with their products, oldest first.
func (repo *cartRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.CartLine, error) {
	var lineModels []*model.CartLineModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at ASC").Order("id ASC").
		Find(&lineModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	lines := make([]*entity.CartLine, 0, len(lineModels))
	for _, lineM := range lineModels {
		lines = append(lines, toCartLineDomain(lineM))
	}

	return lines, nil
}

func (repo *cartRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CartLine, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *cartRepository) FindByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*entity.CartLine, error) {
	return repo.findOne(ctx, "customer_id = ? AND product_id = ?", customerID, productID)
}

func (repo *cartRepository) findOne(ctx context.Context, query string, args ...any) (*entity.CartLine, error) {
	var lineM model.CartLineModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where(query, args...).
		First(&lineM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrCartLineNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCartLineDomain(&lineM), nil
}

func (repo *cartRepository) Create(ctx context.Context, line *entity.CartLine) error {
	lineM := fromCartLineDomain(line)

	if err := repo.db.WithContext(ctx).Omit("Product").Create(lineM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCartLine
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart line")
	}

	line.ID = lineM.ID
	line.CreatedAt = lineM.CreatedAt
	line.UpdatedAt = lineM.UpdatedAt

	return nil
}

// UpdateQuantity saves quantity and the cached total price.
func (repo *cartRepository) UpdateQuantity(ctx context.Context, line *entity.CartLine) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartLineModel{}).
		Where("id = ?", line.ID).
		Updates(map[string]any{
			"quantity":    line.Quantity,
			"total_price": line.TotalPrice,
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update cart line")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

func (repo *cartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CartLineModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete cart line")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteByCustomer empties the customer's cart and returns the removed line count.
func (repo *cartRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&model.CartLineModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to clear cart")
	}

	return result.RowsAffected, nil
}

// DeleteByProduct removes the product from every cart.
func (repo *cartRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.CartLineModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove product from carts")
	}

	return nil
}

// --- Mapper Functions ---

func toCartLineDomain(data *model.CartLineModel) *entity.CartLine {
	if data == nil {
		return nil
	}

	return &entity.CartLine{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		ProductID:  data.ProductID,
		Quantity:   data.Quantity,
		TotalPrice: data.TotalPrice,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
		Product:    toProductDomain(data.Product),
	}
}

func fromCartLineDomain(data *entity.CartLine) *model.CartLineModel {
	if data == nil {
		return nil
	}

	return &model.CartLineModel{
		ID:         data.ID,
		CustomerID: data.CustomerID,
		ProductID:  data.ProductID,
		Quantity:   data.Quantity,
		TotalPrice: data.TotalPrice,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
