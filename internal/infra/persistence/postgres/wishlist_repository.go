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
	"gorm.io/gorm/clause"
)

// wishlistRepository implements the domain.WishlistRepository interface.
type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository is the constructor for wishlistRepository.
func NewWishlistRepository(db *gorm.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add saves the item; adding a product already in the wishlist is a no-op.
func (repo *wishlistRepository) Add(ctx context.Context, item *entity.WishlistItem) error {
	itemM := &model.WishlistItemModel{
		ID:         item.ID,
		CustomerID: item.CustomerID,
		ProductID:  item.ProductID,
	}

	if err := repo.db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrProductNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add wishlist item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt

	return nil
}

// Remove deletes the product from the customer's wishlist.
func (repo *wishlistRepository) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&model.WishlistItemModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to remove wishlist item")
	}
	if result.RowsAffected == 0 {
		return repository.ErrWishlistItemNotFound
	}

	return nil
}

// ListByCustomer returns the wishlist with live products, newest first.
func (repo *wishlistRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*entity.WishlistItem, error) {
	var itemModels []*model.WishlistItemModel
	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Order("id DESC").
		Find(&itemModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	items := make([]*entity.WishlistItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		if itemM.Product == nil {
			continue
		}
		items = append(items, &entity.WishlistItem{
			ID:         itemM.ID,
			CustomerID: itemM.CustomerID,
			ProductID:  itemM.ProductID,
			CreatedAt:  itemM.CreatedAt,
			Product:    toProductDomain(itemM.Product),
		})
	}

	return items, nil
}

// DeleteByProduct removes the product from every wishlist.
func (repo *wishlistRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.WishlistItemModel{}).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to remove product from wishlists")
	}

	return nil
}
