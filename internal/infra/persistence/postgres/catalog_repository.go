package postgres

import (
	"context"
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// categoryRepository implements the domain.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository is the constructor for categoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (repo *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryM := fromCategoryDomain(category)

	if err := repo.db.WithContext(ctx).Create(categoryM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCategory
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create category")
	}

	category.ID = categoryM.ID
	category.CreatedAt = categoryM.CreatedAt
	category.UpdatedAt = categoryM.UpdatedAt

	return nil
}

func (repo *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&categoryM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrCategoryNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCategoryDomain(&categoryM), nil
}

// List returns every category ordered by name.
func (repo *categoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []*model.CategoryModel
	if err := repo.db.WithContext(ctx).Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	categories := make([]*entity.Category, 0, len(categoryModels))
	for _, categoryM := range categoryModels {
		categories = append(categories, toCategoryDomain(categoryM))
	}

	return categories, nil
}

func (repo *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":        category.Name,
			"description": category.Description,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCategory
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

func (repo *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CategoryModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrCategoryInUse
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCategoryNotFound
	}

	return nil
}

// CountProducts counts products referencing the category, deleted ones included.
func (repo *categoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Unscoped().
		Model(&model.ProductModel{}).
		Where("category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// productRepository implements the domain.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

var productSortColumns = map[entity.ProductSort]string{
	entity.ProductSortName:      "name",
	entity.ProductSortPrice:     "current_price",
	entity.ProductSortCreatedAt: "created_at",
}

func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrCategoryNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("stock quantity cannot be negative")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// FindByID retrieves a live product.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&productM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toProductDomain(&productM), nil
}

// List returns a filtered, sorted page of live products.
func (repo *productRepository) List(ctx context.Context, filter entity.ProductFilter) (*entity.Page[*entity.Product], error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductModel{})

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.FlashSale {
		query = query.Where("flash_sale = ?", true)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	column, ok := productSortColumns[filter.Sort]
	if !ok {
		column = productSortColumns[entity.ProductSortCreatedAt]
	}

	var productModels []*model.ProductModel
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Descending}).
		Order("id ASC").
		Offset(filter.Page.Offset()).Limit(filter.Page.PageSize).
		Find(&productModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return &entity.Page[*entity.Product]{
		Items:    products,
		Total:    total,
		Page:     filter.Page.Page,
		PageSize: filter.Page.PageSize,
	}, nil
}

// Update saves the editable fields including stock and the derived in-stock flag.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":           product.Name,
			"description":    product.Description,
			"current_price":  product.CurrentPrice,
			"previous_price": product.PreviousPrice,
			"stock_quantity": product.StockQuantity,
			"in_stock":       product.StockQuantity > 0,
			"flash_sale":     product.FlashSale,
			"category_id":    product.CategoryID,
		})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return repository.ErrCategoryNotFound
		}
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("stock quantity cannot be negative")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// UpdatePicture stores the blob key of the product picture.
func (repo *productRepository) UpdatePicture(ctx context.Context, id uuid.UUID, pictureKey string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Update("picture_key", pictureKey)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update product picture")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// SoftDelete hides the product while keeping it referable from order history.
func (repo *productRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ProductModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete product")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// DecrementStock removes quantity units only when that many are in stock.
// Both assignments read the pre-update row, so in_stock follows the new quantity.
func (repo *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}

	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"in_stock":       gorm.Expr("(stock_quantity - ?) > 0", quantity),
		})
	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}

	return result.RowsAffected == 1, nil
}

// IncrementStock returns quantity units to stock. Deleted products are restocked too
// so cancelled orders keep the books balanced.
func (repo *productRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
	}

	result := repo.db.WithContext(ctx).
		Unscoped().
		Model(&model.ProductModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"in_stock":       gorm.Expr("(stock_quantity + ?) > 0", quantity),
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to increment stock")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// Count returns the number of live products.
func (repo *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.ProductModel{}).Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// --- Mapper Functions ---

func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	return &entity.Category{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromCategoryDomain(data *entity.Category) *model.CategoryModel {
	if data == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		CurrentPrice:  data.CurrentPrice,
		PreviousPrice: data.PreviousPrice,
		StockQuantity: data.StockQuantity,
		InStock:       data.InStock,
		FlashSale:     data.FlashSale,
		PictureKey:    data.PictureKey,
		CategoryID:    data.CategoryID,
		CreatedBy:     data.CreatedBy,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:            data.ID,
		Name:          data.Name,
		Description:   data.Description,
		CurrentPrice:  data.CurrentPrice,
		PreviousPrice: data.PreviousPrice,
		StockQuantity: data.StockQuantity,
		InStock:       data.StockQuantity > 0,
		FlashSale:     data.FlashSale,
		PictureKey:    data.PictureKey,
		CategoryID:    data.CategoryID,
		CreatedBy:     data.CreatedBy,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
