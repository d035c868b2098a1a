package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const categoriesCacheKey = "categories"

// pictureExtensions lists accepted upload types and the key suffix used for each.
var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// catalogService implements the CatalogUsecase interface.
type catalogService struct {
	txManager        repository.TransactionManager
	categoryRepo     repository.CategoryRepository
	productRepo      repository.ProductRepository
	cache            service.CatalogCache
	media            service.MediaStore
	productPageSize  int
	categoryPageSize int
	cacheTTL         time.Duration
	maxUploadSize    int64
	logger           *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CategoryRepo repository.CategoryRepository
	ProductRepo  repository.ProductRepository
	Cache        service.CatalogCache
	Media        service.MediaStore
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	srv := &catalogService{
		txManager:        params.TxManager,
		categoryRepo:     params.CategoryRepo,
		productRepo:      params.ProductRepo,
		cache:            params.Cache,
		media:            params.Media,
		productPageSize:  20,
		categoryPageSize: 10,
		cacheTTL:         5 * time.Minute,
		maxUploadSize:    5 << 20,
		logger:           params.Logger,
	}

	if cfg := params.Config; cfg != nil {
		if cfg.Catalog != nil {
			srv.productPageSize = pageSize(cfg.Catalog.ProductPageSize, srv.productPageSize)
			srv.categoryPageSize = pageSize(cfg.Catalog.CategoryPageSize, srv.categoryPageSize)
			if cfg.Catalog.CategoryCacheTTL > 0 {
				srv.cacheTTL = cfg.Catalog.CategoryCacheTTL
			}
		}
		if cfg.Storage != nil && cfg.Storage.MaxUploadSize > 0 {
			srv.maxUploadSize = cfg.Storage.MaxUploadSize
		}
	}

	return srv
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListCategories serves categories from the cache, loading them on a miss.
func (srv *catalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var cached []*entity.Category
	found, err := srv.cache.Get(ctx, categoriesCacheKey, &cached)
	if err != nil {
		srv.log(ctx).Warn("Category cache read failed", slog.Any("error", err))
	}
	if found {
		return cached, nil
	}

	categories, err := srv.categoryRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	if err := srv.cache.Set(ctx, categoriesCacheKey, categories, srv.cacheTTL); err != nil {
		srv.log(ctx).Warn("Category cache write failed", slog.Any("error", err))
	}

	return categories, nil
}

func (srv *catalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err)
	}

	return category, nil
}

func (srv *catalogService) CreateCategory(ctx context.Context, input *usecase.CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("category name is required")
	}

	category := &entity.Category{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := srv.categoryRepo.Create(ctx, category); err != nil {
		return nil, mapCategoryError(err)
	}

	srv.invalidateCategories(ctx)
	srv.log(ctx).Info("Category created", slog.Any("categoryID", category.ID), slog.String("name", category.Name))

	return category, nil
}

func (srv *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *usecase.UpdateCategoryInput) (*entity.Category, error) {
	category, err := srv.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapCategoryError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domainerrors.ErrValidationFailed.WithDetails("category name is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = strings.TrimSpace(*input.Description)
	}

	if err := srv.categoryRepo.Update(ctx, category); err != nil {
		return nil, mapCategoryError(err)
	}

	srv.invalidateCategories(ctx)

	return category, nil
}

// DeleteCategory refuses while any product, deleted ones included, references the category.
func (srv *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		categoryRepo := repoFactory.NewCategoryRepository()

		if _, err := categoryRepo.FindByID(ctx, id); err != nil {
			return mapCategoryError(err)
		}

		count, err := categoryRepo.CountProducts(ctx, id)
		if err != nil {
			return errors.Wrap(err, "failed to count category products")
		}
		if count > 0 {
			return domainerrors.ErrCategoryInUse.WrapMessage("category still referenced by products")
		}

		return mapCategoryError(categoryRepo.Delete(ctx, id))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete category")
	}

	srv.invalidateCategories(ctx)
	srv.log(ctx).Info("Category deleted", slog.Any("categoryID", id))

	return nil
}

func (srv *catalogService) ListProducts(ctx context.Context, input *usecase.ListProductsInput) (*entity.Page[*entity.Product], error) {
	filter := entity.ProductFilter{
		Query: strings.TrimSpace(input.Query),
		Sort:  entity.ProductSortCreatedAt,
		Page:  entity.PageRequest{Page: input.Page, PageSize: input.PageSize}.Normalize(srv.productPageSize),
	}

	if input.Sort != "" {
		sort := entity.ProductSort(input.Sort)
		if !sort.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("sort must be one of name, price, created_at")
		}
		filter.Sort = sort
	}

	switch strings.ToLower(input.Order) {
	case "", "asc":
		filter.Descending = input.Order == "" && filter.Sort == entity.ProductSortCreatedAt
	case "desc":
		filter.Descending = true
	default:
		return nil, domainerrors.ErrValidationFailed.WithDetails("order must be asc or desc")
	}

	page, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return page, nil
}

func (srv *catalogService) ListCategoryProducts(ctx context.Context, categoryID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Product], error) {
	if _, err := srv.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, mapCategoryError(err)
	}

	result, err := srv.productRepo.List(ctx, entity.ProductFilter{
		CategoryID: &categoryID,
		Sort:       entity.ProductSortName,
		Page:       page.Normalize(srv.categoryPageSize),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list category products")
	}

	return result, nil
}

func (srv *catalogService) ListFlashSale(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Product], error) {
	result, err := srv.productRepo.List(ctx, entity.ProductFilter{
		FlashSale:  true,
		Sort:       entity.ProductSortCreatedAt,
		Descending: true,
		Page:       page.Normalize(srv.productPageSize),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list flash sale products")
	}

	return result, nil
}

func (srv *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	return product, nil
}

func (srv *catalogService) CreateProduct(ctx context.Context, actorID uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		CurrentPrice:  input.CurrentPrice,
		PreviousPrice: input.PreviousPrice,
		FlashSale:     input.FlashSale,
		CategoryID:    input.CategoryID,
		CreatedBy:     &actorID,
	}
	product.SetStock(input.StockQuantity)

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := requireCategory(ctx, repoFactory.NewCategoryRepository(), product.CategoryID); err != nil {
			return err
		}

		return mapProductError(repoFactory.NewProductRepository().Create(ctx, product))
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.Any("actorID", actorID))

	return product, nil
}

func (srv *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.UpdateProductInput) (*entity.Product, error) {
	var product *entity.Product
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.NewProductRepository()

		current, err := productRepo.FindByID(ctx, id)
		if err != nil {
			return mapProductError(err)
		}

		applyProductUpdate(current, input)
		if err := validateProduct(current); err != nil {
			return err
		}
		if input.CategoryID != nil {
			if err := requireCategory(ctx, repoFactory.NewCategoryRepository(), current.CategoryID); err != nil {
				return err
			}
		}

		if err := productRepo.Update(ctx, current); err != nil {
			return mapProductError(err)
		}
		product = current

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	return product, nil
}

// DeleteProduct hides the product and drops it from carts and wishlists in one transaction.
func (srv *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewProductRepository().SoftDelete(ctx, id); err != nil {
			return mapProductError(err)
		}
		if err := repoFactory.NewCartRepository().DeleteByProduct(ctx, id); err != nil {
			return errors.Wrap(err, "failed to remove product from carts")
		}
		if err := repoFactory.NewWishlistRepository().DeleteByProduct(ctx, id); err != nil {
			return errors.Wrap(err, "failed to remove product from wishlists")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

// UploadPicture stores the picture in the media bucket and points the product at it.
func (srv *catalogService) UploadPicture(ctx context.Context, productID uuid.UUID, input *usecase.UploadPictureInput) (*entity.Product, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(input.ContentType, ";", 2)[0]))
	ext, ok := pictureExtensions[contentType]
	if !ok {
		return nil, domainerrors.ErrUnsupportedMedia.WithDetails(contentType)
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, srv.maxUploadSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > srv.maxUploadSize {
		return nil, domainerrors.ErrUploadTooLarge.WrapMessage("picture exceeds the upload limit")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapProductError(err)
	}

	key := "products/" + productID.String() + "/" + uuid.NewString() + ext
	if err := srv.media.Put(ctx, key, contentType, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "failed to store picture")
	}

	if err := srv.productRepo.UpdatePicture(ctx, productID, key); err != nil {
		if delErr := srv.media.Delete(ctx, key); delErr != nil {
			srv.log(ctx).Warn("Failed to remove orphaned picture", slog.String("key", key), slog.Any("error", delErr))
		}

		return nil, mapProductError(err)
	}

	if previous := product.PictureKey; previous != "" {
		if err := srv.media.Delete(ctx, previous); err != nil {
			srv.log(ctx).Warn("Failed to remove replaced picture", slog.String("key", previous), slog.Any("error", err))
		}
	}

	product.PictureKey = key

	return product, nil
}

func (srv *catalogService) OpenPicture(ctx context.Context, key string) (*service.MediaObject, error) {
	if !strings.HasPrefix(key, "products/") || strings.Contains(key, "..") {
		return nil, domainerrors.ErrMediaNotFound.WrapMessage(key)
	}

	object, err := srv.media.Open(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open picture")
	}

	return object, nil
}

func (srv *catalogService) invalidateCategories(ctx context.Context) {
	if err := srv.cache.Delete(ctx, categoriesCacheKey); err != nil {
		srv.log(ctx).Warn("Category cache invalidation failed", slog.Any("error", err))
	}
}

func applyProductUpdate(product *entity.Product, input *usecase.UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.CurrentPrice != nil {
		product.CurrentPrice = *input.CurrentPrice
	}
	if input.PreviousPrice != nil {
		product.PreviousPrice = *input.PreviousPrice
	}
	if input.StockQuantity != nil {
		product.SetStock(*input.StockQuantity)
	}
	if input.FlashSale != nil {
		product.FlashSale = *input.FlashSale
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
}

func validateProduct(product *entity.Product) error {
	switch {
	case product.Name == "":
		return domainerrors.ErrValidationFailed.WithDetails("product name is required")
	case !product.CurrentPrice.IsPositive():
		return domainerrors.ErrValidationFailed.WithDetails("current price must be positive")
	case product.PreviousPrice.IsNegative():
		return domainerrors.ErrValidationFailed.WithDetails("previous price must not be negative")
	case product.StockQuantity < 0:
		return domainerrors.ErrValidationFailed.WithDetails("stock quantity must not be negative")
	case product.CategoryID == uuid.Nil:
		return domainerrors.ErrValidationFailed.WithDetails("category is required")
	}

	return nil
}

// requireCategory fails with ErrCategoryNotFound unless the category exists.
func requireCategory(ctx context.Context, categoryRepo repository.CategoryRepository, id uuid.UUID) error {
	if _, err := categoryRepo.FindByID(ctx, id); err != nil {
		return mapProductError(err)
	}

	return nil
}

func mapCategoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCategoryNotFound):
		return domainerrors.ErrCategoryNotFound.WrapMessage("category not found")
	case errors.Is(err, repository.ErrDuplicateCategory):
		return domainerrors.ErrCategoryNameTaken.WrapMessage("category name already in use")
	default:
		return errors.Wrap(err, "category operation failed")
	}
}

func mapProductError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrProductNotFound):
		return domainerrors.ErrProductNotFound.WrapMessage("product not found")
	case errors.Is(err, repository.ErrCategoryNotFound):
		return domainerrors.ErrCategoryNotFound.WrapMessage("product category not found")
	default:
		return errors.Wrap(err, "product operation failed")
	}
}
