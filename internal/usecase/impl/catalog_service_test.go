package impl

import (
	"context"
	"io"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/infra/storage"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type catalogFixtures struct {
	*testEnv
	service usecase.CatalogUsecase
	cache   *mockSvc.MockCatalogCache
	media   service.MediaStore
}

func createTestCatalogService(t *testing.T) catalogFixtures {
	env := newTestEnv(t)
	cache := mockSvc.NewMockCatalogCache(t)

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	media := storage.NewBlobMediaStore(bucket)

	srv := NewCatalogService(CatalogServiceParams{
		TxManager:    env.txManager,
		CategoryRepo: env.categories,
		ProductRepo:  env.products,
		Cache:        cache,
		Media:        media,
		Config:       env.cfg,
		Logger:       newDiscardLogger(),
	})

	return catalogFixtures{testEnv: env, service: srv, cache: cache, media: media}
}

func TestCatalogService_ListCategories_Cache(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()

	t.Run("miss loads and stores", func(t *testing.T) {
		fx.cache.EXPECT().Get(ctx, categoriesCacheKey, mock.Anything).Return(false, nil).Once()
		fx.cache.EXPECT().
			Set(ctx, categoriesCacheKey, mock.AnythingOfType("[]*entity.Category"), fx.cfg.Catalog.CategoryCacheTTL).
			Return(nil).
			Once()

		categories, err := fx.service.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, "Groceries", categories[0].Name)
	})

	t.Run("hit skips the database", func(t *testing.T) {
		cached := []*entity.Category{{ID: uuid.New(), Name: "Cached"}}
		fx.cache.EXPECT().
			Get(ctx, categoriesCacheKey, mock.Anything).
			RunAndReturn(func(_ context.Context, _ string, dest any) (bool, error) {
				*dest.(*[]*entity.Category) = cached

				return true, nil
			}).
			Once()

		categories, err := fx.service.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, categories)
	})
}

func TestCatalogService_CategoryMutations(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()

	fx.cache.EXPECT().Delete(ctx, categoriesCacheKey).Return(nil)

	created, err := fx.service.CreateCategory(ctx, &usecase.CategoryInput{Name: "  Bakery ", Description: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, "Bakery", created.Name)

	_, err = fx.service.CreateCategory(ctx, &usecase.CategoryInput{Name: "Bakery"})
	assert.ErrorIs(t, err, domainerrors.ErrCategoryNameTaken)

	_, err = fx.service.CreateCategory(ctx, &usecase.CategoryInput{Name: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	renamed := "Bread & Cakes"
	updated, err := fx.service.UpdateCategory(ctx, created.ID, &usecase.UpdateCategoryInput{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, updated.Name)
	assert.Equal(t, "Fresh", updated.Description)

	t.Run("delete is refused while products reference it", func(t *testing.T) {
		product := fx.product(t, "Flour", "1.00", 1)
		require.NoError(t, fx.products.SoftDelete(ctx, product.ID))

		err := fx.service.DeleteCategory(ctx, fx.category.ID)
		assert.ErrorIs(t, err, domainerrors.ErrCategoryInUse)
	})

	t.Run("delete unused category", func(t *testing.T) {
		require.NoError(t, fx.service.DeleteCategory(ctx, created.ID))

		_, err := fx.service.GetCategory(ctx, created.ID)
		assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
	})
}

func TestCatalogService_Products(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	admin := fx.customer(t, entity.RoleAdmin, "")

	product, err := fx.service.CreateProduct(ctx, admin.ID, &usecase.ProductInput{
		Name:          "Green tea",
		Description:   "Loose leaf",
		CurrentPrice:  decimal.RequireFromString("8.00"),
		PreviousPrice: decimal.RequireFromString("9.50"),
		StockQuantity: 0,
		FlashSale:     true,
		CategoryID:    fx.category.ID,
	})
	require.NoError(t, err)
	assert.False(t, product.InStock)
	require.NotNil(t, product.CreatedBy)
	assert.Equal(t, admin.ID, *product.CreatedBy)

	t.Run("validation", func(t *testing.T) {
		_, err := fx.service.CreateProduct(ctx, admin.ID, &usecase.ProductInput{
			Name:         "Free lunch",
			CurrentPrice: decimal.Zero,
			CategoryID:   fx.category.ID,
		})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

		_, err = fx.service.CreateProduct(ctx, admin.ID, &usecase.ProductInput{
			Name:         "Orphan",
			CurrentPrice: decimal.RequireFromString("1.00"),
			CategoryID:   uuid.New(),
		})
		assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)
	})

	t.Run("update keeps in stock derived", func(t *testing.T) {
		stock := 12
		updated, err := fx.service.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{StockQuantity: &stock})
		require.NoError(t, err)
		assert.Equal(t, 12, updated.StockQuantity)
		assert.True(t, updated.InStock)

		negative := -1
		_, err = fx.service.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{StockQuantity: &negative})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})

	t.Run("update to unknown category", func(t *testing.T) {
		missing := uuid.New()
		_, err := fx.service.UpdateProduct(ctx, product.ID, &usecase.UpdateProductInput{CategoryID: &missing})
		assert.ErrorIs(t, err, domainerrors.ErrCategoryNotFound)

		stored, err := fx.service.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.category.ID, stored.CategoryID)
	})

	t.Run("search and sort", func(t *testing.T) {
		fx.product(t, "Black tea", "3.00", 5)
		fx.product(t, "Coffee", "12.00", 5)

		page, err := fx.service.ListProducts(ctx, &usecase.ListProductsInput{Query: "TEA", Sort: "price", Order: "asc"})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "Black tea", page.Items[0].Name)
		assert.Equal(t, "Green tea", page.Items[1].Name)
		assert.Equal(t, 20, page.PageSize)

		_, err = fx.service.ListProducts(ctx, &usecase.ListProductsInput{Sort: "popularity"})
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

		flash, err := fx.service.ListFlashSale(ctx, entity.PageRequest{})
		require.NoError(t, err)
		require.Len(t, flash.Items, 1)
		assert.Equal(t, product.ID, flash.Items[0].ID)

		byCategory, err := fx.service.ListCategoryProducts(ctx, fx.category.ID, entity.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 10, byCategory.PageSize)
		assert.EqualValues(t, 3, byCategory.Total)
	})

	t.Run("delete drops carts and wishlists", func(t *testing.T) {
		customer := fx.customer(t, entity.RoleCustomer, "")
		fx.cartLine(t, customer.ID, product, 1)
		require.NoError(t, fx.wishlists.Add(ctx, &entity.WishlistItem{CustomerID: customer.ID, ProductID: product.ID}))

		require.NoError(t, fx.service.DeleteProduct(ctx, product.ID))

		_, err := fx.service.GetProduct(ctx, product.ID)
		assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)

		lines, err := fx.carts.ListByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)

		items, err := fx.wishlists.ListByCustomer(ctx, customer.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCatalogService_Pictures(t *testing.T) {
	fx := createTestCatalogService(t)
	ctx := context.Background()
	product := fx.product(t, "Mug", "6.00", 3)

	uploaded, err := fx.service.UploadPicture(ctx, product.ID, &usecase.UploadPictureInput{
		ContentType: "image/png",
		Body:        strings.NewReader("first"),
	})
	require.NoError(t, err)
	firstKey := uploaded.PictureKey
	assert.True(t, strings.HasPrefix(firstKey, "products/"+product.ID.String()+"/"))
	assert.True(t, strings.HasSuffix(firstKey, ".png"))

	object, err := fx.service.OpenPicture(ctx, firstKey)
	require.NoError(t, err)
	data, err := io.ReadAll(object.Body)
	require.NoError(t, err)
	require.NoError(t, object.Body.Close())
	assert.Equal(t, "first", string(data))
	assert.Equal(t, "image/png", object.ContentType)

	t.Run("replacing removes the old picture", func(t *testing.T) {
		replaced, err := fx.service.UploadPicture(ctx, product.ID, &usecase.UploadPictureInput{
			ContentType: "image/jpeg; charset=binary",
			Body:        strings.NewReader("second"),
		})
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(replaced.PictureKey, ".jpg"))

		_, err = fx.service.OpenPicture(ctx, firstKey)
		assert.ErrorIs(t, err, domainerrors.ErrMediaNotFound)

		stored, err := fx.products.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, replaced.PictureKey, stored.PictureKey)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := fx.service.UploadPicture(ctx, product.ID, &usecase.UploadPictureInput{
			ContentType: "application/pdf",
			Body:        strings.NewReader("%PDF"),
		})
		assert.ErrorIs(t, err, domainerrors.ErrUnsupportedMedia)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := fx.service.UploadPicture(ctx, product.ID, &usecase.UploadPictureInput{
			ContentType: "image/gif",
			Body:        strings.NewReader(strings.Repeat("x", int(fx.cfg.Storage.MaxUploadSize)+1)),
		})
		assert.ErrorIs(t, err, domainerrors.ErrUploadTooLarge)
	})

	t.Run("keys outside the product folder", func(t *testing.T) {
		_, err := fx.service.OpenPicture(ctx, "../etc/passwd")
		assert.ErrorIs(t, err, domainerrors.ErrMediaNotFound)
	})
}
