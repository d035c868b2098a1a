package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryInput defines a category to create.
type CategoryInput struct {
	Name        string
	Description string
}

// UpdateCategoryInput lists the category fields to change.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// ListProductsInput defines a product search.
type ListProductsInput struct {
	Query    string
	Sort     string // name, price or created_at
	Order    string // asc or desc
	Page     int
	PageSize int
}

// ProductInput defines a product to create.
type ProductInput struct {
	Name          string
	Description   string
	CurrentPrice  decimal.Decimal
	PreviousPrice decimal.Decimal
	StockQuantity int
	FlashSale     bool
	CategoryID    uuid.UUID
}

// UpdateProductInput lists the product fields to change.
type UpdateProductInput struct {
	Name          *string
	Description   *string
	CurrentPrice  *decimal.Decimal
	PreviousPrice *decimal.Decimal
	StockQuantity *int
	FlashSale     *bool
	CategoryID    *uuid.UUID
}

// UploadPictureInput is an uploaded product picture.
type UploadPictureInput struct {
	ContentType string
	Body        io.Reader
}

// CatalogUsecase defines catalog browsing and administration.
type CatalogUsecase interface {
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListProducts(ctx context.Context, input *ListProductsInput) (*entity.Page[*entity.Product], error)
	ListCategoryProducts(ctx context.Context, categoryID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Product], error)
	ListFlashSale(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Product], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	CreateProduct(ctx context.Context, actorID uuid.UUID, input *ProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error)
	// DeleteProduct soft deletes the product and drops it from every cart and wishlist.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	UploadPicture(ctx context.Context, productID uuid.UUID, input *UploadPictureInput) (*entity.Product, error)
	OpenPicture(ctx context.Context, key string) (*service.MediaObject, error)
}
