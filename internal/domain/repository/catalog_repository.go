package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrProductNotFound is returned when a product is not found or was deleted.
	ErrProductNotFound = errors.New("product not found")
)

// CategoryRepository defines the interface for category persistence.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// List returns every category ordered by name.
	List(ctx context.Context) ([]*entity.Category, error)

	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountProducts counts products referencing the category, deleted ones included.
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

// ProductRepository defines the interface for product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error

	// FindByID retrieves a live (not deleted) product. Inside a transaction it
	// always reads the current row.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// List returns a filtered, sorted page of live products.
	List(ctx context.Context, filter entity.ProductFilter) (*entity.Page[*entity.Product], error)

	// Update saves the editable fields including stock and the derived in-stock flag.
	Update(ctx context.Context, product *entity.Product) error

	// UpdatePicture stores the blob key of the product picture.
	UpdatePicture(ctx context.Context, id uuid.UUID, pictureKey string) error

	// SoftDelete hides the product while keeping it referable from order history.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// DecrementStock removes quantity units only if at least that many are in
	// stock, recomputing the in-stock flag. It reports false when stock was short.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (bool, error)

	// IncrementStock returns quantity units to stock, recomputing the in-stock flag.
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// Count returns the number of live products.
	Count(ctx context.Context) (int64, error)
}
