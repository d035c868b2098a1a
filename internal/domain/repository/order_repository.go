package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderStatusChanged is returned when the order left the expected status concurrently.
	ErrOrderStatusChanged = errors.New("order status changed concurrently")
)

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// Create persists the order together with its items.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves an order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// List returns a filtered page of orders with items, newest first.
	List(ctx context.Context, filter entity.OrderFilter) (*entity.Page[*entity.Order], error)

	// UpdateStatus moves the order from one status to another. It fails with
	// ErrOrderStatusChanged when the stored status no longer equals from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus, payment entity.PaymentStatus) error

	// Count returns the number of orders, optionally restricted to a status.
	Count(ctx context.Context, status *entity.OrderStatus) (int64, error)
}
