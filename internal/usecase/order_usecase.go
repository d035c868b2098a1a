package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase defines order history for customers and fulfilment for staff.
type OrderUsecase interface {
	ListCustomerOrders(ctx context.Context, customerID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Order], error)
	GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*entity.Order, error)
	// GetPickupQRCode renders the PNG QR code a customer shows at pickup.
	GetPickupQRCode(ctx context.Context, customerID, orderID uuid.UUID) ([]byte, error)

	ListOrders(ctx context.Context, status *entity.OrderStatus, page entity.PageRequest) (*entity.Page[*entity.Order], error)
	// UpdateOrderStatus follows the order state machine. Cancelling restores
	// stock; delivering marks the order paid.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error)
	// ResolvePickupQRCode finds the order encoded in a scanned QR payload.
	ResolvePickupQRCode(ctx context.Context, payload string) (*entity.Order, error)
}
