package impl

import (
	"context"
	"log/slog"

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

const defaultOrderPageSize = 20

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	qrCode    service.QRCodeService
	pageSize  int
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	QRCode    service.QRCodeService
	Config    *config.Config
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	size := defaultOrderPageSize
	if params.Config != nil && params.Config.Catalog != nil {
		size = pageSize(params.Config.Catalog.ProductPageSize, size)
	}

	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		qrCode:    params.QRCode,
		pageSize:  size,
		logger:    params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *orderService) ListCustomerOrders(ctx context.Context, customerID uuid.UUID, page entity.PageRequest) (*entity.Page[*entity.Order], error) {
	result, err := srv.orderRepo.List(ctx, entity.OrderFilter{
		CustomerID: &customerID,
		Page:       page.Normalize(srv.pageSize),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customer orders")
	}

	return result, nil
}

func (srv *orderService) GetCustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderError(err)
	}

	// Foreign orders are reported as missing so their IDs cannot be probed.
	if order.CustomerID != customerID {
		return nil, domainerrors.ErrOrderNotFound.WrapMessage("order not found")
	}

	return order, nil
}

func (srv *orderService) GetPickupQRCode(ctx context.Context, customerID, orderID uuid.UUID) ([]byte, error) {
	order, err := srv.GetCustomerOrder(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrCode.GenerateOrderQR(order.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render pickup code")
	}

	return png, nil
}

func (srv *orderService) ListOrders(ctx context.Context, status *entity.OrderStatus, page entity.PageRequest) (*entity.Page[*entity.Order], error) {
	if status != nil && !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	result, err := srv.orderRepo.List(ctx, entity.OrderFilter{
		Status: status,
		Page:   page.Normalize(srv.pageSize),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return result, nil
}

// UpdateOrderStatus applies one state machine step. The write is guarded by
// the status that was read, so two staff members racing on one order cannot
// both succeed.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown order status")
	}

	var updated *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return mapOrderError(err)
		}

		if !order.Status.CanTransitionTo(status) {
			return domainerrors.ErrInvalidStatusTransition.WithDetails(
				string(order.Status) + " -> " + string(status))
		}

		payment := order.PaymentStatus
		if status == entity.OrderStatusDelivered {
			payment = entity.PaymentStatusPaid
		}

		if err := orderRepo.UpdateStatus(ctx, orderID, order.Status, status, payment); err != nil {
			return mapOrderError(err)
		}

		if status == entity.OrderStatusCanceled {
			productRepo := repoFactory.NewProductRepository()
			for _, item := range order.Items {
				if err := productRepo.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
					return errors.Wrapf(err, "failed to restock product %s", item.ProductID)
				}
			}
		}

		order.Status = status
		order.PaymentStatus = payment
		updated = order

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	srv.log(ctx).Info("Order status updated",
		slog.Any("orderID", orderID),
		slog.String("status", string(status)),
	)

	return updated, nil
}

func (srv *orderService) ResolvePickupQRCode(ctx context.Context, payload string) (*entity.Order, error) {
	orderID, err := srv.qrCode.ParseOrderQR(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pickup code")
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderError(err)
	}

	return order, nil
}

func mapOrderError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrOrderNotFound):
		return domainerrors.ErrOrderNotFound.WrapMessage("order not found")
	case errors.Is(err, repository.ErrOrderStatusChanged):
		return domainerrors.ErrConflict.WrapMessage("order status changed concurrently")
	default:
		return errors.Wrap(err, "order operation failed")
	}
}
