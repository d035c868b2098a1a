package impl

import (
	"context"
	"fmt"
	"log/slog"
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
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// errEmptyCart aborts the checkout transaction when there is nothing to order.
var errEmptyCart = errors.New("cart is empty")

// stockShortfallError aborts the checkout transaction and carries every offending line.
type stockShortfallError struct {
	shortfalls []usecase.StockShortfall
}

func (e *stockShortfallError) Error() string {
	return fmt.Sprintf("%d cart line(s) exceed available stock", len(e.shortfalls))
}

// checkoutService implements the CheckoutUsecase interface.
type checkoutService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	addressRepo  repository.ShippingAddressRepository
	publisher    service.EventPublisher
	metrics      service.CheckoutMetrics
	shippingFee  decimal.Decimal
	logger       *slog.Logger
}

// CheckoutServiceParams holds dependencies for CheckoutService, injected by Fx.
type CheckoutServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CustomerRepo repository.CustomerRepository
	AddressRepo  repository.ShippingAddressRepository
	Publisher    service.EventPublisher
	Metrics      service.CheckoutMetrics
	Config       *config.Config
	Logger       *slog.Logger
}

// NewCheckoutService is the constructor for checkoutService.
func NewCheckoutService(params CheckoutServiceParams) (usecase.CheckoutUsecase, error) {
	fee, err := parseShippingFee(params.Config)
	if err != nil {
		return nil, err
	}

	return &checkoutService{
		txManager:    params.TxManager,
		customerRepo: params.CustomerRepo,
		addressRepo:  params.AddressRepo,
		publisher:    params.Publisher,
		metrics:      params.Metrics,
		shippingFee:  fee,
		logger:       params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *checkoutService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder converts the customer's cart into a pending cash-on-delivery order.
func (srv *checkoutService) PlaceOrder(ctx context.Context, customerID uuid.UUID, input *usecase.PlaceOrderInput) (*usecase.CheckoutResult, error) {
	start := time.Now()

	customer, err := srv.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrCustomerNotFound.WrapMessage("checkout requires an existing customer")
		}

		return nil, errors.Wrap(err, "failed to load customer for checkout")
	}
	if !customer.CanPlaceOrders() {
		srv.log(ctx).Warn("Staff account attempted checkout", slog.Any("customerID", customerID), slog.String("role", customer.Role.String()))

		return nil, domainerrors.ErrForbidden.WrapMessage("staff accounts cannot place orders")
	}

	shippingAddress, err := srv.resolveShippingAddress(ctx, customer, input)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	txErr := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		placed, err := srv.placeOrder(ctx, repoFactory, customer.ID, shippingAddress)
		if err != nil {
			return err
		}
		order = placed

		return nil
	})

	result := srv.toResult(ctx, customerID, order, txErr)
	srv.metrics.ObserveCheckout(result.Failure.Outcome(), time.Since(start))

	if result.Succeeded() {
		srv.metrics.AddItemsSold(unitsIn(order))
		srv.publishOrderPlaced(ctx, customer, order)
		srv.log(ctx).Info("Order placed",
			slog.Any("orderID", order.ID),
			slog.Any("customerID", customerID),
			slog.String("total", order.Total.StringFixed(2)),
			slog.Int("items", len(order.Items)),
		)
	}

	return result, nil
}

// placeOrder runs inside the transaction. Any returned error rolls everything back.
func (srv *checkoutService) placeOrder(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	customerID uuid.UUID,
	shippingAddress string,
) (*entity.Order, error) {
	cartRepo := repoFactory.NewCartRepository()
	productRepo := repoFactory.NewProductRepository()
	orderRepo := repoFactory.NewOrderRepository()

	// 1. Load the cart.
	lines, err := cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}
	if len(lines) == 0 {
		return nil, errEmptyCart
	}

	// 2. Re-read every product and collect all shortfalls before touching stock.
	products := make([]*entity.Product, len(lines))
	var shortfalls []usecase.StockShortfall
	for idx, line := range lines {
		product, err := productRepo.FindByID(ctx, line.ProductID)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrapf(err, "failed to load product %s", line.ProductID)
		}
		if product == nil || !product.CanSupply(line.Quantity) {
			shortfalls = append(shortfalls, shortfallFor(line, product))

			continue
		}
		products[idx] = product
	}
	if len(shortfalls) > 0 {
		return nil, &stockShortfallError{shortfalls: shortfalls}
	}

	// 3. Price the order from the rows just read.
	total := srv.shippingFee
	items := make([]*entity.OrderItem, 0, len(lines))
	for idx, line := range lines {
		item := &entity.OrderItem{
			ProductID:   products[idx].ID,
			ProductName: products[idx].Name,
			Quantity:    line.Quantity,
			Price:       products[idx].CurrentPrice,
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}

	// 4. Persist the order with its price-snapshotted items.
	order := &entity.Order{
		CustomerID:      customerID,
		Status:          entity.OrderStatusPending,
		Total:           total,
		ShippingFee:     srv.shippingFee,
		ShippingAddress: shippingAddress,
		PaymentMethod:   entity.PaymentMethodCashOnDelivery,
		PaymentStatus:   entity.PaymentStatusPending,
		Items:           items,
	}
	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	// 5. Decrement stock; the conditional update refuses to go below zero.
	for _, line := range lines {
		decremented, err := productRepo.DecrementStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decrement stock of product %s", line.ProductID)
		}
		if !decremented {
			current, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
				return nil, errors.Wrapf(err, "failed to reload product %s", line.ProductID)
			}

			return nil, &stockShortfallError{shortfalls: []usecase.StockShortfall{shortfallFor(line, current)}}
		}
	}

	// 6. Empty the cart.
	if _, err := cartRepo.DeleteByCustomer(ctx, customerID); err != nil {
		return nil, errors.Wrap(err, "failed to clear cart")
	}

	return order, nil
}

func (srv *checkoutService) toResult(ctx context.Context, customerID uuid.UUID, order *entity.Order, txErr error) *usecase.CheckoutResult {
	var shortfall *stockShortfallError

	switch {
	case txErr == nil:
		return &usecase.CheckoutResult{Order: order}
	case errors.Is(txErr, errEmptyCart):
		srv.log(ctx).Info("Checkout with empty cart", slog.Any("customerID", customerID))

		return &usecase.CheckoutResult{Failure: usecase.FailureEmptyCart}
	case errors.As(txErr, &shortfall):
		srv.log(ctx).Info("Checkout refused for insufficient stock",
			slog.Any("customerID", customerID),
			slog.Int("lines", len(shortfall.shortfalls)),
		)

		return &usecase.CheckoutResult{Failure: usecase.FailureStockShortfall, Shortfalls: shortfall.shortfalls}
	default:
		srv.log(ctx).Error("Checkout transaction failed", slog.Any("customerID", customerID), slog.Any("error", txErr))

		return &usecase.CheckoutResult{Failure: usecase.FailureInternal}
	}
}

// resolveShippingAddress picks the selected saved address, the customer's
// stored address, or the primary saved address, in that order.
func (srv *checkoutService) resolveShippingAddress(ctx context.Context, customer *entity.Customer, input *usecase.PlaceOrderInput) (string, error) {
	if input != nil && input.AddressID != nil {
		address, err := srv.addressRepo.FindByID(ctx, *input.AddressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return "", domainerrors.ErrAddressNotFound.WrapMessage("shipping address not found")
			}

			return "", errors.Wrap(err, "failed to load shipping address")
		}
		if address.CustomerID != customer.ID {
			return "", domainerrors.ErrAddressOwnership.WrapMessage("shipping address belongs to another customer")
		}

		return address.Format(), nil
	}

	if customer.Address != "" {
		return customer.Address, nil
	}

	primary, err := srv.addressRepo.FindPrimary(ctx, customer.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return "", nil
		}

		return "", errors.Wrap(err, "failed to load primary address")
	}

	return primary.Format(), nil
}

func (srv *checkoutService) publishOrderPlaced(ctx context.Context, customer *entity.Customer, order *entity.Order) {
	event := &service.OrderPlacedEvent{
		RequestID:       deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:         order.ID.String(),
		CustomerID:      customer.ID.String(),
		CustomerEmail:   customer.Email,
		CustomerName:    customer.Username,
		Total:           order.Total.StringFixed(2),
		ShippingFee:     order.ShippingFee.StringFixed(2),
		ShippingAddress: order.ShippingAddress,
		Items:           make([]service.OrderPlacedItem, 0, len(order.Items)),
		PlacedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, service.OrderPlacedItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.StringFixed(2),
		})
	}

	if err := srv.publisher.PublishOrderPlaced(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order placed event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}

func shortfallFor(line *entity.CartLine, product *entity.Product) usecase.StockShortfall {
	shortfall := usecase.StockShortfall{
		ProductID: line.ProductID,
		Requested: line.Quantity,
	}

	switch {
	case product != nil:
		shortfall.ProductName = product.Name
		shortfall.Available = product.StockQuantity
	case line.Product != nil:
		shortfall.ProductName = line.Product.Name
	}

	return shortfall
}

func unitsIn(order *entity.Order) int {
	units := 0
	for _, item := range order.Items {
		units += item.Quantity
	}

	return units
}
