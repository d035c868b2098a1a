package impl

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	shippingFee decimal.Decimal
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	CartRepo  repository.CartRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) (usecase.CartUsecase, error) {
	fee, err := parseShippingFee(params.Config)
	if err != nil {
		return nil, err
	}

	return &cartService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		shippingFee: fee,
		logger:      params.Logger,
	}, nil
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the lines priced at current product prices.
func (srv *cartService) GetCart(ctx context.Context, customerID uuid.UUID) (*entity.Cart, error) {
	lines, err := srv.cartRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cart")
	}

	return entity.NewCart(customerID, lines, srv.shippingFee), nil
}

// AddItem puts quantity units of a product in the cart.
func (srv *cartService) AddItem(ctx context.Context, customerID uuid.UUID, input *usecase.AddCartItemInput) (*entity.CartLine, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be positive")
	}

	var line *entity.CartLine
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		added, err := addToCart(ctx, repoFactory, customerID, input.ProductID, quantity)
		if err != nil {
			return err
		}
		line = added

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to add cart item", slog.Any("customerID", customerID), slog.Any("productID", input.ProductID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to add cart item")
	}

	srv.log(ctx).Debug("Cart item added", slog.Any("customerID", customerID), slog.Any("lineID", line.ID), slog.Int("quantity", line.Quantity))

	return line, nil
}

// IncrementItem adds one unit to an existing line.
func (srv *cartService) IncrementItem(ctx context.Context, customerID, lineID uuid.UUID) (*entity.CartLine, error) {
	var line *entity.CartLine
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		owned, err := loadOwnedCartLine(ctx, cartRepo, customerID, lineID)
		if err != nil {
			return err
		}

		product, err := repoFactory.NewProductRepository().FindByID(ctx, owned.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return domainerrors.ErrProductUnavailable.WrapMessage("product is no longer sold")
			}

			return errors.Wrap(err, "failed to load product")
		}

		owned.Quantity++
		if !product.CanSupply(owned.Quantity) {
			return insufficientStock(product, owned.Quantity)
		}
		owned.Reprice(product.CurrentPrice)
		if err := cartRepo.UpdateQuantity(ctx, owned); err != nil {
			return errors.Wrap(err, "failed to update cart line")
		}
		owned.Product = product
		line = owned

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to increment cart item")
	}

	return line, nil
}

// DecrementItem removes one unit, deleting the line when it reaches zero.
func (srv *cartService) DecrementItem(ctx context.Context, customerID, lineID uuid.UUID) (*entity.CartLine, error) {
	var line *entity.CartLine
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		owned, err := loadOwnedCartLine(ctx, cartRepo, customerID, lineID)
		if err != nil {
			return err
		}

		if owned.Quantity <= 1 {
			if err := cartRepo.Delete(ctx, owned.ID); err != nil {
				return errors.Wrap(err, "failed to delete cart line")
			}

			return nil
		}

		unitPrice := owned.TotalPrice.Div(decimal.NewFromInt(int64(owned.Quantity)))
		if owned.Product != nil {
			unitPrice = owned.Product.CurrentPrice
		}
		owned.Quantity--
		owned.Reprice(unitPrice)
		if err := cartRepo.UpdateQuantity(ctx, owned); err != nil {
			return errors.Wrap(err, "failed to update cart line")
		}
		line = owned

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrement cart item")
	}

	return line, nil
}

// RemoveItem deletes a line owned by the customer.
func (srv *cartService) RemoveItem(ctx context.Context, customerID, lineID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.NewCartRepository()

		if _, err := loadOwnedCartLine(ctx, cartRepo, customerID, lineID); err != nil {
			return err
		}

		return errors.Wrap(cartRepo.Delete(ctx, lineID), "failed to delete cart line")
	})
	if err != nil {
		return errors.Wrap(err, "failed to remove cart item")
	}

	srv.log(ctx).Debug("Cart item removed", slog.Any("customerID", customerID), slog.Any("lineID", lineID))

	return nil
}

// addToCart increments the customer's line for the product or inserts one,
// refusing any quantity beyond the current stock.
func addToCart(ctx context.Context, repoFactory repository.RepositoryFactory, customerID, productID uuid.UUID, quantity int) (*entity.CartLine, error) {
	cartRepo := repoFactory.NewCartRepository()

	product, err := repoFactory.NewProductRepository().FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductUnavailable.WrapMessage("product cannot be added to the cart")
		}

		return nil, errors.Wrap(err, "failed to load product")
	}

	line, err := cartRepo.FindByCustomerAndProduct(ctx, customerID, productID)
	switch {
	case errors.Is(err, repository.ErrCartLineNotFound):
		if !product.CanSupply(quantity) {
			return nil, insufficientStock(product, quantity)
		}
		line = &entity.CartLine{
			CustomerID: customerID,
			ProductID:  productID,
			Quantity:   quantity,
		}
		line.Reprice(product.CurrentPrice)
		if err := cartRepo.Create(ctx, line); err != nil {
			if errors.Is(err, repository.ErrDuplicateCartLine) {
				return nil, domainerrors.ErrConflict.WrapMessage("cart changed concurrently, please retry")
			}

			return nil, errors.Wrap(err, "failed to create cart line")
		}
	case err != nil:
		return nil, errors.Wrap(err, "failed to load cart line")
	default:
		line.Quantity += quantity
		if !product.CanSupply(line.Quantity) {
			return nil, insufficientStock(product, line.Quantity)
		}
		line.Reprice(product.CurrentPrice)
		if err := cartRepo.UpdateQuantity(ctx, line); err != nil {
			return nil, errors.Wrap(err, "failed to update cart line")
		}
	}

	line.Product = product

	return line, nil
}

func loadOwnedCartLine(ctx context.Context, cartRepo repository.CartRepository, customerID, lineID uuid.UUID) (*entity.CartLine, error) {
	line, err := cartRepo.FindByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, repository.ErrCartLineNotFound) {
			return nil, domainerrors.ErrCartLineNotFound.WrapMessage("cart line not found")
		}

		return nil, errors.Wrap(err, "failed to load cart line")
	}
	if line.CustomerID != customerID {
		return nil, domainerrors.ErrCartLineOwnership.WrapMessage("cart line belongs to another customer")
	}

	return line, nil
}

func insufficientStock(product *entity.Product, requested int) error {
	return domainerrors.ErrInsufficientStock.WithDetails(
		fmt.Sprintf("%s: requested %d, available %d", product.Name, requested, product.StockQuantity),
	)
}
