package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// wishlistService implements the WishlistUsecase interface.
type wishlistService struct {
	txManager    repository.TransactionManager
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
	logger       *slog.Logger
}

// WishlistServiceParams holds dependencies for WishlistService, injected by Fx.
type WishlistServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	WishlistRepo repository.WishlistRepository
	ProductRepo  repository.ProductRepository
	Logger       *slog.Logger
}

// NewWishlistService is the constructor for wishlistService.
func NewWishlistService(params WishlistServiceParams) usecase.WishlistUsecase {
	return &wishlistService{
		txManager:    params.TxManager,
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
		logger:       params.Logger,
	}
}

func (srv *wishlistService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *wishlistService) ListWishlist(ctx context.Context, customerID uuid.UUID) ([]*entity.WishlistItem, error) {
	items, err := srv.wishlistRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wishlist")
	}

	return items, nil
}

func (srv *wishlistService) AddToWishlist(ctx context.Context, customerID, productID uuid.UUID) error {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return mapProductError(err)
	}

	if err := srv.wishlistRepo.Add(ctx, &entity.WishlistItem{
		CustomerID: customerID,
		ProductID:  productID,
	}); err != nil {
		return errors.Wrap(err, "failed to add to wishlist")
	}

	return nil
}

func (srv *wishlistService) RemoveFromWishlist(ctx context.Context, customerID, productID uuid.UUID) error {
	if err := srv.wishlistRepo.Remove(ctx, customerID, productID); err != nil {
		return mapWishlistError(err)
	}

	return nil
}

// MoveToCart puts one unit in the cart and drops the wishlist entry in one transaction.
func (srv *wishlistService) MoveToCart(ctx context.Context, customerID, productID uuid.UUID) (*entity.CartLine, error) {
	var line *entity.CartLine
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewWishlistRepository().Remove(ctx, customerID, productID); err != nil {
			return mapWishlistError(err)
		}

		added, err := addToCart(ctx, repoFactory, customerID, productID, 1)
		if err != nil {
			return err
		}
		line = added

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to move wishlist item to cart")
	}

	srv.log(ctx).Debug("Wishlist item moved to cart", slog.Any("customerID", customerID), slog.Any("productID", productID))

	return line, nil
}

func mapWishlistError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrWishlistItemNotFound):
		return domainerrors.ErrWishlistItemNotFound.WrapMessage("product is not in the wishlist")
	default:
		return errors.Wrap(err, "wishlist operation failed")
	}
}
