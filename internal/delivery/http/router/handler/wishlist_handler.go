package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// WishlistHandlerParams holds dependencies for WishlistHandler, injected by Fx.
type WishlistHandlerParams struct {
	fx.In

	WishlistUC usecase.WishlistUsecase
	Logger     *slog.Logger
}

type addWishlistRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type WishlistHandler struct {
	wishlistUC usecase.WishlistUsecase
	logger     *slog.Logger
}

// NewWishlistHandler is the constructor for WishlistHandler.
func NewWishlistHandler(params WishlistHandlerParams) *WishlistHandler {
	return &WishlistHandler{
		wishlistUC: params.WishlistUC,
		logger:     params.Logger,
	}
}

func (h *WishlistHandler) ListWishlist(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	items, err := h.wishlistUC.ListWishlist(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toSlice(items, toWishlistItemResponse), "")
}

func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req addWishlistRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.wishlistUC.AddToWishlist(c.Request().Context(), customerID, req.ProductID); err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, nil, "Added to wishlist")
}

func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	if err := h.wishlistUC.RemoveFromWishlist(c.Request().Context(), customerID, productID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Removed from wishlist")
}

// MoveToCart adds one unit to the cart and drops the wishlist entry.
func (h *WishlistHandler) MoveToCart(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}

	line, err := h.wishlistUC.MoveToCart(c.Request().Context(), customerID, productID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCartLineResponse(line), "Moved to cart")
}
