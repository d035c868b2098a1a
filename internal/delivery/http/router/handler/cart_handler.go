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

// CartHandlerParams holds dependencies for CartHandler, injected by Fx.
type CartHandlerParams struct {
	fx.In

	CartUC usecase.CartUsecase
	Logger *slog.Logger
}

// CartHandler serves the signed-in customer's cart.
type CartHandler struct {
	cartUC usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(params CartHandlerParams) *CartHandler {
	return &CartHandler{
		cartUC: params.CartUC,
		logger: params.Logger,
	}
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=999"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	cart, err := h.cartUC.GetCart(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCartResponse(cart), "")
}

func (h *CartHandler) AddItem(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	line, err := h.cartUC.AddItem(c.Request().Context(), customerID, &usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, toCartLineResponse(line), "Added to cart")
}

func (h *CartHandler) IncrementItem(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	lineID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	line, err := h.cartUC.IncrementItem(c.Request().Context(), customerID, lineID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCartLineResponse(line), "")
}

// DecrementItem answers with no data when the line was removed.
func (h *CartHandler) DecrementItem(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	lineID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	line, err := h.cartUC.DecrementItem(c.Request().Context(), customerID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return response.Success(c, http.StatusOK, nil, "Removed from cart")
	}

	return response.Success(c, http.StatusOK, toCartLineResponse(line), "")
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	lineID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.cartUC.RemoveItem(c.Request().Context(), customerID, lineID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Removed from cart")
}
