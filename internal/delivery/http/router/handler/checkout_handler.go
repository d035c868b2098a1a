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

// CheckoutHandlerParams holds dependencies for CheckoutHandler, injected by Fx.
type CheckoutHandlerParams struct {
	fx.In

	CheckoutUC usecase.CheckoutUsecase
	Logger     *slog.Logger
}

// CheckoutHandler turns the cart into an order.
type CheckoutHandler struct {
	checkoutUC usecase.CheckoutUsecase
	logger     *slog.Logger
}

// NewCheckoutHandler is the constructor for CheckoutHandler.
func NewCheckoutHandler(params CheckoutHandlerParams) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutUC: params.CheckoutUC,
		logger:     params.Logger,
	}
}

type placeOrderRequest struct {
	AddressID *uuid.UUID `json:"address_id"`
}

// PlaceOrder answers 201 with the order, 422 for an empty cart, 409 with every
// stock shortfall, and 500 when the transaction failed.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	// An empty body ships to the default address.
	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.checkoutUC.PlaceOrder(c.Request().Context(), customerID, &usecase.PlaceOrderInput{AddressID: req.AddressID})
	if err != nil {
		return err
	}

	switch result.Failure {
	case usecase.CheckoutSucceeded:
		return response.Success(c, http.StatusCreated, toOrderResponse(result.Order), "Order placed")
	case usecase.FailureEmptyCart:
		return response.Error(c, http.StatusUnprocessableEntity, string(result.Failure), "Your cart is empty", "")
	case usecase.FailureStockShortfall:
		return response.ErrorWithData(c, http.StatusConflict, string(result.Failure),
			"Some items are no longer available in the requested quantity", "",
			map[string]any{"shortfalls": toSlice(result.Shortfalls, toShortfallResponse)},
		)
	default:
		return response.Error(c, http.StatusInternalServerError, string(usecase.FailureInternal),
			"The order could not be placed, please try again", "")
	}
}
