package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves order history to customers and fulfilment to staff.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

type listOrdersQuery struct {
	Status   string `query:"status"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type scanQRCodeRequest struct {
	Payload string `json:"payload" validate:"required"`
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var query pageQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.orderUC.ListCustomerOrders(c.Request().Context(), customerID, query.request())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toOrderResponse), "")
}

func (h *OrderHandler) GetMyOrder(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetCustomerOrder(c.Request().Context(), customerID, orderID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "")
}

// GetPickupQRCode answers with the PNG image itself.
func (h *OrderHandler) GetPickupQRCode(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.orderUC.GetPickupQRCode(c.Request().Context(), customerID, orderID)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// ListOrders lists every order, optionally filtered by ?status=.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	var query listOrdersQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	var status *entity.OrderStatus
	if query.Status != "" {
		s := entity.OrderStatus(query.Status)
		status = &s
	}

	page, err := h.orderUC.ListOrders(c.Request().Context(), status, entity.PageRequest{Page: query.Page, PageSize: query.PageSize})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toOrderResponse), "")
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), orderID, entity.OrderStatus(req.Status))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "Order status updated")
}

// ScanQRCode resolves a scanned pickup code to its order.
func (h *OrderHandler) ScanQRCode(c echo.Context) error {
	var req scanQRCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.ResolvePickupQRCode(c.Request().Context(), req.Payload)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "")
}
