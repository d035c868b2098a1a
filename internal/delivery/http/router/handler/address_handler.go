package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AddressHandlerParams holds dependencies for AddressHandler, injected by Fx.
type AddressHandlerParams struct {
	fx.In

	AddressUC usecase.AddressUsecase
	Logger    *slog.Logger
}

// AddressHandler manages saved shipping addresses.
type AddressHandler struct {
	addressUC usecase.AddressUsecase
	logger    *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler.
func NewAddressHandler(params AddressHandlerParams) *AddressHandler {
	return &AddressHandler{
		addressUC: params.AddressUC,
		logger:    params.Logger,
	}
}

type addressRequest struct {
	RecipientName string `json:"recipient_name" validate:"required,max=100"`
	Street        string `json:"street" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=100"`
	Region        string `json:"region" validate:"max=100"`
	PostalCode    string `json:"postal_code" validate:"required,max=20"`
	Phone         string `json:"phone" validate:"max=30"`
	IsPrimary     bool   `json:"is_primary"`
}

func (r *addressRequest) input() *usecase.AddressInput {
	return &usecase.AddressInput{
		RecipientName: r.RecipientName,
		Street:        r.Street,
		City:          r.City,
		Region:        r.Region,
		PostalCode:    r.PostalCode,
		Phone:         r.Phone,
		IsPrimary:     r.IsPrimary,
	}
}

func (h *AddressHandler) ListAddresses(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	addresses, err := h.addressUC.ListAddresses(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toSlice(addresses, toAddressResponse), "")
}

func (h *AddressHandler) CreateAddress(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	address, err := h.addressUC.CreateAddress(c.Request().Context(), customerID, req.input())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, toAddressResponse(address), "Address saved")
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	addressID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	address, err := h.addressUC.UpdateAddress(c.Request().Context(), customerID, addressID, req.input())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toAddressResponse(address), "Address updated")
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	addressID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.addressUC.DeleteAddress(c.Request().Context(), customerID, addressID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Address deleted")
}

func (h *AddressHandler) SetPrimaryAddress(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	addressID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	address, err := h.addressUC.SetPrimaryAddress(c.Request().Context(), customerID, addressID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toAddressResponse(address), "Primary address updated")
}
