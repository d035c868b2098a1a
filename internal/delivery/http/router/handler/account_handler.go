package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves the signed-in customer's profile and sessions.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

type updateProfileRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Username    *string `json:"username" validate:"omitempty,max=64"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

func (h *AccountHandler) GetProfile(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	customer, err := h.accountUC.GetProfile(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCustomerResponse(customer), "")
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	customer, err := h.accountUC.UpdateProfile(c.Request().Context(), customerID, &usecase.UpdateProfileInput{
		Email:       req.Email,
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCustomerResponse(customer), "Profile updated")
}

// ChangePassword ends every session; the client has to log in again.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accountUC.ChangePassword(c.Request().Context(), customerID, &usecase.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Password changed, please log in again")
}

func (h *AccountHandler) ListSessions(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	sessions, err := h.accountUC.ListSessions(c.Request().Context(), customerID)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toSlice(sessions, toSessionResponse), "")
}

func (h *AccountHandler) RevokeSession(c echo.Context) error {
	customerID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	sessionID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accountUC.RevokeSession(c.Request().Context(), customerID, sessionID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Session revoked")
}
