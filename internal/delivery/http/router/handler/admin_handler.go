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

// AdminHandlerParams holds dependencies for AdminHandler, injected by Fx.
type AdminHandlerParams struct {
	fx.In

	AdminUC usecase.AdminUsecase
	Logger  *slog.Logger
}

// AdminHandler serves the back-office dashboard and staff management.
type AdminHandler struct {
	adminUC usecase.AdminUsecase
	logger  *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler.
func NewAdminHandler(params AdminHandlerParams) *AdminHandler {
	return &AdminHandler{
		adminUC: params.AdminUC,
		logger:  params.Logger,
	}
}

type createAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=customer admin super_admin"`
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	stats, err := h.adminUC.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toDashboardResponse(stats), "")
}

func (h *AdminHandler) ListCustomers(c echo.Context) error {
	var query pageQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.adminUC.ListCustomers(c.Request().Context(), query.request())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toCustomerResponse), "")
}

func (h *AdminHandler) ListAdmins(c echo.Context) error {
	var query pageQuery
	if err := c.Bind(&query); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed query")
	}

	page, err := h.adminUC.ListAdmins(c.Request().Context(), query.request())
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toPage(page, toCustomerResponse), "")
}

// CreateAdmin registers a staff account. The role defaults to admin.
func (h *AdminHandler) CreateAdmin(c echo.Context) error {
	var req createAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	role := entity.RoleAdmin
	if req.Role != "" {
		role = entity.Role(req.Role)
	}

	admin, err := h.adminUC.CreateAdmin(c.Request().Context(), &usecase.CreateAdminInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, toCustomerResponse(admin), "Admin created")
}

func (h *AdminHandler) ChangeRole(c echo.Context) error {
	actorID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.adminUC.ChangeRole(c.Request().Context(), actorID, targetID, entity.Role(req.Role))
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, toCustomerResponse(updated), "Role updated")
}

func (h *AdminHandler) DeleteAdmin(c echo.Context) error {
	actorID, err := currentCustomer(c)
	if err != nil {
		return err
	}

	targetID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.adminUC.DeleteAdmin(c.Request().Context(), actorID, targetID); err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, nil, "Admin removed")
}
