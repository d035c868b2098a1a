// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pageQuery is the pagination part of a listing query string.
type pageQuery struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

func (q pageQuery) request() entity.PageRequest {
	return entity.PageRequest{Page: q.Page, PageSize: q.PageSize}
}

// currentCustomer returns the authenticated customer set by AuthMiddleware.
func currentCustomer(c echo.Context) (uuid.UUID, error) {
	customerID, ok := deliverycontext.GetCustomerID(c)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized.WithDetails("no authenticated customer")
	}

	return customerID, nil
}

// pathID parses a UUID path parameter.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails(name + ": must be a UUID")
	}

	return id, nil
}

// bindAndValidate binds the request into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return c.Validate(req)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
