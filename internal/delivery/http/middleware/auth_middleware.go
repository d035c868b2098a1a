package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc     service.TokenService
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, customerRepo repository.CustomerRepository, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, customerRepo: customerRepo, logger: logger}
}

// Authenticate validates the bearer access token and stores the principal in the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return domainerrors.ErrUnauthorized.WithDetails("authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || tokenString == "" {
			return domainerrors.ErrUnauthorized.WithDetails("authorization header must carry a bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected access token", slog.Any("error", err))

			return domainerrors.ErrUnauthorized.WithDetails("invalid or expired token")
		}

		role, ok := entity.ParseRole(claims.Role)
		if !ok {
			return domainerrors.ErrUnauthorized.WithDetails("token carries an unknown role")
		}

		deliverycontext.SetPrincipal(c, claims.CustomerID, role)

		return next(c)
	}
}

// RequireRole lets the request through when the principal's role is at least required.
// The role is read from the stored account rather than the token, so a demotion
// takes effect on the next request. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(required entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !entity.Authorize(deliverycontext.GetRole(c), required) {
				return domainerrors.ErrForbidden.WithDetails("requires role " + required.String())
			}

			customerID, ok := deliverycontext.GetCustomerID(c)
			if !ok {
				return domainerrors.ErrUnauthorized.WithDetails("missing principal")
			}

			customer, err := m.customerRepo.FindByID(c.Request().Context(), customerID)
			if err != nil {
				if errors.Is(err, repository.ErrCustomerNotFound) {
					return domainerrors.ErrUnauthorized.WithDetails("account no longer exists")
				}

				return errors.Wrap(err, "failed to load principal role")
			}

			if !entity.Authorize(customer.Role, required) {
				deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
					Warn("Token role is stale",
						slog.Any("customerID", customerID),
						slog.String("tokenRole", deliverycontext.GetRole(c).String()),
						slog.String("storedRole", customer.Role.String()),
					)

				return domainerrors.ErrForbidden.WithDetails("requires role " + required.String())
			}
			deliverycontext.SetPrincipal(c, customerID, customer.Role)

			return next(c)
		}
	}
}
