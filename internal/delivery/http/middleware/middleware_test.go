package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/infra/persistence/testdb"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixtures struct {
	echo      *echo.Echo
	auth      *AuthMiddleware
	customers repository.CustomerRepository
	issuer    func(uuid.UUID, entity.Role) string
}

// account stores a customer with the given role and returns it with a matching bearer header.
func (fx *authFixtures) account(t *testing.T, username string, role entity.Role) (*entity.Customer, string) {
	t.Helper()

	customer := &entity.Customer{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, fx.customers.Create(context.Background(), customer))

	return customer, "Bearer " + fx.issuer(customer.ID, role)
}

func newTestEcho(t *testing.T) *authFixtures {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(newDiscardLogger()).HandleHTTPError

	customers := postgres.NewCustomerRepository(testdb.New(t))
	fx := &authFixtures{
		echo:      e,
		auth:      NewAuthMiddleware(tokens, customers, newDiscardLogger()),
		customers: customers,
	}
	fx.issuer = func(customerID uuid.UUID, role entity.Role) string {
		access, _, err := tokens.GenerateTokens(customerID, role.String())
		require.NoError(t, err)

		return access
	}

	return fx
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) domainerrors.Response {
	t.Helper()

	var body domainerrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthMiddleware(t *testing.T) {
	fx := newTestEcho(t)

	whoami := func(c echo.Context) error {
		customerID, _ := deliverycontext.GetCustomerID(c)

		return c.String(http.StatusOK, customerID.String()+" "+deliverycontext.GetRole(c).String())
	}
	fx.echo.GET("/me", whoami, fx.auth.Authenticate)
	fx.echo.GET("/admin", whoami, fx.auth.Authenticate, fx.auth.RequireRole(entity.RoleAdmin))

	customer, customerBearer := fx.account(t, "cora", entity.RoleCustomer)
	super, superBearer := fx.account(t, "sam", entity.RoleSuperAdmin)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantID     uuid.UUID
	}{
		{name: "missing header", path: "/me", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", path: "/me", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "customer token", path: "/me", header: customerBearer, wantStatus: http.StatusOK, wantID: customer.ID},
		{name: "customer on admin route", path: "/admin", header: customerBearer, wantStatus: http.StatusForbidden},
		{name: "super admin on admin route", path: "/admin", header: superBearer, wantStatus: http.StatusOK, wantID: super.ID},
		{
			name:       "unknown account on admin route",
			path:       "/admin",
			header:     "Bearer " + fx.issuer(uuid.New(), entity.RoleAdmin),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			fx.echo.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), tt.wantID.String())
			} else {
				assert.False(t, decode(t, rec).Success)
			}
		})
	}
}

func TestAuthMiddleware_RequireRoleUsesStoredRole(t *testing.T) {
	fx := newTestEcho(t)
	fx.echo.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, deliverycontext.GetRole(c).String())
	}, fx.auth.Authenticate, fx.auth.RequireRole(entity.RoleAdmin))

	admin, bearer := fx.account(t, "ada", entity.RoleSuperAdmin)

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer)
		rec := httptest.NewRecorder()
		fx.echo.ServeHTTP(rec, req)

		return rec
	}

	require.NoError(t, fx.customers.UpdateRole(context.Background(), admin.ID, entity.RoleAdmin))
	rec := call()
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.RoleAdmin.String(), rec.Body.String(), "handlers see the stored role")

	require.NoError(t, fx.customers.UpdateRole(context.Background(), admin.ID, entity.RoleCustomer))
	rec = call()
	assert.Equal(t, http.StatusForbidden, rec.Code, "a demoted account loses access before its token expires")
}

func TestErrorMiddleware(t *testing.T) {
	e := newTestEcho(t).echo

	e.GET("/app", func(c echo.Context) error {
		return errors.Wrap(domainerrors.ErrProductNotFound.WithDetails("gone"), "lookup failed")
	})
	e.GET("/echo", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("database password is hunter2")
	})

	t.Run("domain error keeps its code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decode(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, domainerrors.ErrProductNotFound.ErrorCode(), body.Error.Code)
		assert.Equal(t, "gone", body.Error.Details)
	})

	t.Run("echo error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", decode(t, rec).Message)
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.Equal(t, domainerrors.ErrInternalError.ErrorCode(), decode(t, rec).Error.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
