package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/config"
	httpmiddleware "storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router"
	"storefront/internal/delivery/http/router/handler"
	sharedmiddleware "storefront/internal/delivery/middleware"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/cache"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/infra/persistence/testdb"
	"storefront/internal/infra/pubsub"
	"storefront/internal/infra/qrcode"
	"storefront/internal/infra/storage"
	"storefront/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

const testPassword = "Password123"

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth:     &config.AuthConfig{BcryptCost: 4, AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour},
		Checkout: &config.CheckoutConfig{ShippingFee: "200.00"},
		Catalog:  &config.CatalogConfig{ProductPageSize: 20, CategoryPageSize: 10, CategoryCacheTTL: time.Minute},
		Storage:  &config.StorageConfig{MaxUploadSize: 1 << 10},
		Metrics:  &config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	cfg.HTTP.MaxRequestBodySize = "1M"
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

// newTestServer wires every layer over a throwaway SQLite database.
func newTestServer(t *testing.T) (*echo.Echo, func(email string, role entity.Role)) {
	t.Helper()

	cfg := newTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := testdb.New(t)

	txManager := postgres.NewTransactionManager(db)
	customers := postgres.NewCustomerRepository(db)
	categories := postgres.NewCategoryRepository(db)
	products := postgres.NewProductRepository(db)
	carts := postgres.NewCartRepository(db)
	orders := postgres.NewOrderRepository(db)
	addresses := postgres.NewShippingAddressRepository(db)
	wishlists := postgres.NewWishlistRepository(db)
	refreshTokens := postgres.NewRefreshTokenRepository(db)

	hasher := auth.NewBcryptHasher(cfg)
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	publisher := pubsub.NewNoopPublisher(logger)
	registry := metrics.NewRegistry()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	cartUC, err := impl.NewCartService(impl.CartServiceParams{TxManager: txManager, CartRepo: carts, Config: cfg, Logger: logger})
	require.NoError(t, err)
	checkoutUC, err := impl.NewCheckoutService(impl.CheckoutServiceParams{
		TxManager:    txManager,
		CustomerRepo: customers,
		AddressRepo:  addresses,
		Publisher:    publisher,
		Metrics:      registry,
		Config:       cfg,
		Logger:       logger,
	})
	require.NoError(t, err)

	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		TxManager:        txManager,
		CustomerRepo:     customers,
		RefreshTokenRepo: refreshTokens,
		Hasher:           hasher,
		TokenService:     tokens,
		Publisher:        publisher,
		Config:           cfg,
		Logger:           logger,
	})
	catalogUC := impl.NewCatalogService(impl.CatalogServiceParams{
		TxManager:    txManager,
		CategoryRepo: categories,
		ProductRepo:  products,
		Cache:        cache.NewNoopCatalogCache(),
		Media:        storage.NewBlobMediaStore(bucket),
		Config:       cfg,
		Logger:       logger,
	})
	orderUC := impl.NewOrderService(impl.OrderServiceParams{TxManager: txManager, OrderRepo: orders, QRCode: qrcode.NewQRCodeService(cfg), Config: cfg, Logger: logger})
	addressUC := impl.NewAddressService(impl.AddressServiceParams{TxManager: txManager, AddressRepo: addresses, Logger: logger})
	wishlistUC := impl.NewWishlistService(impl.WishlistServiceParams{TxManager: txManager, WishlistRepo: wishlists, ProductRepo: products, Logger: logger})
	adminUC := impl.NewAdminService(impl.AdminServiceParams{TxManager: txManager, CustomerRepo: customers, ProductRepo: products, OrderRepo: orders, Hasher: hasher, Logger: logger})

	e := NewEcho(HTTPParams{
		Config:              cfg,
		Logger:              logger,
		Metrics:             registry,
		RequestIDMiddleware: sharedmiddleware.NewRequestIDMiddleware(logger),
		LoggerMiddleware:    sharedmiddleware.NewLoggerMiddleware(logger, cfg),
		ErrorMiddleware:     httpmiddleware.NewErrorMiddleware(logger),
		RouterParams: router.RouterParams{
			Config:          cfg,
			Metrics:         registry,
			AuthMiddleware:  httpmiddleware.NewAuthMiddleware(tokens, customers, logger),
			AuthHandler:     handler.NewAuthHandler(handler.AuthHandlerParams{AccountUC: accountUC, Logger: logger}),
			AccountHandler:  handler.NewAccountHandler(handler.AccountHandlerParams{AccountUC: accountUC, Logger: logger}),
			CatalogHandler:  handler.NewCatalogHandler(handler.CatalogHandlerParams{CatalogUC: catalogUC, Logger: logger}),
			CartHandler:     handler.NewCartHandler(handler.CartHandlerParams{CartUC: cartUC, Logger: logger}),
			CheckoutHandler: handler.NewCheckoutHandler(handler.CheckoutHandlerParams{CheckoutUC: checkoutUC, Logger: logger}),
			OrderHandler:    handler.NewOrderHandler(handler.OrderHandlerParams{OrderUC: orderUC, Logger: logger}),
			AddressHandler:  handler.NewAddressHandler(handler.AddressHandlerParams{AddressUC: addressUC, Logger: logger}),
			WishlistHandler: handler.NewWishlistHandler(handler.WishlistHandlerParams{WishlistUC: wishlistUC, Logger: logger}),
			AdminHandler:    handler.NewAdminHandler(handler.AdminHandlerParams{AdminUC: adminUC, Logger: logger}),
		},
	})

	seedStaff := func(email string, role entity.Role) {
		hash, err := hasher.Hash(testPassword)
		require.NoError(t, err)
		require.NoError(t, customers.Create(context.Background(), &entity.Customer{
			Email:        email,
			Username:     email,
			PasswordHash: hash,
			Role:         role,
		}))
	}

	return e, seedStaff
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func call(t *testing.T, e *echo.Echo, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get(echo.HeaderContentType) != "image/png" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}

	return rec.Code, env
}

func login(t *testing.T, e *echo.Echo, email string) string {
	t.Helper()

	status, env := call(t, e, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out.AccessToken
}

func dataID(t *testing.T, env envelope) string {
	t.Helper()

	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	return out.ID
}

func TestServer_PlaceOrderFlow(t *testing.T) {
	e, seedStaff := newTestServer(t)
	seedStaff("boss@example.com", entity.RoleAdmin)
	adminToken := login(t, e, "boss@example.com")

	status, env := call(t, e, http.MethodPost, "/admin/categories", adminToken, map[string]string{"name": "Pantry"})
	require.Equal(t, http.StatusCreated, status)
	categoryID := dataID(t, env)

	status, env = call(t, e, http.MethodPost, "/admin/products", adminToken, map[string]any{
		"name":           "Rice",
		"current_price":  "50.00",
		"stock_quantity": 3,
		"category_id":    categoryID,
	})
	require.Equal(t, http.StatusCreated, status)
	productID := dataID(t, env)

	status, _ = call(t, e, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"username": "ana",
		"password": testPassword,
		"address":  "1 Main St",
	})
	require.Equal(t, http.StatusCreated, status)
	token := login(t, e, "ana@example.com")

	status, env = call(t, e, http.MethodPost, "/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EMPTY_CART", env.Error.Code)

	status, env = call(t, e, http.MethodPost, "/cart/items", token, map[string]any{"product_id": productID, "quantity": 4})
	assert.Equal(t, http.StatusConflict, status, "the cart refuses more than is in stock")

	status, _ = call(t, e, http.MethodPost, "/cart/items", token, map[string]any{"product_id": productID, "quantity": 3})
	require.Equal(t, http.StatusCreated, status)

	// Stock drops after the item went into the cart.
	status, _ = call(t, e, http.MethodPut, "/admin/products/"+productID, adminToken, map[string]any{"stock_quantity": 2})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, e, http.MethodPost, "/checkout", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "STOCK_SHORTFALL", env.Error.Code)
	assert.Contains(t, string(env.Data), `"available":2`)
	assert.Contains(t, string(env.Data), `"requested":3`)

	status, env = call(t, e, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	var cart struct {
		Lines []struct {
			ID string `json:"id"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Lines, 1)

	status, _ = call(t, e, http.MethodPost, "/cart/items/"+cart.Lines[0].ID+"/decrement", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, e, http.MethodPost, "/checkout", token, nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, string(env.Data), `"total":"300.00"`)
	assert.Contains(t, string(env.Data), `"shipping_address":"1 Main St"`)
	orderID := dataID(t, env)

	status, env = call(t, e, http.MethodGet, "/catalog/products/"+productID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"stock_quantity":0`)

	status, env = call(t, e, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Empty(t, cart.Lines)

	status, _ = call(t, e, http.MethodGet, "/orders/"+orderID+"/qrcode", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = call(t, e, http.MethodPut, "/admin/orders/"+orderID+"/status", adminToken, map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"status":"accepted"`)
}

func TestServer_AccessControl(t *testing.T) {
	e, seedStaff := newTestServer(t)
	seedStaff("admin@example.com", entity.RoleAdmin)
	seedStaff("root@example.com", entity.RoleSuperAdmin)

	status, _ := call(t, e, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	adminToken := login(t, e, "admin@example.com")
	status, _ = call(t, e, http.MethodGet, "/admin/dashboard", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := call(t, e, http.MethodGet, "/admin/admins", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, env.Success)

	rootToken := login(t, e, "root@example.com")
	status, _ = call(t, e, http.MethodGet, "/admin/admins", rootToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = call(t, e, http.MethodPost, "/checkout", rootToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	e, _ := newTestServer(t)

	status, env := call(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}
