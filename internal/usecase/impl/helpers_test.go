package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/persistence/postgres"
	"storefront/internal/infra/persistence/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "Password123"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      4,
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		},
		Checkout: &config.CheckoutConfig{ShippingFee: "200.00"},
		Catalog: &config.CatalogConfig{
			ProductPageSize:  20,
			CategoryPageSize: 10,
			CategoryCacheTTL: 5 * time.Minute,
		},
		Storage: &config.StorageConfig{MaxUploadSize: 1 << 10},
	}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

// testEnv wires real repositories over a throwaway SQLite database.
type testEnv struct {
	db            *gorm.DB
	cfg           *config.Config
	txManager     repository.TransactionManager
	customers     repository.CustomerRepository
	categories    repository.CategoryRepository
	products      repository.ProductRepository
	carts         repository.CartRepository
	orders        repository.OrderRepository
	addresses     repository.ShippingAddressRepository
	wishlists     repository.WishlistRepository
	refreshTokens repository.RefreshTokenRepository
	hasher        service.PasswordHasher
	category      *entity.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	cfg := newTestConfig()

	env := &testEnv{
		db:            db,
		cfg:           cfg,
		txManager:     postgres.NewTransactionManager(db),
		customers:     postgres.NewCustomerRepository(db),
		categories:    postgres.NewCategoryRepository(db),
		products:      postgres.NewProductRepository(db),
		carts:         postgres.NewCartRepository(db),
		orders:        postgres.NewOrderRepository(db),
		addresses:     postgres.NewShippingAddressRepository(db),
		wishlists:     postgres.NewWishlistRepository(db),
		refreshTokens: postgres.NewRefreshTokenRepository(db),
		hasher:        auth.NewBcryptHasher(cfg),
	}

	env.category = &entity.Category{Name: "Groceries"}
	require.NoError(t, env.categories.Create(context.Background(), env.category))

	return env
}

func (env *testEnv) customer(t *testing.T, role entity.Role, address string) *entity.Customer {
	t.Helper()

	hash, err := env.hasher.Hash(testPassword)
	require.NoError(t, err)

	suffix := uuid.NewString()[:8]
	customer := &entity.Customer{
		Email:        "user-" + suffix + "@example.com",
		Username:     "user-" + suffix,
		Address:      address,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, env.customers.Create(context.Background(), customer))

	return customer
}

func (env *testEnv) product(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:          name,
		CurrentPrice:  decimal.RequireFromString(price),
		PreviousPrice: decimal.RequireFromString(price),
		CategoryID:    env.category.ID,
	}
	product.SetStock(stock)
	require.NoError(t, env.products.Create(context.Background(), product))

	return product
}

func (env *testEnv) cartLine(t *testing.T, customerID uuid.UUID, product *entity.Product, quantity int) *entity.CartLine {
	t.Helper()

	line := &entity.CartLine{
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   quantity,
	}
	line.Reprice(product.CurrentPrice)
	require.NoError(t, env.carts.Create(context.Background(), line))

	return line
}

func (env *testEnv) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	product, err := env.products.FindByID(context.Background(), productID)
	require.NoError(t, err)

	return product.StockQuantity
}
