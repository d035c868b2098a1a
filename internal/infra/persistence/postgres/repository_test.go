package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/testdb"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixtures struct {
	db       *gorm.DB
	customer *entity.Customer
	category *entity.Category
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()

	db := testdb.New(t)
	ctx := context.Background()

	customer := &entity.Customer{
		Email:        "ana@example.com",
		Username:     "ana",
		Address:      "Av. Siempre Viva 742",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
		IsFirstLogin: true,
	}
	require.NoError(t, NewCustomerRepository(db).Create(ctx, customer))

	category := &entity.Category{Name: "Shoes"}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))

	return &fixtures{db: db, customer: customer, category: category}
}

func (f *fixtures) product(t *testing.T, name, price string, stock int) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:          name,
		CurrentPrice:  decimal.RequireFromString(price),
		PreviousPrice: decimal.RequireFromString(price),
		CategoryID:    f.category.ID,
	}
	product.SetStock(stock)
	require.NoError(t, NewProductRepository(f.db).Create(context.Background(), product))

	return product
}

func TestCustomerRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewCustomerRepository(f.db)

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := repo.Create(ctx, &entity.Customer{
			Email:        "ana@example.com",
			Username:     "other",
			PasswordHash: "hash",
			Role:         entity.RoleCustomer,
		})
		assert.ErrorIs(t, err, repository.ErrDuplicateCustomer)
	})

	t.Run("find by email and username", func(t *testing.T) {
		byEmail, err := repo.FindByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, f.customer.ID, byEmail.ID)
		assert.True(t, byEmail.IsFirstLogin)

		byName, err := repo.FindByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, f.customer.ID, byName.ID)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrCustomerNotFound)
	})

	t.Run("login state round trip", func(t *testing.T) {
		customer, err := repo.FindByID(ctx, f.customer.ID)
		require.NoError(t, err)

		now := time.Now()
		customer.RegisterFailedLogin(now)
		customer.RegisterFailedLogin(now)
		require.NoError(t, repo.UpdateLoginState(ctx, customer))

		stored, err := repo.FindByID(ctx, f.customer.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.LoginAttempts)
		require.NotNil(t, stored.LockedUntil)
		assert.True(t, stored.IsLocked(now))

		stored.RegisterSuccessfulLogin(now)
		require.NoError(t, repo.UpdateLoginState(ctx, stored))

		reset, err := repo.FindByID(ctx, f.customer.ID)
		require.NoError(t, err)
		assert.Zero(t, reset.LoginAttempts)
		assert.Nil(t, reset.LockedUntil)
		assert.NotNil(t, reset.LastLoginAt)
	})

	t.Run("password update clears first login", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, f.customer.ID, "new-hash"))

		stored, err := repo.FindByID(ctx, f.customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", stored.PasswordHash)
		assert.False(t, stored.IsFirstLogin)
	})

	t.Run("list and count by role", func(t *testing.T) {
		admin := &entity.Customer{Email: "admin@example.com", Username: "admin", PasswordHash: "hash", Role: entity.RoleAdmin}
		require.NoError(t, repo.Create(ctx, admin))

		page, err := repo.ListByRoles(ctx, []entity.Role{entity.RoleAdmin, entity.RoleSuperAdmin}, entity.PageRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Items, 1)
		assert.Equal(t, admin.ID, page.Items[0].ID)

		count, err := repo.CountByRole(ctx, entity.RoleCustomer)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		require.NoError(t, repo.UpdateRole(ctx, admin.ID, entity.RoleCustomer))
		count, err = repo.CountByRole(ctx, entity.RoleCustomer)
		require.NoError(t, err)
		assert.EqualValues(t, 2, count)
	})
}

func TestProductRepository_DecrementStock(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewProductRepository(f.db)
	product := f.product(t, "Sneaker", "99.90", 3)

	ok, err := repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok, "only one unit left")

	ok, err = repo.DecrementStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.StockQuantity)
	assert.False(t, stored.InStock)

	require.NoError(t, repo.IncrementStock(ctx, product.ID, 4))
	stored, err = repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.StockQuantity)
	assert.True(t, stored.InStock)
}

func TestProductRepository_DecrementStockConcurrently(t *testing.T) {
	f := newFixtures(t)
	product := f.product(t, "Last pair", "10.00", 1)
	txManager := NewTransactionManager(f.db)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var decremented bool
			err := txManager.Execute(context.Background(), func(factory repository.RepositoryFactory) error {
				var err error
				decremented, err = factory.NewProductRepository().DecrementStock(context.Background(), product.ID, 1)

				return err
			})
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			if decremented {
				successes++
			} else {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)

	stored, err := NewProductRepository(f.db).FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.StockQuantity)
}

func TestProductRepository_ListAndSoftDelete(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewProductRepository(f.db)

	boots := f.product(t, "Leather Boots", "150.00", 2)
	f.product(t, "Running shoe", "80.00", 5)
	sandal := f.product(t, "Sandal", "25.00", 0)
	sandal.FlashSale = true
	require.NoError(t, repo.Update(ctx, sandal))

	page, err := repo.List(ctx, entity.ProductFilter{
		Query: "BOOT",
		Page:  entity.PageRequest{Page: 1, PageSize: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, boots.ID, page.Items[0].ID)

	page, err = repo.List(ctx, entity.ProductFilter{
		Sort:       entity.ProductSortPrice,
		Descending: true,
		Page:       entity.PageRequest{Page: 1, PageSize: 2},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Leather Boots", page.Items[0].Name)
	assert.Equal(t, "Running shoe", page.Items[1].Name)

	page, err = repo.List(ctx, entity.ProductFilter{FlashSale: true, Page: entity.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, sandal.ID, page.Items[0].ID)
	assert.False(t, page.Items[0].InStock)

	require.NoError(t, repo.SoftDelete(ctx, boots.ID))
	_, err = repo.FindByID(ctx, boots.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	inUse, err := NewCategoryRepository(f.db).CountProducts(ctx, f.category.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, inUse, "deleted products still reference the category")
}

func TestCategoryRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewCategoryRepository(f.db)

	err := repo.Create(ctx, &entity.Category{Name: "Shoes"})
	assert.ErrorIs(t, err, repository.ErrDuplicateCategory)

	bags := &entity.Category{Name: "Bags"}
	require.NoError(t, repo.Create(ctx, bags))

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Bags", categories[0].Name)

	bags.Description = "Totes and backpacks"
	require.NoError(t, repo.Update(ctx, bags))

	require.NoError(t, repo.Delete(ctx, bags.ID))
	assert.ErrorIs(t, repo.Delete(ctx, bags.ID), repository.ErrCategoryNotFound)

	t.Run("foreign keys are enforced", func(t *testing.T) {
		f.product(t, "Sneaker", "80.00", 1)
		assert.ErrorIs(t, repo.Delete(ctx, f.category.ID), domainerrors.ErrCategoryInUse)

		orphan := &entity.Product{
			Name:         "Orphan",
			CurrentPrice: decimal.RequireFromString("1.00"),
			CategoryID:   uuid.New(),
		}
		assert.ErrorIs(t, NewProductRepository(f.db).Create(ctx, orphan), repository.ErrCategoryNotFound)
	})
}

func TestCartRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewCartRepository(f.db)
	product := f.product(t, "Sneaker", "50.00", 5)

	line := &entity.CartLine{CustomerID: f.customer.ID, ProductID: product.ID, Quantity: 1}
	line.Reprice(product.CurrentPrice)
	require.NoError(t, repo.Create(ctx, line))

	duplicate := &entity.CartLine{CustomerID: f.customer.ID, ProductID: product.ID, Quantity: 1}
	duplicate.Reprice(product.CurrentPrice)
	assert.ErrorIs(t, repo.Create(ctx, duplicate), repository.ErrDuplicateCartLine)

	line.Quantity = 3
	line.Reprice(product.CurrentPrice)
	require.NoError(t, repo.UpdateQuantity(ctx, line))

	lines, err := repo.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("150.00").Equal(lines[0].TotalPrice))
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "Sneaker", lines[0].Product.Name)

	removed, err := repo.DeleteByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = repo.FindByID(ctx, line.ID)
	assert.ErrorIs(t, err, repository.ErrCartLineNotFound)
}

func TestOrderRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewOrderRepository(f.db)
	product := f.product(t, "Sneaker", "50.00", 5)

	order := &entity.Order{
		CustomerID:      f.customer.ID,
		Status:          entity.OrderStatusPending,
		Total:           decimal.RequireFromString("300.00"),
		ShippingFee:     decimal.RequireFromString("200.00"),
		ShippingAddress: f.customer.Address,
		PaymentMethod:   entity.PaymentMethodCashOnDelivery,
		PaymentStatus:   entity.PaymentStatusPending,
		Items: []*entity.OrderItem{
			{ProductID: product.ID, ProductName: product.Name, Quantity: 2, Price: product.CurrentPrice},
		},
	}
	require.NoError(t, repo.Create(ctx, order))
	require.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, decimal.RequireFromString("50.00").Equal(stored.Items[0].Price))
	assert.True(t, decimal.RequireFromString("300.00").Equal(stored.Total))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusAccepted, entity.PaymentStatusPending))
	err = repo.UpdateStatus(ctx, order.ID, entity.OrderStatusPending, entity.OrderStatusCanceled, entity.PaymentStatusPending)
	assert.ErrorIs(t, err, repository.ErrOrderStatusChanged)
	err = repo.UpdateStatus(ctx, uuid.New(), entity.OrderStatusPending, entity.OrderStatusAccepted, entity.PaymentStatusPending)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)

	pending := entity.OrderStatusPending
	count, err := repo.Count(ctx, &pending)
	require.NoError(t, err)
	assert.Zero(t, count)

	page, err := repo.List(ctx, entity.OrderFilter{CustomerID: &f.customer.ID, Page: entity.PageRequest{Page: 1, PageSize: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, entity.OrderStatusAccepted, page.Items[0].Status)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	product := f.product(t, "Sneaker", "50.00", 5)
	boom := errors.New("boom")

	err := NewTransactionManager(f.db).Execute(ctx, func(factory repository.RepositoryFactory) error {
		ok, err := factory.NewProductRepository().DecrementStock(ctx, product.ID, 5)
		require.NoError(t, err)
		require.True(t, ok)

		return boom
	})
	assert.ErrorIs(t, err, boom)

	stored, err := NewProductRepository(f.db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity)
}

func TestTransactionManager_RollsBackOnPanic(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	product := f.product(t, "Sneaker", "50.00", 5)

	assert.Panics(t, func() {
		_ = NewTransactionManager(f.db).Execute(ctx, func(factory repository.RepositoryFactory) error {
			_, _ = factory.NewProductRepository().DecrementStock(ctx, product.ID, 5)
			panic("unexpected")
		})
	})

	stored, err := NewProductRepository(f.db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.StockQuantity)
}

func TestAddressAndWishlistRepositories(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	addresses := NewShippingAddressRepository(f.db)

	home := &entity.ShippingAddress{CustomerID: f.customer.ID, RecipientName: "Ana", Street: "Main 1", City: "Lima", IsPrimary: true}
	office := &entity.ShippingAddress{CustomerID: f.customer.ID, RecipientName: "Ana", Street: "Office 9", City: "Lima"}
	require.NoError(t, addresses.Create(ctx, home))
	require.NoError(t, addresses.Create(ctx, office))

	require.NoError(t, addresses.ClearPrimary(ctx, f.customer.ID))
	office.IsPrimary = true
	require.NoError(t, addresses.Update(ctx, office))

	primary, err := addresses.FindPrimary(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, office.ID, primary.ID)

	list, err := addresses.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, office.ID, list[0].ID)

	wishlist := NewWishlistRepository(f.db)
	product := f.product(t, "Sneaker", "50.00", 5)
	require.NoError(t, wishlist.Add(ctx, &entity.WishlistItem{CustomerID: f.customer.ID, ProductID: product.ID}))
	require.NoError(t, wishlist.Add(ctx, &entity.WishlistItem{CustomerID: f.customer.ID, ProductID: product.ID}))

	items, err := wishlist.ListByCustomer(ctx, f.customer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sneaker", items[0].Product.Name)

	require.NoError(t, wishlist.Remove(ctx, f.customer.ID, product.ID))
	assert.ErrorIs(t, wishlist.Remove(ctx, f.customer.ID, product.ID), repository.ErrWishlistItemNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	f := newFixtures(t)
	ctx := context.Background()
	repo := NewRefreshTokenRepository(f.db)

	live := &entity.RefreshToken{CustomerID: f.customer.ID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)}
	expired := &entity.RefreshToken{CustomerID: f.customer.ID, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, repo.CreateRefreshToken(ctx, live))
	require.NoError(t, repo.CreateRefreshToken(ctx, expired))

	err := repo.CreateRefreshToken(ctx, &entity.RefreshToken{CustomerID: f.customer.ID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour)})
	assert.ErrorIs(t, err, domainerrors.ErrRefreshTokenInvalid)

	found, err := repo.FindRefreshTokenByHash(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, live.ID, found.ID)

	_, err = repo.FindRefreshTokenByHash(ctx, "expired")
	assert.ErrorIs(t, err, repository.ErrRefreshTokenExpired)

	count, err := repo.CountActiveSessionsByCustomerID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteRefreshTokenByHash(ctx, "live"))
	assert.ErrorIs(t, repo.DeleteRefreshToken(ctx, live.ID), repository.ErrRefreshTokenNotFound)
}
