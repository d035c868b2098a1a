package repository

import "context"

// TransactionManager defines the interface for managing database transactions.
// This allows the use case layer to handle transactions without depending on a specific DB driver like GORM.
type TransactionManager interface {
	// Execute runs a function within a database transaction.
	// If the function returns an error or panics, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function must use the repositories handed out by the factory.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances that are bound to a specific transaction.
type RepositoryFactory interface {
	NewCustomerRepository() CustomerRepository
	NewCategoryRepository() CategoryRepository
	NewProductRepository() ProductRepository
	NewCartRepository() CartRepository
	NewOrderRepository() OrderRepository
	NewShippingAddressRepository() ShippingAddressRepository
	NewWishlistRepository() WishlistRepository
	NewRefreshTokenRepository() RefreshTokenRepository
}
