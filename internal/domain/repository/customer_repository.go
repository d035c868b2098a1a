// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for customer persistence.
var (
	// ErrCustomerNotFound is returned when a customer is not found.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrDuplicateCustomer is returned when the email or username is already taken.
	ErrDuplicateCustomer = errors.New("customer already exists")
)

// CustomerRepository defines the interface for customer account persistence.
type CustomerRepository interface {
	// Create persists a new customer and fills in its generated fields.
	Create(ctx context.Context, customer *entity.Customer) error

	// FindByID retrieves a customer by ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// FindByEmail retrieves a customer by email address.
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)

	// FindByUsername retrieves a customer by username.
	FindByUsername(ctx context.Context, username string) (*entity.Customer, error)

	// UpdateProfile saves the editable profile fields (email, username, phone, address).
	UpdateProfile(ctx context.Context, customer *entity.Customer) error

	// UpdatePassword saves a new password hash and clears the first-login flag.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error

	// UpdateLoginState saves the attempt counter and lockout timestamps.
	UpdateLoginState(ctx context.Context, customer *entity.Customer) error

	// UpdateRole changes the role of a customer.
	UpdateRole(ctx context.Context, id uuid.UUID, role entity.Role) error

	// ListByRoles returns a page of customers holding one of the given roles, newest first.
	ListByRoles(ctx context.Context, roles []entity.Role, page entity.PageRequest) (*entity.Page[*entity.Customer], error)

	// CountByRole returns how many accounts hold the given role.
	CountByRole(ctx context.Context, role entity.Role) (int64, error)

	// AcquireSessionMutex row-locks the customer to serialize session creation.
	AcquireSessionMutex(ctx context.Context, id uuid.UUID) error
}
