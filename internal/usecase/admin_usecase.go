package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateAdminInput defines a new staff account.
type CreateAdminInput struct {
	Email    string
	Username string
	Password string
	Role     entity.Role
}

// AdminUsecase defines back-office account management.
type AdminUsecase interface {
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
	ListCustomers(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Customer], error)

	// Super admin operations.
	ListAdmins(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Customer], error)
	CreateAdmin(ctx context.Context, input *CreateAdminInput) (*entity.Customer, error)
	ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role entity.Role) (*entity.Customer, error)
	// DeleteAdmin demotes the admin to a plain customer; accounts are never removed.
	DeleteAdmin(ctx context.Context, actorID, targetID uuid.UUID) error
}
