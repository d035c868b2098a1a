package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const (
	recentOrdersLimit    = 5
	defaultAdminPageSize = 20
)

var staffRoles = []entity.Role{entity.RoleAdmin, entity.RoleSuperAdmin}

// adminService implements the AdminUsecase interface.
type adminService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	hasher       service.PasswordHasher
	logger       *slog.Logger
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	CustomerRepo repository.CustomerRepository
	ProductRepo  repository.ProductRepository
	OrderRepo    repository.OrderRepository
	Hasher       service.PasswordHasher
	Logger       *slog.Logger
}

// NewAdminService is the constructor for adminService.
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		txManager:    params.TxManager,
		customerRepo: params.CustomerRepo,
		productRepo:  params.ProductRepo,
		orderRepo:    params.OrderRepo,
		hasher:       params.Hasher,
		logger:       params.Logger,
	}
}

func (srv *adminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *adminService) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	customers, err := srv.customerRepo.CountByRole(ctx, entity.RoleCustomer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count customers")
	}

	products, err := srv.productRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count products")
	}

	orders, err := srv.orderRepo.Count(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count orders")
	}

	pending := entity.OrderStatusPending
	pendingOrders, err := srv.orderRepo.Count(ctx, &pending)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count pending orders")
	}

	recent, err := srv.orderRepo.List(ctx, entity.OrderFilter{
		Page: entity.PageRequest{Page: 1, PageSize: recentOrdersLimit},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list recent orders")
	}

	return &entity.DashboardStats{
		Customers:     customers,
		Products:      products,
		Orders:        orders,
		PendingOrders: pendingOrders,
		RecentOrders:  recent.Items,
	}, nil
}

func (srv *adminService) ListCustomers(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Customer], error) {
	result, err := srv.customerRepo.ListByRoles(ctx, []entity.Role{entity.RoleCustomer}, page.Normalize(defaultAdminPageSize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list customers")
	}

	return result, nil
}

func (srv *adminService) ListAdmins(ctx context.Context, page entity.PageRequest) (*entity.Page[*entity.Customer], error) {
	result, err := srv.customerRepo.ListByRoles(ctx, staffRoles, page.Normalize(defaultAdminPageSize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to list admins")
	}

	return result, nil
}

// CreateAdmin opens a staff account. The new admin must change the password on first login.
func (srv *adminService) CreateAdmin(ctx context.Context, input *usecase.CreateAdminInput) (*entity.Customer, error) {
	if !input.Role.IsStaff() {
		return nil, domainerrors.ErrInvalidRole.WithDetails("role must be admin or super_admin")
	}

	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email and username are required")
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	admin := &entity.Customer{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         input.Role,
		IsFirstLogin: true,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return createCustomer(ctx, repoFactory.NewCustomerRepository(), admin)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create admin")
	}

	srv.log(ctx).Info("Admin created", slog.Any("customerID", admin.ID), slog.String("role", admin.Role.String()))

	return admin, nil
}

// ChangeRole sets the role of another account. Nobody changes their own role
// and a super admin's role is never changed by someone else.
func (srv *adminService) ChangeRole(ctx context.Context, actorID, targetID uuid.UUID, role entity.Role) (*entity.Customer, error) {
	if !role.IsValid() {
		return nil, domainerrors.ErrInvalidRole.WithDetails(string(role))
	}
	if actorID == targetID {
		return nil, domainerrors.ErrRoleChangeForbidden.WrapMessage("cannot change own role")
	}

	var target *entity.Customer
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()

		customer, err := customerRepo.FindByID(ctx, targetID)
		if err != nil {
			return mapCustomerError(err)
		}
		if customer.Role == entity.RoleSuperAdmin {
			return domainerrors.ErrRoleChangeForbidden.WrapMessage("cannot change a super admin's role")
		}

		if err := customerRepo.UpdateRole(ctx, targetID, role); err != nil {
			return mapCustomerError(err)
		}
		if !role.IsStaff() {
			if err := repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByCustomerID(ctx, targetID); err != nil {
				return errors.Wrap(err, "failed to end sessions")
			}
		}

		customer.Role = role
		target = customer

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to change role")
	}

	srv.log(ctx).Info("Role changed",
		slog.Any("actorID", actorID),
		slog.Any("targetID", targetID),
		slog.String("role", role.String()),
	)

	return target, nil
}

// DeleteAdmin demotes an admin to customer and ends the admin's sessions.
func (srv *adminService) DeleteAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return domainerrors.ErrRoleChangeForbidden.WrapMessage("cannot delete own admin account")
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()

		customer, err := customerRepo.FindByID(ctx, targetID)
		if err != nil {
			return mapCustomerError(err)
		}

		switch customer.Role {
		case entity.RoleSuperAdmin:
			return domainerrors.ErrRoleChangeForbidden.WrapMessage("cannot delete a super admin")
		case entity.RoleAdmin:
		default:
			return domainerrors.ErrNotFound.WrapMessage("admin not found")
		}

		if err := customerRepo.UpdateRole(ctx, targetID, entity.RoleCustomer); err != nil {
			return mapCustomerError(err)
		}

		return errors.Wrap(
			repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByCustomerID(ctx, targetID),
			"failed to end sessions",
		)
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete admin")
	}

	srv.log(ctx).Info("Admin demoted", slog.Any("actorID", actorID), slog.Any("targetID", targetID))

	return nil
}
