package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// customerRepository implements the domain.CustomerRepository interface.
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository is the constructor for customerRepository.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

// Create persists a new customer and fills in its generated fields.
func (repo *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	customerM := fromCustomerDomain(customer)

	if err := repo.db.WithContext(ctx).Create(customerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateCustomer
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create customer")
	}

	customer.ID = customerM.ID
	customer.CreatedAt = customerM.CreatedAt
	customer.UpdatedAt = customerM.UpdatedAt

	return nil
}

// FindByID retrieves a customer by ID.
func (repo *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a customer by email address.
func (repo *customerRepository) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return repo.findOne(ctx, "email = ?", email)
}

// FindByUsername retrieves a customer by username.
func (repo *customerRepository) FindByUsername(ctx context.Context, username string) (*entity.Customer, error) {
	return repo.findOne(ctx, "username = ?", username)
}

func (repo *customerRepository) findOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var customerM model.CustomerModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&customerM).Error; err != nil {
		if isNotFound(err) {
			return nil, repository.ErrCustomerNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toCustomerDomain(&customerM), nil
}

// UpdateProfile saves the editable profile fields.
func (repo *customerRepository) UpdateProfile(ctx context.Context, customer *entity.Customer) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"email":        customer.Email,
			"username":     customer.Username,
			"phone_number": customer.PhoneNumber,
			"address":      customer.Address,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrDuplicateCustomer
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update customer profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// UpdatePassword saves a new password hash and clears the first-login flag.
func (repo *customerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":  passwordHash,
			"is_first_login": false,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update password")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// UpdateLoginState saves the attempt counter and lockout timestamps.
func (repo *customerRepository) UpdateLoginState(ctx context.Context, customer *entity.Customer) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"login_attempts":  customer.LoginAttempts,
			"last_attempt_at": customer.LastAttemptAt,
			"locked_until":    customer.LockedUntil,
			"last_login_at":   customer.LastLoginAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update login state")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// UpdateRole changes the role of a customer.
func (repo *customerRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entity.Role) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("id = ?", id).
		Update("role", string(role))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrCustomerNotFound
	}

	return nil
}

// ListByRoles returns a page of customers holding one of the given roles, newest first.
func (repo *customerRepository) ListByRoles(ctx context.Context, roles []entity.Role, page entity.PageRequest) (*entity.Page[*entity.Customer], error) {
	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role))
	}

	query := repo.db.WithContext(ctx).Model(&model.CustomerModel{}).Where("role IN ?", roleNames).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	var customerModels []*model.CustomerModel
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.PageSize).
		Find(&customerModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	customers := make([]*entity.Customer, 0, len(customerModels))
	for _, customerM := range customerModels {
		customers = append(customers, toCustomerDomain(customerM))
	}

	return &entity.Page[*entity.Customer]{
		Items:    customers,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// CountByRole returns how many accounts hold the given role.
func (repo *customerRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.CustomerModel{}).
		Where("role = ?", string(role)).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// AcquireSessionMutex row-locks the customer to serialize session creation.
func (repo *customerRepository) AcquireSessionMutex(ctx context.Context, id uuid.UUID) error {
	var customerM model.CustomerModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Where("id = ?", id).
		First(&customerM).Error; err != nil {
		if isNotFound(err) {
			return repository.ErrCustomerNotFound
		}

		return errors.WithStack(err)
	}

	return nil
}

// --- Mapper Functions ---

func toCustomerDomain(data *model.CustomerModel) *entity.Customer {
	if data == nil {
		return nil
	}

	return &entity.Customer{
		ID:            data.ID,
		Email:         data.Email,
		Username:      data.Username,
		PhoneNumber:   data.PhoneNumber,
		Address:       data.Address,
		PasswordHash:  data.PasswordHash,
		Role:          entity.Role(data.Role),
		LoginAttempts: data.LoginAttempts,
		LastAttemptAt: data.LastAttemptAt,
		LockedUntil:   data.LockedUntil,
		LastLoginAt:   data.LastLoginAt,
		IsFirstLogin:  data.IsFirstLogin,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromCustomerDomain(data *entity.Customer) *model.CustomerModel {
	if data == nil {
		return nil
	}

	return &model.CustomerModel{
		ID:            data.ID,
		Email:         data.Email,
		Username:      data.Username,
		PhoneNumber:   data.PhoneNumber,
		Address:       data.Address,
		PasswordHash:  data.PasswordHash,
		Role:          string(data.Role),
		LoginAttempts: data.LoginAttempts,
		LastAttemptAt: data.LastAttemptAt,
		LockedUntil:   data.LockedUntil,
		LastLoginAt:   data.LastLoginAt,
		IsFirstLogin:  data.IsFirstLogin,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
