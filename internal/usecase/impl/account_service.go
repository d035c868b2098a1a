// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"storefront/config"
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

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager         repository.TransactionManager
	customerRepo      repository.CustomerRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	publisher         service.EventPublisher
	maxActiveSessions int
	now               func() time.Time
	logger            *slog.Logger
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	CustomerRepo     repository.CustomerRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	Publisher        service.EventPublisher
	Config           *config.Config
	Logger           *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &accountService{
		txManager:         params.TxManager,
		customerRepo:      params.CustomerRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		publisher:         params.Publisher,
		maxActiveSessions: maxActiveSessions,
		now:               time.Now,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register opens a customer account.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Customer, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if email == "" || username == "" {
		return nil, domainerrors.ErrValidationFailed.WithDetails("email and username are required")
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// Hash outside the transaction; bcrypt is CPU-bound.
	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	customer := &entity.Customer{
		Email:        email,
		Username:     username,
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		Address:      strings.TrimSpace(input.Address),
		PasswordHash: passwordHash,
		Role:         entity.RoleCustomer,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return createCustomer(ctx, repoFactory.NewCustomerRepository(), customer)
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.publishAccountEvent(ctx, service.EventAccountRegistered, customer)
	srv.log(ctx).Info("Customer registered", slog.Any("customerID", customer.ID))

	return customer, nil
}

// Login verifies credentials, applies the escalating lockout and opens a session.
func (srv *accountService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Debug("Starting login", slog.String("email", email))

	customer, err := srv.customerRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load customer for login")
	}

	now := srv.now()
	if customer.IsLocked(now) {
		srv.log(ctx).Warn("Login refused for locked account", slog.Any("customerID", customer.ID))

		return nil, accountLocked(customer.LockRemaining(now))
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, customer.PasswordHash) {
		return nil, srv.recordFailedLogin(ctx, customer.ID)
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(customer.ID, customer.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		if err := customerRepo.AcquireSessionMutex(ctx, customer.ID); err != nil {
			return errors.Wrap(err, "failed to lock customer row")
		}

		current, err := customerRepo.FindByID(ctx, customer.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload customer")
		}
		// A concurrent failure may have locked the account meanwhile.
		if current.IsLocked(now) {
			return accountLocked(current.LockRemaining(now))
		}

		if srv.maxActiveSessions > 0 {
			activeSessions, err := refreshRepo.CountActiveSessionsByCustomerID(ctx, customer.ID)
			if err != nil {
				return errors.Wrap(err, "failed to count active sessions")
			}
			if activeSessions >= srv.maxActiveSessions {
				return errors.Wrap(domainerrors.ErrSessionLimitExceeded, "active session limit exceeded")
			}
		}

		current.RegisterSuccessfulLogin(now)
		if err := customerRepo.UpdateLoginState(ctx, current); err != nil {
			return errors.Wrap(err, "failed to save login state")
		}

		if err := refreshRepo.CreateRefreshToken(ctx, &entity.RefreshToken{
			CustomerID: customer.ID,
			TokenHash:  srv.tokenService.HashToken(refreshToken),
			ExpiresAt:  now.Add(srv.tokenService.GetRefreshTokenDuration()),
		}); err != nil {
			return errors.Wrap(err, "failed to store refresh token")
		}

		customer = current

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute login transaction")
	}

	srv.log(ctx).Debug("Customer logged in", slog.Any("customerID", customer.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Customer:     customer,
	}, nil
}

// recordFailedLogin bumps the attempt counter under the row lock and returns the error to report.
func (srv *accountService) recordFailedLogin(ctx context.Context, customerID uuid.UUID) error {
	var lockFor time.Duration
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()

		if err := customerRepo.AcquireSessionMutex(ctx, customerID); err != nil {
			return errors.Wrap(err, "failed to lock customer row")
		}

		customer, err := customerRepo.FindByID(ctx, customerID)
		if err != nil {
			return errors.Wrap(err, "failed to reload customer")
		}

		lockFor = customer.RegisterFailedLogin(srv.now())

		return customerRepo.UpdateLoginState(ctx, customer)
	})
	if err != nil {
		return errors.Wrap(err, "failed to record failed login")
	}

	if lockFor > 0 {
		srv.log(ctx).Warn("Account locked after failed logins", slog.Any("customerID", customerID), slog.Duration("lockFor", lockFor))
	}

	return domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
}

// RefreshToken issues a new access token. The refresh token itself is not rotated.
func (srv *accountService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}

	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		if errors.IsAny(err, repository.ErrRefreshTokenNotFound, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenNotFound.WrapMessage("session not found or expired")
		}

		return nil, errors.Wrap(err, "failed to find refresh token")
	}

	customer, err := srv.customerRepo.FindByID(ctx, claims.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("session owner no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find customer")
	}

	// The role is re-read so a demotion takes effect on the next refresh.
	accessToken, _, err := srv.tokenService.GenerateTokens(customer.ID, customer.Role.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout ends the session identified by the refresh token.
func (srv *accountService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if _, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken)); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

func (srv *accountService) GetProfile(ctx context.Context, customerID uuid.UUID) (*entity.Customer, error) {
	customer, err := srv.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, mapCustomerError(err)
	}

	return customer, nil
}

// UpdateProfile changes contact details, keeping email and username unique.
func (srv *accountService) UpdateProfile(ctx context.Context, customerID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Customer, error) {
	var updated *entity.Customer
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		customerRepo := repoFactory.NewCustomerRepository()

		customer, err := customerRepo.FindByID(ctx, customerID)
		if err != nil {
			return mapCustomerError(err)
		}

		if input.Email != nil {
			email := normalizeEmail(*input.Email)
			if email == "" {
				return domainerrors.ErrValidationFailed.WithDetails("email must not be empty")
			}
			if email != customer.Email {
				if err := ensureEmailFree(ctx, customerRepo, email); err != nil {
					return err
				}
				customer.Email = email
			}
		}
		if input.Username != nil {
			username := strings.TrimSpace(*input.Username)
			if username == "" {
				return domainerrors.ErrValidationFailed.WithDetails("username must not be empty")
			}
			if username != customer.Username {
				if err := ensureUsernameFree(ctx, customerRepo, username); err != nil {
					return err
				}
				customer.Username = username
			}
		}
		if input.PhoneNumber != nil {
			customer.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
		}
		if input.Address != nil {
			customer.Address = strings.TrimSpace(*input.Address)
		}

		if err := customerRepo.UpdateProfile(ctx, customer); err != nil {
			return mapCustomerError(err)
		}
		updated = customer

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}

	return updated, nil
}

// ChangePassword replaces the password and signs the customer out everywhere.
func (srv *accountService) ChangePassword(ctx context.Context, customerID uuid.UUID, input *usecase.ChangePasswordInput) error {
	customer, err := srv.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return mapCustomerError(err)
	}

	if !srv.hasher.Check(input.CurrentPassword, customer.PasswordHash) {
		return domainerrors.ErrInvalidCredentials.WrapMessage("current password does not match")
	}
	if input.NewPassword == input.CurrentPassword {
		return domainerrors.ErrPasswordReused.WrapMessage("new password equals the current one")
	}
	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return err
	}

	passwordHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.NewCustomerRepository().UpdatePassword(ctx, customerID, passwordHash); err != nil {
			return mapCustomerError(err)
		}

		return errors.Wrap(
			repoFactory.NewRefreshTokenRepository().DeleteRefreshTokensByCustomerID(ctx, customerID),
			"failed to end sessions",
		)
	})
	if err != nil {
		return errors.Wrap(err, "failed to change password")
	}

	srv.publishAccountEvent(ctx, service.EventAccountPasswordChanged, customer)
	srv.log(ctx).Info("Password changed", slog.Any("customerID", customerID))

	return nil
}

func (srv *accountService) ListSessions(ctx context.Context, customerID uuid.UUID) ([]*entity.RefreshToken, error) {
	sessions, err := srv.refreshTokenRepo.FindRefreshTokensByCustomerID(ctx, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active sessions")
	}

	return sessions, nil
}

// RevokeSession ends one session after checking it belongs to the customer.
func (srv *accountService) RevokeSession(ctx context.Context, customerID, sessionID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.NewRefreshTokenRepository()

		token, err := refreshRepo.FindRefreshTokenByID(ctx, sessionID)
		if err != nil {
			if errors.IsAny(err, repository.ErrRefreshTokenNotFound, repository.ErrRefreshTokenExpired) {
				return domainerrors.ErrRefreshTokenNotFound.WrapMessage("session not found")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if token.CustomerID != customerID {
			return domainerrors.ErrRefreshTokenNotFound.WrapMessage("session not found")
		}

		return errors.Wrap(refreshRepo.DeleteRefreshToken(ctx, sessionID), "failed to delete refresh token")
	})
	if err != nil {
		return errors.Wrap(err, "failed to revoke session")
	}

	srv.log(ctx).Info("Session revoked", slog.Any("customerID", customerID), slog.Any("sessionID", sessionID))

	return nil
}

// publishAccountEvent announces a committed account change. Failures are logged, not returned.
func (srv *accountService) publishAccountEvent(ctx context.Context, eventType string, customer *entity.Customer) {
	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		CustomerID: customer.ID.String(),
		Email:      customer.Email,
		Username:   customer.Username,
		OccurredAt: srv.now().UTC(),
	}

	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event", slog.String("type", eventType), slog.Any("error", err))
	}
}

// createCustomer inserts the customer after checking email and username are free.
func createCustomer(ctx context.Context, customerRepo repository.CustomerRepository, customer *entity.Customer) error {
	if err := ensureEmailFree(ctx, customerRepo, customer.Email); err != nil {
		return err
	}
	if err := ensureUsernameFree(ctx, customerRepo, customer.Username); err != nil {
		return err
	}

	if err := customerRepo.Create(ctx, customer); err != nil {
		return mapCustomerError(err)
	}

	return nil
}

func ensureEmailFree(ctx context.Context, customerRepo repository.CustomerRepository, email string) error {
	_, err := customerRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domainerrors.ErrEmailTaken.WrapMessage(email)
	case errors.Is(err, repository.ErrCustomerNotFound):
		return nil
	default:
		return errors.Wrap(err, "failed to check email")
	}
}

func ensureUsernameFree(ctx context.Context, customerRepo repository.CustomerRepository, username string) error {
	_, err := customerRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domainerrors.ErrUsernameTaken.WrapMessage(username)
	case errors.Is(err, repository.ErrCustomerNotFound):
		return nil
	default:
		return errors.Wrap(err, "failed to check username")
	}
}

func accountLocked(remaining time.Duration) error {
	return domainerrors.ErrAccountLocked.WithDetails("try again in " + remaining.Round(time.Second).String())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapCustomerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrCustomerNotFound):
		return domainerrors.ErrCustomerNotFound.WrapMessage("customer not found")
	case errors.Is(err, repository.ErrDuplicateCustomer):
		return domainerrors.ErrConflict.WrapMessage("email or username already in use")
	default:
		return errors.Wrap(err, "customer operation failed")
	}
}
