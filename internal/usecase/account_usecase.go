// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to open a customer account.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	PhoneNumber string
	Address     string
}

// LoginInput defines the data required for a customer to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RefreshTokenInput carries the refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token whose session should end.
type LogoutInput struct {
	RefreshToken string
}

// UpdateProfileInput lists the profile fields to change; nil leaves a field untouched.
type UpdateProfileInput struct {
	Email       *string
	Username    *string
	PhoneNumber *string
	Address     *string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// --- Output DTOs ---

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	Customer     *entity.Customer
}

// RefreshTokenOutput returns a new access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// AccountUsecase defines sign-up, sign-in, session and profile operations.
type AccountUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*entity.Customer, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input *LogoutInput) error

	GetProfile(ctx context.Context, customerID uuid.UUID) (*entity.Customer, error)
	UpdateProfile(ctx context.Context, customerID uuid.UUID, input *UpdateProfileInput) (*entity.Customer, error)
	// ChangePassword replaces the password and ends every session of the customer.
	ChangePassword(ctx context.Context, customerID uuid.UUID, input *ChangePasswordInput) error

	ListSessions(ctx context.Context, customerID uuid.UUID) ([]*entity.RefreshToken, error)
	RevokeSession(ctx context.Context, customerID, sessionID uuid.UUID) error
}
