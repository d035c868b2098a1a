// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"fmt"
	"strings"
	"unicode"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	hasher := &bcryptHasher{
		cost: bcrypt.DefaultCost,
		policy: config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        72,
			RequireUppercase: true,
			RequireLowercase: true,
			RequireNumbers:   true,
		},
	}

	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		hasher.cost = cfg.Auth.BcryptCost
	}
	if cfg != nil && cfg.PasswordStrength != nil {
		hasher.policy = *cfg.PasswordStrength
	}

	return hasher
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks the password against the configured policy and
// lists every unmet rule in the error details.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	var problems []string

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	length := len([]rune(password))
	if h.policy.MinLength > 0 && length < h.policy.MinLength {
		problems = append(problems, fmt.Sprintf("at least %d characters", h.policy.MinLength))
	}
	// bcrypt ignores everything past 72 bytes.
	if h.policy.MaxLength > 0 && (length > h.policy.MaxLength || len(password) > 72) {
		problems = append(problems, fmt.Sprintf("at most %d characters", h.policy.MaxLength))
	}
	if h.policy.RequireUppercase && !hasUpper {
		problems = append(problems, "an upper-case letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		problems = append(problems, "a lower-case letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		problems = append(problems, "a digit")
	}
	if h.policy.RequireSpecial && !hasSpecial {
		problems = append(problems, "a special character")
	}

	if len(problems) > 0 {
		return domainerrors.ErrPasswordStrength.WithDetails("password needs " + strings.Join(problems, ", "))
	}

	return nil
}
