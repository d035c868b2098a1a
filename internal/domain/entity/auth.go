package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a long-lived, authorized customer session.
// It is used to obtain a new access token after the old one expires, without requiring credentials.
type RefreshToken struct {
	ID         uuid.UUID // The unique ID for this specific refresh token record.
	CustomerID uuid.UUID // Links this session to the customer it belongs to.
	TokenHash  string    // SHA-256 hash of the raw refresh token.
	ExpiresAt  time.Time // When this refresh token becomes invalid.
	CreatedAt  time.Time // When this session was created (i.e., at login).
}

// IsExpired reports whether the session is no longer usable.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
