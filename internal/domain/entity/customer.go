package entity

import (
	"time"

	"github.com/google/uuid"
)

// Failed-login thresholds and the lock each one imposes.
// Checked from the highest threshold down.
var lockoutSteps = []struct {
	attempts int
	lockFor  time.Duration
}{
	{attempts: 6, lockFor: 15 * time.Minute},
	{attempts: 4, lockFor: 5 * time.Minute},
	{attempts: 2, lockFor: 3 * time.Minute},
}

// Customer is an account of the storefront. Staff accounts are customers with a higher role.
type Customer struct {
	ID            uuid.UUID
	Email         string
	Username      string
	PhoneNumber   string
	Address       string
	PasswordHash  string
	Role          Role
	LoginAttempts int
	LastAttemptAt *time.Time
	LockedUntil   *time.Time
	LastLoginAt   *time.Time
	IsFirstLogin  bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LockoutDuration returns how long an account stays locked after the given
// number of consecutive failed logins. Zero means no lock.
func LockoutDuration(attempts int) time.Duration {
	for _, step := range lockoutSteps {
		if attempts >= step.attempts {
			return step.lockFor
		}
	}

	return 0
}

// IsLocked reports whether the account is locked at the given time.
func (c *Customer) IsLocked(now time.Time) bool {
	return c.LockedUntil != nil && now.Before(*c.LockedUntil)
}

// LockRemaining returns the time left on an active lock.
func (c *Customer) LockRemaining(now time.Time) time.Duration {
	if !c.IsLocked(now) {
		return 0
	}

	return c.LockedUntil.Sub(now)
}

// RegisterFailedLogin records a failed attempt and applies the escalating lock.
// It returns the lock duration applied, zero when the account stays open.
func (c *Customer) RegisterFailedLogin(now time.Time) time.Duration {
	c.LoginAttempts++
	c.LastAttemptAt = &now

	lockFor := LockoutDuration(c.LoginAttempts)
	if lockFor > 0 {
		until := now.Add(lockFor)
		c.LockedUntil = &until
	}

	return lockFor
}

// RegisterSuccessfulLogin resets the attempt counter and clears any lock.
func (c *Customer) RegisterSuccessfulLogin(now time.Time) {
	c.LoginAttempts = 0
	c.LastAttemptAt = &now
	c.LastLoginAt = &now
	c.LockedUntil = nil
}

// CanPlaceOrders reports whether the account may check out. Only plain customers shop.
func (c *Customer) CanPlaceOrders() bool {
	return c.Role == RoleCustomer
}
