package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockoutDuration(t *testing.T) {
	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, 0},
		{1, 0},
		{2, 3 * time.Minute},
		{3, 3 * time.Minute},
		{4, 5 * time.Minute},
		{5, 5 * time.Minute},
		{6, 15 * time.Minute},
		{10, 15 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LockoutDuration(tt.attempts), "attempts=%d", tt.attempts)
	}
}

func TestCustomer_FailedLoginsEscalate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Customer{Role: RoleCustomer}

	assert.Equal(t, time.Duration(0), c.RegisterFailedLogin(now))
	assert.False(t, c.IsLocked(now))

	assert.Equal(t, 3*time.Minute, c.RegisterFailedLogin(now))
	assert.True(t, c.IsLocked(now.Add(2*time.Minute)))
	assert.False(t, c.IsLocked(now.Add(3*time.Minute)))
	assert.Equal(t, time.Minute, c.LockRemaining(now.Add(2*time.Minute)))

	c.RegisterFailedLogin(now)
	assert.Equal(t, 5*time.Minute, c.RegisterFailedLogin(now))
	c.RegisterFailedLogin(now)
	assert.Equal(t, 15*time.Minute, c.RegisterFailedLogin(now))
	assert.Equal(t, 6, c.LoginAttempts)
}

func TestCustomer_SuccessfulLoginResets(t *testing.T) {
	now := time.Now()
	c := &Customer{Role: RoleCustomer}
	c.RegisterFailedLogin(now)
	c.RegisterFailedLogin(now)

	c.RegisterSuccessfulLogin(now)

	assert.Zero(t, c.LoginAttempts)
	assert.Nil(t, c.LockedUntil)
	assert.False(t, c.IsLocked(now))
	assert.NotNil(t, c.LastLoginAt)
}

func TestCustomer_CanPlaceOrders(t *testing.T) {
	assert.True(t, (&Customer{Role: RoleCustomer}).CanPlaceOrders())
	assert.False(t, (&Customer{Role: RoleAdmin}).CanPlaceOrders())
	assert.False(t, (&Customer{Role: RoleSuperAdmin}).CanPlaceOrders())
}
