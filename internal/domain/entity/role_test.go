package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		actor    Role
		required Role
		want     bool
	}{
		{"customer for customer action", RoleCustomer, RoleCustomer, true},
		{"customer for admin action", RoleCustomer, RoleAdmin, false},
		{"customer for super admin action", RoleCustomer, RoleSuperAdmin, false},
		{"admin for customer action", RoleAdmin, RoleCustomer, true},
		{"admin for admin action", RoleAdmin, RoleAdmin, true},
		{"admin for super admin action", RoleAdmin, RoleSuperAdmin, false},
		{"super admin for admin action", RoleSuperAdmin, RoleAdmin, true},
		{"super admin for super admin action", RoleSuperAdmin, RoleSuperAdmin, true},
		{"unknown actor", Role("user"), RoleCustomer, false},
		{"unknown requirement", RoleSuperAdmin, Role("root"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.actor, tt.required))
		})
	}
}

func TestRole_OrderIsTotal(t *testing.T) {
	roles := []Role{RoleCustomer, RoleAdmin, RoleSuperAdmin}

	for i, lower := range roles {
		for j, higher := range roles {
			assert.Equal(t, j >= i, higher.AtLeast(lower), "%s >= %s", higher, lower)
		}
	}
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	_, ok = ParseRole("user")
	assert.False(t, ok)

	assert.True(t, RoleAdmin.IsStaff())
	assert.False(t, RoleCustomer.IsStaff())
}
