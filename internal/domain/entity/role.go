// Package entity contains the core business objects of the project.
package entity

// Role represents the authorization level of a customer account.
// Roles are totally ordered: customer < admin < super_admin.
type Role string

const (
	// RoleCustomer is the default role of a shopper.
	RoleCustomer Role = "customer"
	// RoleAdmin can manage the catalog and orders.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin can additionally manage administrators and roles.
	RoleSuperAdmin Role = "super_admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// rank places the role in the hierarchy; unknown roles rank below every valid role.
func (r Role) rank() int {
	switch r {
	case RoleCustomer:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	return r.rank() > 0
}

// AtLeast reports whether r is equal to or above other in the hierarchy.
func (r Role) AtLeast(other Role) bool {
	return r.IsValid() && r.rank() >= other.rank()
}

// IsStaff reports whether the role grants back-office access.
func (r Role) IsStaff() bool {
	return r.AtLeast(RoleAdmin)
}

// Authorize is the single authorization policy: an actor may perform an action
// requiring the given role when its own role is at least that high.
func Authorize(actor, required Role) bool {
	if !required.IsValid() {
		return false
	}

	return actor.AtLeast(required)
}

// ParseRole converts a string into a Role, reporting whether it is valid.
func ParseRole(s string) (Role, bool) {
	role := Role(s)

	return role, role.IsValid()
}
