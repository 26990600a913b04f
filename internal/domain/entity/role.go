// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a staff identity can have in the system.
type Role string

const (
	// RoleAdmin indicates a tenant administrator.
	RoleAdmin Role = "admin"
	// RoleManager indicates a store manager.
	RoleManager Role = "manager"
	// RoleStaff indicates a regular staff member.
	RoleStaff Role = "staff"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	default:
		return false
	}
}
