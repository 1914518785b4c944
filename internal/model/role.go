package model

import "fmt"

// Role is the closed set of user roles. Roles form a strict hierarchy:
// RoleUser < RoleOrganization < RoleAdmin.
type Role string

const (
	RoleUser         Role = "user"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
)

// Rank returns the position of the role in the hierarchy. Unknown roles
// rank below every valid role.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleOrganization:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a string into a Role, rejecting anything outside the
// closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
