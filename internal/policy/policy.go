// Package policy holds the pure authorization rules: role hierarchy
// comparison and tenant equality. It performs no I/O.
package policy

import "biometric-service/internal/model"

// HasRole reports whether the subject's role satisfies the required role.
// Roles are totally ordered (user < organization < admin); a subject
// satisfies any requirement at or below its own rank.
func HasRole(subject, required model.Role) bool {
	return subject.Rank() >= required.Rank()
}

// SameTenant reports whether the subject's organization matches the
// resource's organization. A subject without an organization never passes
// a tenant check.
func SameTenant(subjectOrg *uint, resourceOrg uint) bool {
	return subjectOrg != nil && *subjectOrg == resourceOrg
}
