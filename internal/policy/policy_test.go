package policy

import (
	"testing"

	"biometric-service/internal/model"
)

func TestHasRoleMatrix(t *testing.T) {
	roles := []model.Role{model.RoleUser, model.RoleOrganization, model.RoleAdmin}

	for i, subject := range roles {
		for j, required := range roles {
			got := HasRole(subject, required)
			want := i >= j
			if got != want {
				t.Fatalf("HasRole(%s, %s) = %v, want %v", subject, required, got, want)
			}
		}
	}
}

func TestHasRoleReflexive(t *testing.T) {
	for _, r := range []model.Role{model.RoleUser, model.RoleOrganization, model.RoleAdmin} {
		if !HasRole(r, r) {
			t.Fatalf("HasRole(%s, %s) should hold", r, r)
		}
	}
}

func TestHasRoleUnknownRole(t *testing.T) {
	if HasRole(model.Role("superuser"), model.RoleUser) {
		t.Fatal("unknown role must not satisfy any requirement")
	}
}

func TestSameTenant(t *testing.T) {
	org1 := uint(1)
	org2 := uint(2)

	if !SameTenant(&org1, 1) {
		t.Fatal("matching organizations should pass")
	}
	if SameTenant(&org1, org2) {
		t.Fatal("different organizations must not pass")
	}
	if SameTenant(nil, 1) {
		t.Fatal("nil subject organization must never pass")
	}
}
