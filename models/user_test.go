package models

import "testing"

func TestValidRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"admin", string(RoleAdmin), true},
		{"staff", string(RoleStaff), true},
		{"viewer", string(RoleViewer), true},
		{"lowercase", "admin", false},
		{"unknown", "owner", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidRole(tt.value); got != tt.want {
				t.Fatalf("ValidRole(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	t.Parallel()

	if got := NormalizeRole(" staff "); got != RoleStaff {
		t.Fatalf("NormalizeRole returned %q, want %q", got, RoleStaff)
	}

	if got := NormalizeRole("superuser"); got != DefaultRole {
		t.Fatalf("NormalizeRole returned %q, want %q", got, DefaultRole)
	}
}

func TestRolePermissions(t *testing.T) {
	t.Parallel()

	if RoleViewer.CanEdit() || RoleViewer.CanAdminister() {
		t.Fatal("viewer must be read-only")
	}
	if !RoleStaff.CanEdit() || RoleStaff.CanAdminister() {
		t.Fatal("staff may edit but not administer")
	}
	if !RoleAdmin.CanEdit() || !RoleAdmin.CanAdminister() {
		t.Fatal("admin may do everything")
	}
}
