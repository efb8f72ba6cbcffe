package users

import "testing"

func TestRolePrivileges(t *testing.T) {
	cases := []struct {
		role            Role
		privileged      bool
		operatesForAll  bool
	}{
		{RolePassenger, false, false},
		{RoleStaff, false, true},
		{RoleAdmin, true, true},
	}

	for _, tc := range cases {
		if got := tc.role.IsPrivileged(); got != tc.privileged {
			t.Errorf("%s.IsPrivileged() = %v, want %v", tc.role, got, tc.privileged)
		}
		if got := tc.role.CanOperateForOthers(); got != tc.operatesForAll {
			t.Errorf("%s.CanOperateForOthers() = %v, want %v", tc.role, got, tc.operatesForAll)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"PASSENGER", "STAFF", "ADMIN"} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "passenger", "USER", "SUPERADMIN"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}
