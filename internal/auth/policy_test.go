package auth

import "testing"

func TestAllowed(t *testing.T) {
	tests := []struct {
		role string
		perm Permission
		want bool
	}{
		{RoleAdministrador, PermManageReservations, true},
		{RoleAdministrador, PermManageUsers, true},
		{RoleAdministrador, PermManageCatalog, true},
		{RoleRecepcionista, PermManageReservations, true},
		{RoleRecepcionista, PermViewFloor, true},
		{RoleRecepcionista, PermAssignOrders, false},
		{RoleRecepcionista, PermManageUsers, false},
		{RoleMesero, PermAssignOrders, true},
		{RoleMesero, PermViewFloor, true},
		{RoleMesero, PermGenerateInvoices, false},
		{RoleCajero, PermGenerateInvoices, true},
		{RoleCajero, PermViewFloor, true},
		{RoleCajero, PermManageReservations, false},
		{RoleUsuario, PermViewFloor, false},
		{RoleUsuario, PermManageReservations, false},
		{"", PermViewFloor, false},
		{"superuser", PermManageUsers, false}, // unknown roles hold nothing
	}
	for _, tc := range tests {
		if got := Allowed(tc.role, tc.perm); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestKnownRole(t *testing.T) {
	for _, role := range []string{RoleAdministrador, RoleCajero, RoleMesero, RoleRecepcionista, RoleUsuario} {
		if !KnownRole(role) {
			t.Errorf("KnownRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "admin", "ADMINISTRADOR", "waiter"} {
		if KnownRole(role) {
			t.Errorf("KnownRole(%q) = true", role)
		}
	}
}
