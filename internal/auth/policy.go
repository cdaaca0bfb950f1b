// Package auth defines the authorization policy: a single capability
// table mapping each role to the set of operations it may perform.
// Handlers never inspect role strings directly; the permission middleware
// consults this table once per request.
package auth

// Permission names one guarded operation group.
type Permission string

const (
	PermManageReservations Permission = "reservations.manage" // create, edit, transition reservations
	PermAssignOrders       Permission = "orders.assign"       // append items to seats
	PermGenerateInvoices   Permission = "billing.invoice"     // aggregate and export invoices
	PermViewFloor          Permission = "floor.view"          // see tables in progress
	PermManageUsers        Permission = "users.manage"        // user administration
	PermManageCatalog      Permission = "catalog.manage"      // edit the menu catalog
)

// Role labels match the `users.role` column.
const (
	RoleAdministrador = "administrador"
	RoleCajero        = "cajero"
	RoleMesero        = "mesero"
	RoleRecepcionista = "recepcionista"
	RoleUsuario       = "usuario"
)

// rolePermissions is the capability table.  usuario carries no staff
// permissions; customers only use the public booking surface.
var rolePermissions = map[string]map[Permission]bool{
	RoleAdministrador: permSet(
		PermManageReservations, PermAssignOrders, PermGenerateInvoices,
		PermViewFloor, PermManageUsers, PermManageCatalog,
	),
	RoleRecepcionista: permSet(PermManageReservations, PermViewFloor),
	RoleMesero:        permSet(PermAssignOrders, PermViewFloor),
	RoleCajero:        permSet(PermGenerateInvoices, PermViewFloor),
	RoleUsuario:       permSet(),
}

func permSet(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// Allowed reports whether role holds perm.  Unknown roles hold nothing.
func Allowed(role string, perm Permission) bool {
	return rolePermissions[role][perm]
}

// KnownRole reports whether role is one of the five recognized labels.
func KnownRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}
