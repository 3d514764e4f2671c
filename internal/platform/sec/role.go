// Copyright (c) 2026 Kikira. All rights reserved.
// Author: haru.sohayama@gmail.com

package sec

// # Operator Roles

// Role represents the authorization level granted to an operator token.
type Role string

const (
	// Unrestricted access, including destructive operations (product delete)
	RoleAdmin Role = "admin"

	// Can manage catalog content and run the import/migration engines
	RoleEditor Role = "editor"

	// Read-only back-office access
	RoleViewer Role = "viewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
