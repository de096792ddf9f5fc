// Package authz holds the pure authorization checks: ranked role comparison
// and the static plan→feature table. Nothing here performs I/O; every check
// operates on already-validated session claims.
package authz

import "github.com/viw-carta/backend/internal/models"

// roleRank maps each role to its fixed ordinal. Higher rank implies every
// capability of the ranks below it.
var roleRank = map[models.Role]int{
	models.RoleViewer:     0,
	models.RoleStaff:      1,
	models.RoleAdmin:      2,
	models.RoleSuperadmin: 3,
}

// Rank returns the ordinal of role, or -1 for an unknown role. Unknown
// roles rank below viewer so they fail every check.
func Rank(role models.Role) int {
	if r, ok := roleRank[role]; ok {
		return r
	}
	return -1
}

// Allows reports whether role satisfies a minimum-role requirement.
func Allows(role, min models.Role) bool {
	return Rank(role) >= Rank(min) && Rank(role) >= 0
}
