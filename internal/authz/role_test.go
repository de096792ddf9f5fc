package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viw-carta/backend/internal/models"
)

var ranked = []models.Role{
	models.RoleViewer,
	models.RoleStaff,
	models.RoleAdmin,
	models.RoleSuperadmin,
}

func TestRoleOrdering(t *testing.T) {
	for i, lower := range ranked {
		for j, higher := range ranked {
			if i >= j {
				continue
			}
			// A lower role must fail any check requiring the higher one,
			// and the higher role must pass a check requiring the lower.
			assert.False(t, Allows(lower, higher), "%s should not satisfy %s", lower, higher)
			assert.True(t, Allows(higher, lower), "%s should satisfy %s", higher, lower)
		}
	}
}

func TestRoleAllowsItself(t *testing.T) {
	for _, role := range ranked {
		assert.True(t, Allows(role, role))
	}
}

func TestUnknownRoleFailsEverything(t *testing.T) {
	assert.Equal(t, -1, Rank(models.Role("owner")))
	for _, min := range ranked {
		assert.False(t, Allows(models.Role("owner"), min))
	}
}
