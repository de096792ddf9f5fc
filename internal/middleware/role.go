package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/authz"
	"github.com/viw-carta/backend/internal/models"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// RequireRole returns a middleware that allows only sessions whose role
// ranks at or above min. Call after Session.
func RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			response.Error(c, apperr.Unauthorized("missing session"))
			c.Abort()
			return
		}
		if !authz.Allows(claims.Role, min) {
			response.Error(c, apperr.ForbiddenRole("insufficient role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperadmin restricts a route to exact superadmin sessions.
func RequireSuperadmin() gin.HandlerFunc {
	return RequireRole(models.RoleSuperadmin)
}
