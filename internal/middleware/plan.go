package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/internal/authz"
	"github.com/viw-carta/backend/pkg/apperr"
	"github.com/viw-carta/backend/pkg/response"
)

// RequireFeature returns a middleware that gates a route behind a plan
// feature. Failure carries the plan_restriction reason code so clients can
// distinguish "upgrade your plan" from role-based Forbidden. Call after
// Session.
func RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			response.Error(c, apperr.Unauthorized("missing session"))
			c.Abort()
			return
		}
		if !authz.Can(claims.Plan, claims.PlanStatus, feature) {
			response.Error(c, apperr.ForbiddenPlan("feature not available on current plan"))
			c.Abort()
			return
		}
		c.Next()
	}
}
