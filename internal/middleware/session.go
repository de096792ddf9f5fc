package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/viw-carta/backend/internal/auth"
	"github.com/viw-carta/backend/pkg/response"
)

// Session returns a middleware that validates the session token and stores
// its claims in the gin context. Tokens past half their lifetime are
// transparently reissued, which bounds the staleness of the embedded role
// and plan claims by the token TTL.
func Session(sessions *auth.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessions.ClaimsFromRequest(c.Request)
		if err != nil {
			response.Unauthorized(c, "missing or invalid session")
			c.Abort()
			return
		}

		if sessions.ShouldRefresh(claims) {
			// Refresh re-embeds the same identity; plan or role changes
			// still require a fresh login.
			if token, err := sessions.Issue(claims.Identity()); err == nil {
				sessions.SetCookie(c.Writer, token)
			}
		}

		c.Set(auth.ContextClaims, claims)
		c.Next()
	}
}
