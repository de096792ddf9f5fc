package auth

import "github.com/gin-gonic/gin"

// ContextClaims is the gin context key under which the session middleware
// stores the validated *Claims.
const ContextClaims = "session_claims"

// ClaimsFrom returns the validated session claims from the gin context.
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// MustClaims returns the session claims set by the session middleware.
// It panics if called on a route that does not require a session.
func MustClaims(c *gin.Context) *Claims {
	return c.MustGet(ContextClaims).(*Claims)
}
