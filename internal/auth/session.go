package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/viw-carta/backend/internal/models"
)

// ErrInvalidSession is returned for any token that fails signature or
// expiry checks. Expired and forged tokens are indistinguishable: both
// mean "no session".
var ErrInvalidSession = errors.New("invalid session")

// Identity is the minimal record embedded into a session token. It is
// derived once at login from the user and its owning tenant, and is
// immutable for the token's lifetime: role or plan changes take effect
// only when the token is reissued.
type Identity struct {
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Role       models.Role
	Plan       models.Plan
	PlanStatus models.SubscriptionStatus
}

// Claims is the session token payload. It is the single source of truth
// for authorization decisions within a request's lifetime.
type Claims struct {
	UserID     uuid.UUID                 `json:"user_id"`
	TenantID   uuid.UUID                 `json:"tenant_id"`
	Role       models.Role               `json:"role"`
	Plan       models.Plan               `json:"plan"`
	PlanStatus models.SubscriptionStatus `json:"plan_status"`
	jwt.RegisteredClaims
}

// Identity returns the identity embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:     c.UserID,
		TenantID:   c.TenantID,
		Role:       c.Role,
		Plan:       c.Plan,
		PlanStatus: c.PlanStatus,
	}
}

// CookieConfig controls the session cookie set by the service.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// SessionService issues and validates stateless signed session tokens.
// There is no server-side session store: logout is client-side cookie
// discard only.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	cookie CookieConfig
}

// NewSessionService creates a session service.
func NewSessionService(secret string, ttl time.Duration, cookie CookieConfig) *SessionService {
	if cookie.Name == "" {
		cookie.Name = "carta_session"
	}
	return &SessionService{secret: []byte(secret), ttl: ttl, cookie: cookie}
}

// Issue produces a signed token embedding the identity with a fixed expiry.
func (s *SessionService) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:     id.UserID,
		TenantID:   id.TenantID,
		Role:       id.Role,
		Plan:       id.Plan,
		PlanStatus: id.PlanStatus,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the embedded claims.
// Any failure, including expiry, yields ErrInvalidSession (fail closed).
func (s *SessionService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidSession
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// ShouldRefresh reports whether the token is past half of its lifetime and
// should be transparently reissued on this request.
func (s *SessionService) ShouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < s.ttl/2
}

// TokenFromRequest extracts the session token from the HTTP-only cookie,
// falling back to an Authorization bearer header for API clients.
func (s *SessionService) TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(s.cookie.Name); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// ClaimsFromRequest validates the request's token and returns its claims.
func (s *SessionService) ClaimsFromRequest(r *http.Request) (*Claims, error) {
	token := s.TokenFromRequest(r)
	if token == "" {
		return nil, ErrInvalidSession
	}
	return s.Validate(token)
}

// ValidSession reports whether the request carries a valid session. It
// satisfies the edge router's SessionChecker.
func (s *SessionService) ValidSession(r *http.Request) bool {
	_, err := s.ClaimsFromRequest(r)
	return err == nil
}

// SetCookie writes the session cookie on the response.
func (s *SessionService) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   s.cookie.Domain,
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *SessionService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
