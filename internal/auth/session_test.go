package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viw-carta/backend/internal/models"
)

func testService(ttl time.Duration) *SessionService {
	return NewSessionService("test-secret", ttl, CookieConfig{Name: "carta_session"})
}

func testIdentity() Identity {
	return Identity{
		UserID:     uuid.New(),
		TenantID:   uuid.New(),
		Role:       models.RoleAdmin,
		Plan:       models.PlanPremium,
		PlanStatus: models.SubscriptionActive,
	}
}

func TestIssueValidateRoundtrip(t *testing.T) {
	svc := testService(time.Hour)
	id := testIdentity()

	token, err := svc.Issue(id)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Identity())
}

func TestExpiredTokenIsInvalid(t *testing.T) {
	svc := testService(-time.Minute)
	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestTamperedTokenIsInvalid(t *testing.T) {
	svc := testService(time.Hour)
	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	_, err = svc.Validate(token + "x")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other := NewSessionService("different-secret", time.Hour, CookieConfig{Name: "carta_session"})
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

// A token issued under one plan keeps that plan until it is reissued:
// authorization within a request comes solely from the claims, so plan
// upgrades are invisible to outstanding tokens.
func TestClaimsAreFrozenAtIssue(t *testing.T) {
	svc := testService(time.Hour)
	id := testIdentity()
	id.Plan = models.PlanStandard

	token, err := svc.Issue(id)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStandard, claims.Plan)

	id.Plan = models.PlanPremium
	upgraded, err := svc.Issue(id)
	require.NoError(t, err)

	claims, err = svc.Validate(upgraded)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPremium, claims.Plan)
}

func TestShouldRefresh(t *testing.T) {
	svc := testService(time.Hour)
	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.False(t, svc.ShouldRefresh(claims), "fresh token should not refresh")

	// Past the half-life the service asks for a reissue.
	claims = &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	assert.True(t, svc.ShouldRefresh(claims))

	assert.False(t, svc.ShouldRefresh(&Claims{}), "no expiry, nothing to refresh")
}

func TestTokenFromRequest(t *testing.T) {
	svc := testService(time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, svc.TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "carta_session", Value: "from-cookie"})
	assert.Equal(t, "from-cookie", svc.TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", svc.TokenFromRequest(r))

	// Cookie wins over the header when both are present.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "carta_session", Value: "from-cookie"})
	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-cookie", svc.TokenFromRequest(r))
}

func TestValidSession(t *testing.T) {
	svc := testService(time.Hour)
	token, err := svc.Issue(testIdentity())
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "carta_session", Value: token})
	assert.True(t, svc.ValidSession(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "carta_session", Value: "garbage"})
	assert.False(t, svc.ValidSession(r))
}

func TestCookieLifecycle(t *testing.T) {
	svc := testService(time.Hour)

	w := httptest.NewRecorder()
	svc.SetCookie(w, "tok")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "carta_session", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	w = httptest.NewRecorder()
	svc.ClearCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
