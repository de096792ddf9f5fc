package edge

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viw-carta/backend/internal/tenanthost"
)

type staticSessions struct {
	valid bool
}

func (s staticSessions) ValidSession(*http.Request) bool { return s.valid }

// echoHandler records the path the inner application actually sees.
type echoHandler struct {
	path  string
	query string
}

func (e *echoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.path = r.URL.Path
	e.query = r.URL.RawQuery
	w.WriteHeader(http.StatusOK)
}

func newTestRouter(validSession bool) (*Router, *echoHandler) {
	inner := &echoHandler{}
	resolver := tenanthost.NewResolver("viw-carta.com", "app")
	rt := NewRouter(resolver, staticSessions{valid: validSession}, Config{BackofficePath: "/backoffice"}, inner)
	return rt, inner
}

func serve(rt *Router, host, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	req.Host = host
	w := httptest.NewRecorder()
	rt.ServeHTTP(w, req)
	return w
}

func TestRootDomainPassesThrough(t *testing.T) {
	rt, inner := newTestRouter(false)
	w := serve(rt, "www.viw-carta.com", "http://x/pricing")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/pricing", inner.path)
}

func TestAppDomainRedirectsToLoginWithoutSession(t *testing.T) {
	rt, _ := newTestRouter(false)
	w := serve(rt, "app.viw-carta.com", "http://x/backoffice/categories?tab=all")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/backoffice/login?callbackUrl=%2Fbackoffice%2Fcategories%3Ftab%3Dall", w.Header().Get("Location"))
}

func TestAppDomainRootRedirectsByLoginState(t *testing.T) {
	rt, _ := newTestRouter(true)
	w := serve(rt, "app.viw-carta.com", "http://x/")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/backoffice", w.Header().Get("Location"))

	rt, _ = newTestRouter(false)
	w = serve(rt, "app.viw-carta.com", "http://x/")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/backoffice/login?callbackUrl=%2F", w.Header().Get("Location"))
}

func TestAppDomainBackofficePassesWithSession(t *testing.T) {
	rt, inner := newTestRouter(true)
	w := serve(rt, "app.viw-carta.com", "http://x/backoffice/categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/backoffice/categories", inner.path)
}

func TestAppDomainPublicPathsNeedNoSession(t *testing.T) {
	for _, path := range []string{
		"/backoffice/login",
		"/api/auth/login",
		"/api/invitations/redeem",
		"/invitation/abc",
		"/onboarding",
		"/health",
		"/metrics",
	} {
		rt, inner := newTestRouter(false)
		w := serve(rt, "app.viw-carta.com", "http://x"+path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, path, inner.path)
	}
}

func TestTenantHostRewritesPath(t *testing.T) {
	rt, inner := newTestRouter(false)

	w := serve(rt, "taco-shop.viw-carta.com", "http://x/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/taco-shop", inner.path)

	serve(rt, "taco-shop.viw-carta.com", "http://x/menu?lang=es")
	assert.Equal(t, "/taco-shop/menu", inner.path)
	assert.Equal(t, "lang=es", inner.query)
}

func TestTenantRewriteIsIdempotent(t *testing.T) {
	rt, inner := newTestRouter(false)

	// A path that already carries the slug prefix is passed through
	// untouched: rewriting twice equals rewriting once.
	serve(rt, "taco-shop.viw-carta.com", "http://x/taco-shop/menu")
	assert.Equal(t, "/taco-shop/menu", inner.path)

	serve(rt, "taco-shop.viw-carta.com", "http://x/taco-shop")
	assert.Equal(t, "/taco-shop", inner.path)

	// A path merely sharing the slug as a prefix string still gets the
	// rewrite.
	serve(rt, "taco-shop.viw-carta.com", "http://x/taco-shopping")
	assert.Equal(t, "/taco-shop/taco-shopping", inner.path)
}

func TestUnrecognizedHostPassesThrough(t *testing.T) {
	rt, inner := newTestRouter(false)
	w := serve(rt, "evil.example.com", "http://x/anything")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/anything", inner.path)
}
