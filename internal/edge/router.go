// Package edge implements the request router that runs in front of the gin
// engine. It makes exactly one decision per request based only on the host
// classification and session validity: pass through, redirect, or rewrite
// the path to inject the tenant slug. It never touches storage.
package edge

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/viw-carta/backend/internal/tenanthost"
)

// SessionChecker reports whether the request carries a valid session token.
type SessionChecker interface {
	ValidSession(r *http.Request) bool
}

// Config holds the path layout of the centralized app domain.
type Config struct {
	// BackofficePath is the privileged path prefix, e.g. "/backoffice".
	BackofficePath string
}

// Router is an http.Handler wrapping the application handler. It must be
// the outermost handler: the rewrite has to happen before route matching.
type Router struct {
	resolver *tenanthost.Resolver
	sessions SessionChecker
	cfg      Config
	next     http.Handler
}

// NewRouter creates the edge router in front of next.
func NewRouter(resolver *tenanthost.Resolver, sessions SessionChecker, cfg Config, next http.Handler) *Router {
	if cfg.BackofficePath == "" {
		cfg.BackofficePath = "/backoffice"
	}
	return &Router{resolver: resolver, sessions: sessions, cfg: cfg, next: next}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cls := rt.resolver.FromRequest(r)

	switch cls.Kind {
	case tenanthost.KindRoot:
		// Public marketing site: pass through unmodified.
		rt.next.ServeHTTP(w, r)
	case tenanthost.KindApp:
		rt.serveApp(w, r)
	default:
		rt.serveTenant(w, r, cls.Slug)
	}
}

func (rt *Router) serveApp(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if rt.publicAppPath(path) {
		rt.next.ServeHTTP(w, r)
		return
	}

	if strings.HasPrefix(path, rt.cfg.BackofficePath) {
		if rt.sessions.ValidSession(r) {
			rt.next.ServeHTTP(w, r)
			return
		}
		rt.redirectToLogin(w, r)
		return
	}

	// "/" or any path outside the privileged prefix: senders with a valid
	// session land on the privileged home, everyone else on login.
	if rt.sessions.ValidSession(r) {
		http.Redirect(w, r, rt.cfg.BackofficePath, http.StatusTemporaryRedirect)
		return
	}
	rt.redirectToLogin(w, r)
}

// publicAppPath lists app-domain paths served without a session: the login
// and onboarding pages, invitation redemption, the API namespace (which
// enforces auth per route), and the operational endpoints.
func (rt *Router) publicAppPath(path string) bool {
	switch {
	case path == rt.cfg.BackofficePath+"/login",
		strings.HasPrefix(path, "/invitation"),
		strings.HasPrefix(path, "/onboarding"),
		strings.HasPrefix(path, "/api/"),
		path == "/health",
		path == "/metrics":
		return true
	}
	return false
}

func (rt *Router) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	callback := r.URL.Path
	if r.URL.RawQuery != "" {
		callback += "?" + r.URL.RawQuery
	}
	target := rt.cfg.BackofficePath + "/login?callbackUrl=" + url.QueryEscape(callback)
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// serveTenant rewrites the path to carry the tenant slug as its first
// segment. The rewrite is server-side only and idempotent: an already
// prefixed path passes through untouched. An empty slug (unrecognized
// host) passes through as-is and resolves to a not-found downstream.
func (rt *Router) serveTenant(w http.ResponseWriter, r *http.Request, slug string) {
	if slug != "" && !pathHasPrefix(r.URL.Path, slug) {
		r.URL.Path = rewritePath(r.URL.Path, slug)
	}
	rt.next.ServeHTTP(w, r)
}

func pathHasPrefix(path, slug string) bool {
	prefix := "/" + slug
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func rewritePath(path, slug string) string {
	if path == "/" || path == "" {
		return "/" + slug
	}
	return "/" + slug + path
}
