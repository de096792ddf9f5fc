// Package tenanthost classifies the incoming Host header into the three
// routing domains of the platform: the bare marketing domain, the
// centralized app domain, and per-tenant subdomains. It is a pure string
// classifier, decoupled from any HTTP framework.
package tenanthost

import (
	"net/http"
	"strings"
)

// Kind tags a host classification.
type Kind int

const (
	// KindRoot is the bare marketing domain or its www alias.
	KindRoot Kind = iota
	// KindApp is the centralized application subdomain.
	KindApp
	// KindTenant is any other subdomain; Slug carries the tenant slug and
	// is empty when the host is unrecognized (treated as "no tenant").
	KindTenant
)

// Classification is the tagged result of classifying a host.
type Classification struct {
	Kind Kind
	Slug string
}

// Resolver classifies hosts against a base domain and app subdomain label.
type Resolver struct {
	baseDomain string
	appLabel   string
}

// NewResolver creates a resolver for the given base domain (e.g.
// "viw-carta.com") and app subdomain label (e.g. "app").
func NewResolver(baseDomain, appLabel string) *Resolver {
	return &Resolver{
		baseDomain: strings.ToLower(baseDomain),
		appLabel:   strings.ToLower(appLabel),
	}
}

// localDevSuffix stands in for the base domain during local development.
const localDevSuffix = "localhost"

// Classify maps a raw host header value to exactly one Classification.
// It is total: every input, including empty and unrecognized hosts, yields
// a defined result, and the same input always yields the same output.
func (r *Resolver) Classify(host string) Classification {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}

	switch host {
	case r.baseDomain, "www." + r.baseDomain:
		return Classification{Kind: KindRoot}
	case r.appLabel + "." + r.baseDomain, r.appLabel + "." + localDevSuffix:
		return Classification{Kind: KindApp}
	}

	if slug, ok := strings.CutSuffix(host, "."+r.baseDomain); ok {
		return Classification{Kind: KindTenant, Slug: leftmostLabel(slug)}
	}
	if slug, ok := strings.CutSuffix(host, "."+localDevSuffix); ok {
		return Classification{Kind: KindTenant, Slug: leftmostLabel(slug)}
	}

	// Bare loopback hosts and anything unrecognized fall through with an
	// empty slug; the router passes these along unchanged and the handlers
	// produce a not-found.
	return Classification{Kind: KindTenant}
}

// FromRequest classifies the request host, preferring X-Forwarded-Host when
// a reverse proxy set it.
func (r *Resolver) FromRequest(req *http.Request) Classification {
	if fwd := req.Header.Get("X-Forwarded-Host"); fwd != "" {
		return r.Classify(fwd)
	}
	return r.Classify(req.Host)
}

func leftmostLabel(s string) string {
	if label, _, ok := strings.Cut(s, "."); ok {
		return label
	}
	return s
}
