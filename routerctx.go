package anonid

import (
	"context"

	"github.com/goliatone/go-router"
)

var _ RequestContext = (*RouterRequestContext)(nil)

// RouterRequestContext adapts a router.Context to the RequestContext
// surface this package needs.
type RouterRequestContext struct {
	c        router.Context
	basePath string
}

// RouterContextOption configures a RouterRequestContext.
type RouterContextOption func(*RouterRequestContext)

// WithBasePath sets the host's base path used for cookie scoping.
func WithBasePath(path string) RouterContextOption {
	return func(rc *RouterRequestContext) {
		if path != "" {
			rc.basePath = path
		}
	}
}

// NewRouterRequestContext wraps a router context.
func NewRouterRequestContext(c router.Context, opts ...RouterContextOption) *RouterRequestContext {
	rc := &RouterRequestContext{c: c, basePath: "/"}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

func (rc *RouterRequestContext) Context() context.Context {
	return rc.c.Context()
}

func (rc *RouterRequestContext) SetContext(ctx context.Context) {
	rc.c.SetContext(ctx)
}

// Cookie returns the inbound cookie value. An empty cookie is
// indistinguishable from an absent one at this layer.
func (rc *RouterRequestContext) Cookie(name string) (string, bool) {
	v := rc.c.Cookies(name)
	return v, v != ""
}

func (rc *RouterRequestContext) SetCookie(cookie *Cookie) {
	rc.c.Cookie(&router.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Expires:  cookie.Expires,
		HTTPOnly: cookie.HTTPOnly,
		Secure:   cookie.Secure,
		SameSite: cookie.SameSite,
	})
}

// IsSecure trusts the proxy-forwarded protocol header; go-router does
// not surface the transport scheme directly.
func (rc *RouterRequestContext) IsSecure() bool {
	return rc.c.Header("X-Forwarded-Proto") == "https"
}

func (rc *RouterRequestContext) BasePath() string {
	return rc.basePath
}
