// Package fiberadapter adapts a fiber request to the anonid
// RequestContext for hosts that mount the identity provider on fiber
// directly instead of through go-router.
package fiberadapter

import (
	"context"

	"github.com/gofiber/fiber/v2"
	anonid "github.com/goliatone/go-anonid"
)

var _ anonid.RequestContext = (*RequestContext)(nil)

// RequestContext wraps a fiber.Ctx.
type RequestContext struct {
	c        *fiber.Ctx
	basePath string
}

// Option customizes the RequestContext.
type Option func(*RequestContext)

// WithBasePath sets the host's base path used for cookie scoping.
func WithBasePath(path string) Option {
	return func(rc *RequestContext) {
		if path != "" {
			rc.basePath = path
		}
	}
}

// New wraps a fiber context.
func New(c *fiber.Ctx, opts ...Option) *RequestContext {
	rc := &RequestContext{c: c, basePath: "/"}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

func (rc *RequestContext) Context() context.Context {
	return rc.c.UserContext()
}

func (rc *RequestContext) SetContext(ctx context.Context) {
	rc.c.SetUserContext(ctx)
}

// Cookie returns the inbound cookie value. An empty cookie is
// indistinguishable from an absent one in fiber.
func (rc *RequestContext) Cookie(name string) (string, bool) {
	v := rc.c.Cookies(name)
	return v, v != ""
}

func (rc *RequestContext) SetCookie(cookie *anonid.Cookie) {
	rc.c.Cookie(&fiber.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		Expires:  cookie.Expires,
		HTTPOnly: cookie.HTTPOnly,
		Secure:   cookie.Secure,
		SameSite: cookie.SameSite,
	})
}

func (rc *RequestContext) IsSecure() bool {
	return rc.c.Protocol() == "https"
}

func (rc *RequestContext) BasePath() string {
	return rc.basePath
}
