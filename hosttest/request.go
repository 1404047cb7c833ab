package hosttest

import (
	"context"
	"time"

	anonid "github.com/goliatone/go-anonid"
)

var _ anonid.RequestContext = (*Request)(nil)

// Request is an in-memory RequestContext. Outbound cookie writes are
// visible to subsequent reads within the same request, mirroring how a
// host response buffer behaves during one pipeline pass.
type Request struct {
	ctx      context.Context
	inbound  map[string]string
	outbound map[string]*anonid.Cookie
	secure   bool
	basePath string
	now      func() time.Time
}

// RequestOption configures a Request.
type RequestOption func(*Request)

// WithSecure marks the request as HTTPS.
func WithSecure(secure bool) RequestOption {
	return func(r *Request) { r.secure = secure }
}

// WithRequestBasePath sets the host base path.
func WithRequestBasePath(path string) RequestOption {
	return func(r *Request) {
		if path != "" {
			r.basePath = path
		}
	}
}

// NewRequest returns an empty request.
func NewRequest(opts ...RequestOption) *Request {
	r := &Request{
		ctx:      context.Background(),
		inbound:  map[string]string{},
		outbound: map[string]*anonid.Cookie{},
		secure:   true,
		basePath: "/",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Request) Context() context.Context { return r.ctx }

func (r *Request) SetContext(ctx context.Context) { r.ctx = ctx }

// Cookie prefers a value written during this request over the inbound
// jar; a write expired into the past reads as absent.
func (r *Request) Cookie(name string) (string, bool) {
	if c, ok := r.outbound[name]; ok {
		if r.expired(c) {
			return "", false
		}
		return c.Value, c.Value != ""
	}

	v, ok := r.inbound[name]
	return v, ok && v != ""
}

func (r *Request) SetCookie(cookie *anonid.Cookie) {
	copied := *cookie
	r.outbound[cookie.Name] = &copied
}

func (r *Request) IsSecure() bool { return r.secure }

func (r *Request) BasePath() string { return r.basePath }

// SetInboundCookie seeds a cookie as if the browser sent it.
func (r *Request) SetInboundCookie(name, value string) {
	r.inbound[name] = value
}

// OutboundCookie returns a cookie written during this request.
func (r *Request) OutboundCookie(name string) (*anonid.Cookie, bool) {
	c, ok := r.outbound[name]
	return c, ok
}

func (r *Request) expired(c *anonid.Cookie) bool {
	return !c.Expires.IsZero() && c.Expires.Before(r.now())
}

// Browser carries cookies across sequential requests the way a user
// agent would.
type Browser struct {
	jar  map[string]string
	opts []RequestOption
}

// NewBrowser returns a browser with an empty cookie jar.
func NewBrowser(opts ...RequestOption) *Browser {
	return &Browser{jar: map[string]string{}, opts: opts}
}

// Request starts a new request carrying the jar's cookies.
func (b *Browser) Request() *Request {
	r := NewRequest(b.opts...)
	for name, value := range b.jar {
		r.inbound[name] = value
	}
	return r
}

// Commit folds a finished request's cookie writes back into the jar.
func (b *Browser) Commit(r *Request) {
	for name, c := range r.outbound {
		if r.expired(c) || c.Value == "" {
			delete(b.jar, name)
			continue
		}
		b.jar[name] = c.Value
	}
}

// Cookie reads a cookie from the jar.
func (b *Browser) Cookie(name string) (string, bool) {
	v, ok := b.jar[name]
	return v, ok
}
