package anonid

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Clock abstracts wall-clock time so cookie expiry math stays testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Cookie describes an outbound cookie write. A zero Expires leaves the
// cookie session-scoped; an Expires in the past deletes it.
type Cookie struct {
	Name      string
	Value     string
	Path      string
	Expires   time.Time
	HTTPOnly  bool
	Secure    bool
	SameSite  string
	Essential bool
}

// RequestContext is the slice of the host's per-request surface this
// package needs: inbound cookies, outbound cookie writes, the HTTPS
// flag, and the host's base path. Implementations wrap whatever HTTP
// layer the host runs on; adapters for go-router and fiber ship with
// this package.
type RequestContext interface {
	Context() context.Context
	SetContext(ctx context.Context)
	Cookie(name string) (string, bool)
	SetCookie(cookie *Cookie)
	IsSecure() bool
	BasePath() string
}

// SchemeProvider exposes the host's default authentication scheme
// names. An empty string means the host has no default for that
// operation.
type SchemeProvider interface {
	DefaultAuthenticateScheme() string
	DefaultSignInScheme() string
	DefaultSignOutScheme() string
}

// Properties is the host's per-session authentication property bag.
// The host persists it signed/encrypted alongside the session cookie;
// this package only reads and writes string items in it.
type Properties struct {
	Items map[string]string
}

// NewProperties returns an empty property bag.
func NewProperties() *Properties {
	return &Properties{Items: map[string]string{}}
}

// Get returns the named item, or "" when absent.
func (p *Properties) Get(key string) string {
	if p == nil || p.Items == nil {
		return ""
	}
	return p.Items[key]
}

// Has reports whether the named item is present.
func (p *Properties) Has(key string) bool {
	if p == nil || p.Items == nil {
		return false
	}
	_, ok := p.Items[key]
	return ok
}

// Set stores the named item, allocating the map if needed.
func (p *Properties) Set(key, value string) {
	if p.Items == nil {
		p.Items = map[string]string{}
	}
	p.Items[key] = value
}

// Delete removes the named item.
func (p *Properties) Delete(key string) {
	if p == nil || p.Items == nil {
		return
	}
	delete(p.Items, key)
}

// AuthenticateResult is a successful authentication outcome: the
// session's principal and its property bag.
type AuthenticateResult struct {
	Principal  *Principal
	Properties *Properties
}

// AuthenticationHandler authenticates the current request for one
// scheme. A nil result with a nil error is the normal "no session yet"
// case, not a failure.
type AuthenticationHandler interface {
	Authenticate(ctx context.Context) (*AuthenticateResult, error)
}

// AuthenticationHandlerProvider resolves the host's authentication
// handler for a scheme on the current request.
type AuthenticationHandlerProvider interface {
	Handler(rc RequestContext, scheme string) (AuthenticationHandler, error)
}

// AuthenticationService is the host's sign-in/sign-out primitive. The
// decorator in this package wraps the host's implementation; hosts
// must route their own sign-in calls through the decorated instance so
// session transitions are observed. An empty scheme means "use the
// host default for the operation".
type AuthenticationService interface {
	SignIn(rc RequestContext, scheme string, principal *Principal, props *Properties) error
	SignOut(rc RequestContext, scheme string, props *Properties) error
	Authenticate(rc RequestContext, scheme string) (*AuthenticateResult, error)
	Challenge(rc RequestContext, scheme string, props *Properties) error
	Forbid(rc RequestContext, scheme string, props *Properties) error
}

// SessionManager is the shared-session contract consumed by the
// decorators and by host endpoints. SharedSession is the default
// implementation.
type SessionManager interface {
	User() (*Principal, error)
	CreateSessionID(principal *Principal, props *Properties) error
	SessionID() (string, error)
	EnsureSessionIDCookie() error
	RemoveSessionIDCookie() error
	AnonymousID() (string, error)
}

// UserStore manages the mapping between the tracking cookie and the
// current anonymous identity. CookieUserStore is the default
// implementation.
type UserStore interface {
	Create(identity *AnonymousIdentity) error
	FindByID(id string) (*AnonymousIdentity, error)
	DeleteByID(id string) error
	Delete(identity *AnonymousIdentity) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ANONID "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ANONID "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ANONID "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
