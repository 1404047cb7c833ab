package anonid

import "context"

var scopeCtxKey = &contextKey{"anonid-scope"}

type contextKey struct {
	name string
}

// Services holds the process-wide wiring: configuration, the host's
// scheme/handler providers, and the host's raw authentication service.
// Build once at startup, then derive a Scope per request and use the
// Decorate* constructors to splice the anonymous behavior into the
// host's extension points.
type Services struct {
	opts       *Options
	schemes    SchemeProvider
	handlers   AuthenticationHandlerProvider
	auth       AuthenticationService
	logger     Logger
	clock      Clock
	identities *IdentityFactory
}

// New returns the process-wide services. auth must be the host's inner
// (undecorated) authentication service.
func New(opts *Options, schemes SchemeProvider, handlers AuthenticationHandlerProvider, auth AuthenticationService) *Services {
	if opts == nil {
		opts = NewOptions()
	}
	return &Services{
		opts:       opts,
		schemes:    schemes,
		handlers:   handlers,
		auth:       auth,
		logger:     defLogger{},
		clock:      SystemClock,
		identities: NewIdentityFactory(),
	}
}

func (s *Services) WithLogger(logger Logger) *Services {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *Services) WithClock(clock Clock) *Services {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Options exposes the configuration the services were built with.
func (s *Services) Options() *Options {
	return s.opts
}

// Scope is the request-scoped object graph. All members share one
// SharedSession so they observe a consistent view of the session.
type Scope struct {
	Session    *SharedSession
	Store      *CookieUserStore
	SignIn     *SignInManager
	Auth       AuthenticationService
	Principals *PrincipalFactory
	Identities *IdentityFactory
}

// Scope returns the request's object graph, building it on first use
// and memoizing it in the request context.
func (s *Services) Scope(rc RequestContext) *Scope {
	if existing, ok := scopeFromContext(rc.Context()); ok {
		return existing
	}

	session := NewSharedSession(rc, s.schemes, s.handlers, s.opts).
		WithLogger(s.logger).
		WithClock(s.clock)

	store := NewCookieUserStore(rc, s.identities, session, s.opts).
		WithClock(s.clock)

	auth := NewAuthenticationServiceDecorator(s.auth, s.schemes, session, s.opts, store).
		WithLogger(s.logger)

	session.WithAuthenticationService(auth)

	principals := NewPrincipalFactory(s.opts, s.schemes)

	scope := &Scope{
		Session:    session,
		Store:      store,
		SignIn:     NewSignInManager(rc, s.opts, s.schemes, principals, auth),
		Auth:       auth,
		Principals: principals,
		Identities: s.identities,
	}

	rc.SetContext(withScopeContext(rc.Context(), scope))

	return scope
}

// withScopeContext sets the Scope in the given context
func withScopeContext(ctx context.Context, scope *Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey, scope)
}

// scopeFromContext finds the Scope from the context.
func scopeFromContext(ctx context.Context) (*Scope, bool) {
	raw, ok := ctx.Value(scopeCtxKey).(*Scope)
	return raw, ok
}
