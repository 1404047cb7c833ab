package anonid

var _ AuthenticationService = (*AuthenticationServiceDecorator)(nil)

// AuthenticationServiceDecorator wraps the host's authentication
// service to detect when a user is being signed in on the cookie
// scheme and drive session reconciliation.
type AuthenticationServiceDecorator struct {
	inner   AuthenticationService
	schemes SchemeProvider
	session SessionManager
	opts    *Options
	store   UserStore
	logger  Logger
}

// NewAuthenticationServiceDecorator wraps inner.
func NewAuthenticationServiceDecorator(inner AuthenticationService, schemes SchemeProvider, session SessionManager, opts *Options, store UserStore) *AuthenticationServiceDecorator {
	if opts == nil {
		opts = NewOptions()
	}
	return &AuthenticationServiceDecorator{
		inner:   inner,
		schemes: schemes,
		session: session,
		opts:    opts,
		store:   store,
		logger:  defLogger{},
	}
}

func (d *AuthenticationServiceDecorator) WithLogger(logger Logger) *AuthenticationServiceDecorator {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// SignIn reconciles session continuity before delegating. A real user
// replacing an anonymous session also retires the anonymous identity's
// tracking cookie.
func (d *AuthenticationServiceDecorator) SignIn(rc RequestContext, scheme string, principal *Principal, props *Properties) error {
	cookieScheme, err := resolveCookieScheme(d.opts, d.schemes)
	if err != nil {
		return err
	}

	if d.matchesScheme(scheme, d.schemes.DefaultSignInScheme(), cookieScheme) {
		if principal != nil && !principal.IsAnonymous() {
			current, err := d.session.User()
			if err != nil {
				return err
			}
			if current.IsAnonymous() {
				if err := d.store.DeleteByID(current.SubjectID()); err != nil {
					return err
				}
			}
		}

		if props == nil {
			props = NewProperties()
		}

		if err := d.session.CreateSessionID(principal, props); err != nil {
			return err
		}
	}

	return d.inner.SignIn(rc, scheme, principal, props)
}

// SignOut removes the session id cookie when the cookie scheme is
// being signed out of, then delegates.
func (d *AuthenticationServiceDecorator) SignOut(rc RequestContext, scheme string, props *Properties) error {
	cookieScheme, err := resolveCookieScheme(d.opts, d.schemes)
	if err != nil {
		return err
	}

	if d.matchesScheme(scheme, d.schemes.DefaultSignOutScheme(), cookieScheme) {
		if err := d.session.RemoveSessionIDCookie(); err != nil {
			return err
		}
	}

	return d.inner.SignOut(rc, scheme, props)
}

func (d *AuthenticationServiceDecorator) Authenticate(rc RequestContext, scheme string) (*AuthenticateResult, error) {
	return d.inner.Authenticate(rc, scheme)
}

func (d *AuthenticationServiceDecorator) Challenge(rc RequestContext, scheme string, props *Properties) error {
	return d.inner.Challenge(rc, scheme, props)
}

func (d *AuthenticationServiceDecorator) Forbid(rc RequestContext, scheme string, props *Properties) error {
	return d.inner.Forbid(rc, scheme, props)
}

func (d *AuthenticationServiceDecorator) matchesScheme(scheme, defaultScheme, cookieScheme string) bool {
	return (scheme == "" && defaultScheme == cookieScheme) || scheme == cookieScheme
}
