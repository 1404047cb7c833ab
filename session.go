package anonid

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

var _ SessionManager = (*SharedSession)(nil)

// SharedSession is the cookie-based session shared between an anonymous
// user and the "real" authenticated user that later signs in on the
// same browser. It is request-scoped: the (principal, properties) pair
// is cached so every call within a request observes the session as it
// stood when first read, which is what makes transition detection in
// CreateSessionID reliable.
type SharedSession struct {
	rc       RequestContext
	schemes  SchemeProvider
	handlers AuthenticationHandlerProvider
	opts     *Options
	clock    Clock
	logger   Logger

	// auth is the decorated authentication service, set after
	// composition because the decorator itself depends on this session.
	auth AuthenticationService

	principal  *Principal
	properties *Properties
}

// NewSharedSession returns a session bound to the given request.
func NewSharedSession(rc RequestContext, schemes SchemeProvider, handlers AuthenticationHandlerProvider, opts *Options) *SharedSession {
	if opts == nil {
		opts = NewOptions()
	}
	return &SharedSession{
		rc:       rc,
		schemes:  schemes,
		handlers: handlers,
		opts:     opts,
		clock:    SystemClock,
		logger:   defLogger{},
	}
}

func (s *SharedSession) WithLogger(logger Logger) *SharedSession {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *SharedSession) WithClock(clock Clock) *SharedSession {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// WithAuthenticationService wires the sign-in primitive used to persist
// property mutations. Must be the decorated service so re-entrant
// sign-ins keep the session id stable.
func (s *SharedSession) WithAuthenticationService(auth AuthenticationService) *SharedSession {
	s.auth = auth
	return s
}

// User returns the current authenticated principal, or nil when the
// request carries no session.
func (s *SharedSession) User() (*Principal, error) {
	if err := s.authenticate(); err != nil {
		return nil, err
	}
	return s.principal, nil
}

// CreateSessionID reconciles session continuity for a sign-in that is
// about to happen and issues the session id cookie.
//
// The ordering matters: the session id has to be settled by comparing
// against the pre-transition session before the cache is replaced, and
// the anonymous-id persistence must run last because it performs its
// own sign-in round trip against the already-updated properties.
func (s *SharedSession) CreateSessionID(principal *Principal, props *Properties) error {
	if principal == nil {
		return ErrNilPrincipal
	}
	if props == nil {
		return ErrNilProperties
	}

	current, err := s.User()
	if err != nil {
		return err
	}

	currentSubject := current.SubjectID()
	newSubject := principal.SubjectID()

	isUpgrade := false

	// a transition away from an anonymous session keeps its session id
	if current != nil && current.IsAnonymous() && currentSubject != newSubject {
		sid, err := s.SessionID()
		if err != nil {
			return err
		}
		if sid != "" {
			props.Set(SessionIDKey, sid)
		}

		if !principal.IsAnonymous() {
			isUpgrade = true
		}
	}

	// mint a fresh id when none was carried forward, or when a
	// different authenticated user replaces a non-anonymous session
	if !props.Has(SessionIDKey) ||
		(currentSubject != newSubject && current != nil && !current.IsAnonymous()) {
		sid, err := newSessionID()
		if err != nil {
			return err
		}
		props.Set(SessionIDKey, sid)
	}

	s.issueSessionIDCookie(props.Get(SessionIDKey))

	s.principal = principal
	s.properties = props

	if isUpgrade {
		return s.setAnonymousID(currentSubject)
	}

	return nil
}

// SessionID returns the shared session id of the current session, or ""
// when there is none.
func (s *SharedSession) SessionID() (string, error) {
	if err := s.authenticate(); err != nil {
		return "", err
	}
	return s.properties.Get(SessionIDKey), nil
}

// EnsureSessionIDCookie re-issues the session id cookie from the
// authoritative session property, or removes it when no session id
// exists. Hosts should invoke this once per request.
func (s *SharedSession) EnsureSessionIDCookie() error {
	sid, err := s.SessionID()
	if err != nil {
		return err
	}

	if sid != "" {
		s.issueSessionIDCookie(sid)
		return nil
	}

	return s.RemoveSessionIDCookie()
}

// RemoveSessionIDCookie deletes the session id cookie, but only when
// the request actually carried it.
func (s *SharedSession) RemoveSessionIDCookie() error {
	if _, ok := s.rc.Cookie(s.opts.CheckSharedSessionCookieName); !ok {
		return nil
	}

	cookie := s.sessionIDCookie(".")
	cookie.Expires = s.clock.Now().AddDate(-1, 0, 0)
	s.rc.SetCookie(cookie)

	return nil
}

// AnonymousID returns the anonymous id preserved on the current
// session, or "" when none is set. A value that fails to decode is
// treated as corruption: the property is cleared and "" is returned
// rather than failing the request.
func (s *SharedSession) AnonymousID() (string, error) {
	encoded, err := s.anonymousIDProperty()
	if err != nil {
		return "", err
	}

	id, err := decodeAnonymousID(encoded)
	if err == nil {
		return id, nil
	}

	s.logger.Debug("clearing undecodable anonymous id: %v", err)
	if err := s.setAnonymousID(""); err != nil {
		s.logger.Error("failed to clear corrupted anonymous id: %v", err)
	}

	return "", nil
}

// authenticate resolves the cookie scheme's handler and caches the
// (principal, properties) result. An absent session is not an error.
func (s *SharedSession) authenticate() error {
	if s.principal != nil && s.properties != nil {
		return nil
	}

	scheme, err := resolveCookieScheme(s.opts, s.schemes)
	if err != nil {
		return err
	}

	handler, err := s.handlers.Handler(s.rc, scheme)
	if err != nil {
		return err
	}
	if handler == nil {
		return ErrNoAuthenticationHandler
	}

	result, err := handler.Authenticate(s.rc.Context())
	if err != nil {
		return err
	}
	if result != nil {
		s.principal = result.Principal
		s.properties = result.Properties
	}

	return nil
}

// issueSessionIDCookie writes the cookie only when its value changed
// and the shared-session feature is enabled.
func (s *SharedSession) issueSessionIDCookie(sid string) {
	if !s.opts.EnableCheckSharedSessionEndpoint {
		return
	}

	if current, _ := s.rc.Cookie(s.opts.CheckSharedSessionCookieName); current != sid {
		s.rc.SetCookie(s.sessionIDCookie(sid))
	}
}

// sessionIDCookie builds the cookie with the attributes the session
// check pattern needs: readable from front-end script, scoped to the
// host's base path, and able to survive cross-site OAuth redirects.
func (s *SharedSession) sessionIDCookie(value string) *Cookie {
	return &Cookie{
		Name:      s.opts.CheckSharedSessionCookieName,
		Value:     value,
		Path:      cleanURLPath(s.rc.BasePath()),
		HTTPOnly:  false,
		Secure:    s.rc.IsSecure(),
		SameSite:  "None",
		Essential: true,
	}
}

func (s *SharedSession) setAnonymousID(id string) error {
	encoded, err := encodeAnonymousID(id)
	if err != nil {
		return err
	}
	return s.setAnonymousIDProperty(encoded)
}

// setAnonymousIDProperty persists a property mutation by signing the
// current principal back in with the updated bag.
func (s *SharedSession) setAnonymousIDProperty(value string) error {
	if s.auth == nil {
		return ErrNoAuthenticationService
	}

	if err := s.authenticate(); err != nil {
		return err
	}

	if s.principal == nil || s.properties == nil {
		return ErrNotAuthenticated
	}

	if value == "" {
		s.properties.Delete(AnonymousIDKey)
	} else {
		s.properties.Set(AnonymousIDKey, value)
	}

	scheme, err := resolveCookieScheme(s.opts, s.schemes)
	if err != nil {
		return err
	}

	return s.auth.SignIn(s.rc, scheme, s.principal, s.properties)
}

func (s *SharedSession) anonymousIDProperty() (string, error) {
	if err := s.authenticate(); err != nil {
		return "", err
	}
	return s.properties.Get(AnonymousIDKey), nil
}

// newSessionID mints a 16-byte cryptographically random id, hex encoded.
func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func cleanURLPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "/"
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
