package anonid

var _ UserStore = (*CookieUserStore)(nil)

// CookieUserStore is the default cookie-backed anonymous user store.
// The tracking cookie is the primary source of truth; the shared
// session's preserved anonymous id is the fallback, and discovering a
// session-only value re-issues the cookie for subsequent requests.
type CookieUserStore struct {
	rc         RequestContext
	identities *IdentityFactory
	session    SessionManager
	cookieName string
	clock      Clock
}

// NewCookieUserStore returns a store bound to the given request.
func NewCookieUserStore(rc RequestContext, identities *IdentityFactory, session SessionManager, opts *Options) *CookieUserStore {
	if opts == nil {
		opts = NewOptions()
	}
	return &CookieUserStore{
		rc:         rc,
		identities: identities,
		session:    session,
		cookieName: opts.CheckAnonymousIDCookieName,
		clock:      SystemClock,
	}
}

func (s *CookieUserStore) WithClock(clock Clock) *CookieUserStore {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Create registers the identity as the currently tracked anonymous
// user, minting a fresh one when identity is nil.
func (s *CookieUserStore) Create(identity *AnonymousIdentity) error {
	if identity == nil {
		identity = s.identities.Create()
	}

	if identity == nil || identity.ID == "" {
		return ErrUserCreateFailed
	}

	s.deleteCookie()
	s.appendCookie(identity.ID)

	return nil
}

// FindByID returns the tracked anonymous identity when it matches id,
// otherwise nil. The equality check keeps a stale cookie/session value
// from masquerading as a different identity.
func (s *CookieUserStore) FindByID(id string) (*AnonymousIdentity, error) {
	if id == "" {
		return nil, ErrEmptyUserID
	}

	sub, ok := s.rc.Cookie(s.cookieName)
	if !ok {
		anonID, err := s.session.AnonymousID()
		if err != nil {
			return nil, err
		}
		if anonID != "" {
			s.appendCookie(anonID)
			sub = anonID
		}
	}

	if sub == id {
		return s.identities.Create(sub), nil
	}

	return nil, nil
}

// DeleteByID removes the tracking cookie only when it tracks id; it
// never deletes another identity's cookie.
func (s *CookieUserStore) DeleteByID(id string) error {
	if id == "" {
		return ErrEmptyUserID
	}

	if sub, ok := s.rc.Cookie(s.cookieName); ok && sub == id {
		s.deleteCookie()
	}

	return nil
}

// Delete removes the identity's tracking cookie.
func (s *CookieUserStore) Delete(identity *AnonymousIdentity) error {
	if identity == nil {
		return ErrNilIdentity
	}
	return s.DeleteByID(identity.ID)
}

func (s *CookieUserStore) appendCookie(id string) {
	s.rc.SetCookie(&Cookie{
		Name:      s.cookieName,
		Value:     id,
		Path:      "/",
		Secure:    s.rc.IsSecure(),
		Essential: true,
	})
}

func (s *CookieUserStore) deleteCookie() {
	s.rc.SetCookie(&Cookie{
		Name:    s.cookieName,
		Value:   "",
		Path:    "/",
		Expires: s.clock.Now().AddDate(-1, 0, 0),
	})
}
