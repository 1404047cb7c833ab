// Package hosttest is an in-memory identity-provider host used by the
// integration tests: cookie-backed authentication sessions, a minimal
// authorize validator, and a JWT-minting token pipeline.
package hosttest

import (
	"context"

	anonid "github.com/goliatone/go-anonid"
	"github.com/google/uuid"
)

// AuthCookieName carries the host's authentication session key. Stands
// in for the host's encrypted ticket cookie.
const AuthCookieName = "idsrv.auth"

// CookieScheme is the host's cookie authentication scheme name.
const CookieScheme = "idsrv.cookie"

var (
	_ anonid.SchemeProvider                = (*Host)(nil)
	_ anonid.AuthenticationHandlerProvider = (*Host)(nil)
	_ anonid.AuthenticationService         = (*Host)(nil)
)

type hostSession struct {
	principal *anonid.Principal
	props     *anonid.Properties
}

// Client is a registered OAuth client.
type Client struct {
	ID                    string
	AccessTokenLifetime   int
	IdentityTokenLifetime int
}

// Host is the in-memory identity provider. It is the inner (raw)
// AuthenticationService, the scheme provider, and the handler provider
// all at once, like a real host's authentication stack.
type Host struct {
	Issuer     string
	Clients    map[string]*Client
	SigningKey []byte

	sessions   map[string]*hostSession
	Challenges int
	Forbids    int
}

// NewHost returns a host with no registered clients.
func NewHost() *Host {
	return &Host{
		Issuer:     "https://idsrv.test",
		Clients:    map[string]*Client{},
		SigningKey: []byte("hosttest-signing-key"),
		sessions:   map[string]*hostSession{},
	}
}

// AddClient registers a client, defaulting its token lifetimes.
func (h *Host) AddClient(c *Client) *Host {
	if c.AccessTokenLifetime == 0 {
		c.AccessTokenLifetime = 3600
	}
	if c.IdentityTokenLifetime == 0 {
		c.IdentityTokenLifetime = 300
	}
	h.Clients[c.ID] = c
	return h
}

func (h *Host) DefaultAuthenticateScheme() string { return CookieScheme }
func (h *Host) DefaultSignInScheme() string       { return CookieScheme }
func (h *Host) DefaultSignOutScheme() string      { return CookieScheme }

// SignIn persists the session and issues the auth cookie. A request
// that already carries a live session key updates that session in
// place, like re-issuing a ticket.
func (h *Host) SignIn(rc anonid.RequestContext, scheme string, principal *anonid.Principal, props *anonid.Properties) error {
	if principal == nil {
		return anonid.ErrNilPrincipal
	}

	key, ok := rc.Cookie(AuthCookieName)
	if !ok || h.sessions[key] == nil {
		key = uuid.New().String()
	}

	h.sessions[key] = &hostSession{
		principal: clonePrincipal(principal),
		props:     cloneProperties(props),
	}

	rc.SetCookie(&anonid.Cookie{
		Name:     AuthCookieName,
		Value:    key,
		Path:     "/",
		HTTPOnly: true,
		Secure:   rc.IsSecure(),
	})

	return nil
}

// SignOut drops the session and expires the auth cookie.
func (h *Host) SignOut(rc anonid.RequestContext, scheme string, props *anonid.Properties) error {
	if key, ok := rc.Cookie(AuthCookieName); ok {
		delete(h.sessions, key)
	}

	rc.SetCookie(&anonid.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  pastExpiry(),
		HTTPOnly: true,
	})

	return nil
}

func (h *Host) Authenticate(rc anonid.RequestContext, scheme string) (*anonid.AuthenticateResult, error) {
	handler, err := h.Handler(rc, scheme)
	if err != nil {
		return nil, err
	}
	return handler.Authenticate(rc.Context())
}

func (h *Host) Challenge(rc anonid.RequestContext, scheme string, props *anonid.Properties) error {
	h.Challenges++
	return nil
}

func (h *Host) Forbid(rc anonid.RequestContext, scheme string, props *anonid.Properties) error {
	h.Forbids++
	return nil
}

// Handler resolves the cookie handler for the request. Only the cookie
// scheme is registered.
func (h *Host) Handler(rc anonid.RequestContext, scheme string) (anonid.AuthenticationHandler, error) {
	if scheme != CookieScheme {
		return nil, anonid.ErrNoAuthenticationHandler
	}
	return &cookieHandler{host: h, rc: rc}, nil
}

// Session returns the stored session for a browser's auth cookie, for
// test assertions against persisted state.
func (h *Host) Session(key string) (*anonid.Principal, *anonid.Properties, bool) {
	s, ok := h.sessions[key]
	if !ok {
		return nil, nil, false
	}
	return s.principal, s.props, true
}

type cookieHandler struct {
	host *Host
	rc   anonid.RequestContext
}

// Authenticate deserializes the session the request's cookie points at.
// Clones on the way out so callers mutate nothing until they sign in
// again, the way a real ticket round-trips.
func (c *cookieHandler) Authenticate(ctx context.Context) (*anonid.AuthenticateResult, error) {
	key, ok := c.rc.Cookie(AuthCookieName)
	if !ok {
		return nil, nil
	}

	s, ok := c.host.sessions[key]
	if !ok {
		return nil, nil
	}

	return &anonid.AuthenticateResult{
		Principal:  clonePrincipal(s.principal),
		Properties: cloneProperties(s.props),
	}, nil
}

func clonePrincipal(p *anonid.Principal) *anonid.Principal {
	if p == nil {
		return nil
	}
	copied := &anonid.Principal{AuthenticationScheme: p.AuthenticationScheme}
	copied.Claims = append(copied.Claims, p.Claims...)
	return copied
}

func cloneProperties(p *anonid.Properties) *anonid.Properties {
	copied := anonid.NewProperties()
	if p != nil {
		for k, v := range p.Items {
			copied.Items[k] = v
		}
	}
	return copied
}

// NewUserPrincipal builds an interactively authenticated principal the
// way a host's login page would.
func NewUserPrincipal(sub, amr string) *anonid.Principal {
	return &anonid.Principal{
		AuthenticationScheme: CookieScheme,
		Claims: []anonid.Claim{
			{Type: anonid.ClaimSubject, Value: sub},
			{Type: anonid.ClaimAuthenticationMethod, Value: amr},
		},
	}
}
