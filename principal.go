package anonid

// Claim is a single type/value assertion about a principal.
type Claim struct {
	Type  string
	Value string
}

// Principal is the authenticated-identity abstraction shared with the
// host: a set of claims tagged with the authentication scheme that
// produced them. The host owns a principal's lifetime after sign-in.
type Principal struct {
	AuthenticationScheme string
	Claims               []Claim
}

// AddClaim appends a claim to the principal.
func (p *Principal) AddClaim(c Claim) {
	p.Claims = append(p.Claims, c)
}

// FindFirst returns the first claim of the given type.
func (p *Principal) FindFirst(claimType string) (Claim, bool) {
	if p == nil {
		return Claim{}, false
	}
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c, true
		}
	}
	return Claim{}, false
}

// HasClaim reports whether the principal carries a claim of the given type.
func (p *Principal) HasClaim(claimType string) bool {
	_, ok := p.FindFirst(claimType)
	return ok
}

// SubjectID returns the subject claim value, or "" when absent. Safe on
// a nil principal.
func (p *Principal) SubjectID() string {
	c, _ := p.FindFirst(ClaimSubject)
	return c.Value
}

// IsAnonymous reports whether the principal carries the "anon"
// authentication-method claim. Safe on a nil principal.
func (p *Principal) IsAnonymous() bool {
	c, ok := p.FindFirst(ClaimAuthenticationMethod)
	return ok && c.Value == AmrAnonymous
}

// PrincipalFactory builds principals for anonymous identities.
type PrincipalFactory struct {
	opts    *Options
	schemes SchemeProvider
}

// NewPrincipalFactory returns a new PrincipalFactory.
func NewPrincipalFactory(opts *Options, schemes SchemeProvider) *PrincipalFactory {
	return &PrincipalFactory{opts: opts, schemes: schemes}
}

// Create builds a principal whose sole identity claim is the anonymous
// subject, tagged with the host's cookie authentication scheme.
func (f *PrincipalFactory) Create(identity *AnonymousIdentity) (*Principal, error) {
	if identity == nil {
		return nil, ErrNilIdentity
	}

	scheme, err := resolveCookieScheme(f.opts, f.schemes)
	if err != nil {
		return nil, err
	}

	return &Principal{
		AuthenticationScheme: scheme,
		Claims:               []Claim{{Type: ClaimSubject, Value: identity.ID}},
	}, nil
}

// resolveCookieScheme picks the explicit CookieAuthenticationScheme
// when configured, otherwise the host's default authenticate scheme.
func resolveCookieScheme(opts *Options, schemes SchemeProvider) (string, error) {
	if opts != nil && opts.CookieAuthenticationScheme != "" {
		return opts.CookieAuthenticationScheme, nil
	}

	if schemes != nil {
		if scheme := schemes.DefaultAuthenticateScheme(); scheme != "" {
			return scheme, nil
		}
	}

	return "", ErrNoAuthenticateScheme
}
