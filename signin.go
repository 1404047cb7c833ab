package anonid

// SignInManager signs anonymous identities into the host's cookie
// authentication scheme. This is the only place the "anon"
// authentication-method marker is attached.
type SignInManager struct {
	rc         RequestContext
	opts       *Options
	schemes    SchemeProvider
	principals *PrincipalFactory
	auth       AuthenticationService
}

// NewSignInManager returns a manager bound to the given request. The
// auth service must be the decorated instance so the sign-in drives
// session reconciliation.
func NewSignInManager(rc RequestContext, opts *Options, schemes SchemeProvider, principals *PrincipalFactory, auth AuthenticationService) *SignInManager {
	if opts == nil {
		opts = NewOptions()
	}
	return &SignInManager{
		rc:         rc,
		opts:       opts,
		schemes:    schemes,
		principals: principals,
		auth:       auth,
	}
}

// SignIn signs in the anonymous identity with the "anon"
// authentication-method claim.
func (m *SignInManager) SignIn(identity *AnonymousIdentity) error {
	if identity == nil {
		return ErrNilIdentity
	}

	principal, err := m.principals.Create(identity)
	if err != nil {
		return err
	}

	principal.AddClaim(Claim{Type: ClaimAuthenticationMethod, Value: AmrAnonymous})

	scheme, err := resolveCookieScheme(m.opts, m.schemes)
	if err != nil {
		return err
	}

	return m.auth.SignIn(m.rc, scheme, principal, nil)
}
