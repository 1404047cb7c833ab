package anonid

// Token is the host's token model before signing: a claim set plus the
// lifetime in seconds.
type Token struct {
	ClientID string
	Claims   []Claim
	Lifetime int
}

// TokenCreationRequest carries what the host needs to build a token.
type TokenCreationRequest struct {
	Subject *Principal
	Request *ValidatedAuthorizeRequest
}

// TokenService is the host's token creation extension point.
type TokenService interface {
	CreateAccessToken(rc RequestContext, req *TokenCreationRequest) (*Token, error)
	CreateIdentityToken(rc RequestContext, req *TokenCreationRequest) (*Token, error)
	CreateSecurityToken(rc RequestContext, token *Token) (string, error)
}

var _ TokenService = (*TokenServiceDecorator)(nil)

// TokenServiceDecorator wraps the host's token service to attach the
// shared session id and apply anonymous token lifetimes.
type TokenServiceDecorator struct {
	inner    TokenService
	services *Services
}

// DecorateTokenService wraps the host's token service.
func (s *Services) DecorateTokenService(inner TokenService) *TokenServiceDecorator {
	return &TokenServiceDecorator{inner: inner, services: s}
}

// CreateAccessToken delegates, then appends the "ssid" claim when
// configured and overrides the lifetime for anonymous subjects.
func (d *TokenServiceDecorator) CreateAccessToken(rc RequestContext, req *TokenCreationRequest) (*Token, error) {
	token, err := d.inner.CreateAccessToken(rc, req)
	if err != nil {
		return nil, err
	}

	if d.services.opts.IncludeSharedSessionIDInAccessToken {
		ssid, err := d.services.Scope(rc).Session.SessionID()
		if err != nil {
			return nil, err
		}
		if ssid != "" {
			token.Claims = append(token.Claims, Claim{Type: ClaimSharedSessionID, Value: ssid})
		}
	}

	if req != nil && req.Subject.IsAnonymous() {
		token.Lifetime = d.services.opts.AccessTokenLifetime
	}

	return token, nil
}

// CreateIdentityToken delegates, then overrides the lifetime for
// anonymous subjects.
func (d *TokenServiceDecorator) CreateIdentityToken(rc RequestContext, req *TokenCreationRequest) (*Token, error) {
	token, err := d.inner.CreateIdentityToken(rc, req)
	if err != nil {
		return nil, err
	}

	if req != nil && req.Subject.IsAnonymous() {
		token.Lifetime = d.services.opts.IdentityTokenLifetime
	}

	return token, nil
}

// CreateSecurityToken delegates unchanged.
func (d *TokenServiceDecorator) CreateSecurityToken(rc RequestContext, token *Token) (string, error) {
	return d.inner.CreateSecurityToken(rc, token)
}
