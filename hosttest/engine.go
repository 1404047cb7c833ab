package hosttest

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	anonid "github.com/goliatone/go-anonid"
)

func pastExpiry() time.Time {
	return time.Now().AddDate(-1, 0, 0)
}

var _ anonid.AuthorizeRequestValidator = (*AuthorizeValidator)(nil)

// AuthorizeValidator is the host's raw authorize request validator. It
// knows nothing about anonymous requests and rejects response modes it
// does not support, which is exactly the behavior the decorator works
// around.
type AuthorizeValidator struct {
	host *Host
}

// NewAuthorizeValidator returns the host's authorize validator.
func NewAuthorizeValidator(host *Host) *AuthorizeValidator {
	return &AuthorizeValidator{host: host}
}

func (v *AuthorizeValidator) Validate(rc anonid.RequestContext, params url.Values, subject *anonid.Principal) (*anonid.AuthorizeValidationResult, error) {
	client, ok := v.host.Clients[params.Get("client_id")]
	if !ok {
		return &anonid.AuthorizeValidationResult{
			Error:            "unauthorized_client",
			ErrorDescription: "unknown client",
		}, nil
	}

	switch mode := params.Get("response_mode"); mode {
	case "", "query", "fragment", "form_post":
	default:
		return &anonid.AuthorizeValidationResult{
			Error:            "invalid_request",
			ErrorDescription: "unsupported response_mode: " + mode,
		}, nil
	}

	raw := url.Values{}
	for k, vs := range params {
		raw[k] = append([]string(nil), vs...)
	}

	return &anonid.AuthorizeValidationResult{
		Request: &anonid.ValidatedAuthorizeRequest{
			Raw:                 raw,
			ClientID:            client.ID,
			Scope:               params.Get("scope"),
			State:               params.Get("state"),
			AcrValues:           strings.Fields(params.Get("acr_values")),
			ResponseMode:        params.Get("response_mode"),
			AccessTokenLifetime: client.AccessTokenLifetime,
			Subject:             subject,
		},
	}, nil
}

var _ anonid.TokenService = (*TokenCreator)(nil)

// TokenCreator is the host's raw token service: subject claims plus
// whatever the profile service issues, signed as HS256 JWTs.
type TokenCreator struct {
	host    *Host
	profile anonid.ProfileService
}

// NewTokenCreator returns the host's token service.
func NewTokenCreator(host *Host) *TokenCreator {
	return &TokenCreator{host: host}
}

// SetProfileService wires the profile service consulted during token
// creation. Set after decoration so issued claims flow through the
// full profile pipeline.
func (t *TokenCreator) SetProfileService(profile anonid.ProfileService) {
	t.profile = profile
}

func (t *TokenCreator) CreateAccessToken(rc anonid.RequestContext, req *anonid.TokenCreationRequest) (*anonid.Token, error) {
	if req == nil {
		return nil, anonid.ErrNilRequest
	}

	token := &anonid.Token{
		Claims:   subjectClaims(req.Subject),
		Lifetime: 3600,
	}

	if req.Request != nil {
		token.ClientID = req.Request.ClientID
		if req.Request.AccessTokenLifetime > 0 {
			token.Lifetime = req.Request.AccessTokenLifetime
		}
	}

	issued, err := t.profileClaims(rc, req)
	if err != nil {
		return nil, err
	}
	token.Claims = mergeClaims(token.Claims, issued)

	return token, nil
}

func (t *TokenCreator) CreateIdentityToken(rc anonid.RequestContext, req *anonid.TokenCreationRequest) (*anonid.Token, error) {
	if req == nil {
		return nil, anonid.ErrNilRequest
	}

	token := &anonid.Token{
		Claims:   subjectClaims(req.Subject),
		Lifetime: 300,
	}

	if req.Request != nil {
		token.ClientID = req.Request.ClientID
		if client, ok := t.host.Clients[req.Request.ClientID]; ok {
			token.Lifetime = client.IdentityTokenLifetime
		}
	}

	issued, err := t.profileClaims(rc, req)
	if err != nil {
		return nil, err
	}
	token.Claims = mergeClaims(token.Claims, issued)

	return token, nil
}

// CreateSecurityToken signs the token. Repeated claim types collapse
// into an array, mirroring JWT claim aggregation.
func (t *TokenCreator) CreateSecurityToken(rc anonid.RequestContext, token *anonid.Token) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"iss": t.host.Issuer,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(time.Duration(token.Lifetime) * time.Second).Unix(),
	}

	for _, c := range token.Claims {
		switch existing := claims[c.Type].(type) {
		case nil:
			claims[c.Type] = c.Value
		case string:
			claims[c.Type] = []string{existing, c.Value}
		case []string:
			claims[c.Type] = append(existing, c.Value)
		}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.host.SigningKey)
}

// ParseToken verifies a minted JWT and returns its claims, for test
// assertions.
func (h *Host) ParseToken(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return h.SigningKey, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenCreator) profileClaims(rc anonid.RequestContext, req *anonid.TokenCreationRequest) ([]anonid.Claim, error) {
	if t.profile == nil {
		return nil, nil
	}

	preq := &anonid.ProfileDataRequest{
		Subject:             req.Subject,
		RequestedClaimTypes: requestedClaimTypes(req.Request),
	}
	if err := t.profile.ProfileData(rc, preq); err != nil {
		return nil, err
	}

	return preq.IssuedClaims, nil
}

// requestedClaimTypes maps scope tokens to claim types one-to-one,
// plus the always-requested subject claim.
func requestedClaimTypes(req *anonid.ValidatedAuthorizeRequest) []string {
	types := []string{anonid.ClaimSubject}
	if req == nil {
		return types
	}
	for _, s := range strings.Fields(req.Scope) {
		if s != anonid.ClaimSubject {
			types = append(types, s)
		}
	}
	return types
}

func subjectClaims(subject *anonid.Principal) []anonid.Claim {
	if subject == nil {
		return nil
	}

	var claims []anonid.Claim
	for _, c := range subject.Claims {
		if c.Type == anonid.ClaimSubject || c.Type == anonid.ClaimAuthenticationMethod {
			claims = append(claims, c)
		}
	}
	return claims
}

func mergeClaims(claims, extra []anonid.Claim) []anonid.Claim {
	for _, c := range extra {
		dup := false
		for _, have := range claims {
			if have == c {
				dup = true
				break
			}
		}
		if !dup {
			claims = append(claims, c)
		}
	}
	return claims
}

var _ anonid.AuthorizeResponseGenerator = (*ResponseGenerator)(nil)

// ResponseGenerator turns a validated authorize request into signed
// tokens using the configured (decorated) token service.
type ResponseGenerator struct {
	tokens anonid.TokenService
}

// NewResponseGenerator returns the host's authorize response generator.
func NewResponseGenerator(tokens anonid.TokenService) *ResponseGenerator {
	return &ResponseGenerator{tokens: tokens}
}

func (g *ResponseGenerator) CreateResponse(rc anonid.RequestContext, req *anonid.ValidatedAuthorizeRequest) (*anonid.AuthorizeResponse, error) {
	treq := &anonid.TokenCreationRequest{Subject: req.Subject, Request: req}

	access, err := g.tokens.CreateAccessToken(rc, treq)
	if err != nil {
		return nil, err
	}
	accessJWT, err := g.tokens.CreateSecurityToken(rc, access)
	if err != nil {
		return nil, err
	}

	identity, err := g.tokens.CreateIdentityToken(rc, treq)
	if err != nil {
		return nil, err
	}
	identityJWT, err := g.tokens.CreateSecurityToken(rc, identity)
	if err != nil {
		return nil, err
	}

	return &anonid.AuthorizeResponse{
		Request:             req,
		AccessToken:         accessJWT,
		AccessTokenLifetime: access.Lifetime,
		IdentityToken:       identityJWT,
		Scope:               req.Scope,
		State:               req.State,
		SessionState:        req.SessionState,
	}, nil
}

var _ anonid.DiscoveryResponseGenerator = (*Discovery)(nil)

// Discovery is the host's raw discovery document generator.
type Discovery struct {
	host *Host
}

// NewDiscovery returns the host's discovery generator.
func NewDiscovery(host *Host) *Discovery {
	return &Discovery{host: host}
}

func (d *Discovery) CreateDiscoveryDocument(rc anonid.RequestContext, baseURL, issuerURI string) (map[string]any, error) {
	return map[string]any{
		"issuer":                   d.host.Issuer,
		"response_modes_supported": []string{"query", "fragment", "form_post"},
		"claims_supported":         []string{anonid.ClaimSubject},
	}, nil
}

var _ anonid.ProfileService = (*PassthroughProfile)(nil)

// PassthroughProfile is the host's raw profile service: it issues
// nothing and keeps every subject active.
type PassthroughProfile struct{}

func (PassthroughProfile) ProfileData(rc anonid.RequestContext, req *anonid.ProfileDataRequest) error {
	return nil
}

func (PassthroughProfile) IsActive(rc anonid.RequestContext, req *anonid.IsActiveRequest) error {
	req.IsActive = true
	return nil
}

var _ anonid.InteractionResponseGenerator = (*InteractionGenerator)(nil)

// InteractionGenerator is the host's raw interaction decision: a login
// is required only when no subject is present.
type InteractionGenerator struct{}

func (InteractionGenerator) ProcessInteraction(rc anonid.RequestContext, req *anonid.ValidatedAuthorizeRequest, consent *anonid.ConsentResponse) (*anonid.InteractionResponse, error) {
	return &anonid.InteractionResponse{IsLogin: req == nil || req.Subject == nil}, nil
}
