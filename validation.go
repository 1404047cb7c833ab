package anonid

import "net/url"

// ValidatedAuthorizeRequest is the host validator's view of an
// authorize request, reduced to the fields this package reads or
// adjusts.
type ValidatedAuthorizeRequest struct {
	Raw                 url.Values
	ClientID            string
	Scope               string
	State               string
	AcrValues           []string
	ResponseMode        string
	AccessTokenLifetime int
	Subject             *Principal
	SessionState        string
}

// IsAnonymous reports whether the request carries exactly the reserved
// anonymous acr value.
func (r *ValidatedAuthorizeRequest) IsAnonymous() bool {
	return r != nil && len(r.AcrValues) == 1 && r.AcrValues[0] == AcrAnonymous
}

// AuthorizeValidationResult is the outcome of authorize request
// validation. Protocol violations surface as an error code on the
// result, not as a Go error.
type AuthorizeValidationResult struct {
	Request          *ValidatedAuthorizeRequest
	Error            string
	ErrorDescription string
}

// IsError reports whether validation rejected the request.
func (r *AuthorizeValidationResult) IsError() bool {
	return r == nil || r.Error != ""
}

// AuthorizeRequestValidator validates authorize request parameters.
type AuthorizeRequestValidator interface {
	Validate(rc RequestContext, params url.Values, subject *Principal) (*AuthorizeValidationResult, error)
}

// ValidatedTokenRequest is the host validator's view of a token
// request.
type ValidatedTokenRequest struct {
	Raw                 url.Values
	GrantType           string
	Subject             *Principal
	AccessTokenLifetime int
}

// TokenRequestValidationResult is the outcome of token request
// validation.
type TokenRequestValidationResult struct {
	Request          *ValidatedTokenRequest
	Error            string
	ErrorDescription string
}

// IsError reports whether validation rejected the request.
func (r *TokenRequestValidationResult) IsError() bool {
	return r == nil || r.Error != ""
}

// ValidatedClient is the already-authenticated client a token request
// was made by.
type ValidatedClient struct {
	ClientID string
}

// TokenRequestValidator validates token request parameters.
type TokenRequestValidator interface {
	Validate(rc RequestContext, params url.Values, client *ValidatedClient) (*TokenRequestValidationResult, error)
}

var _ AuthorizeRequestValidator = (*AuthorizeRequestValidatorDecorator)(nil)

// AuthorizeRequestValidatorDecorator wraps the host's authorize request
// validator to process anonymous authentication requests: requests
// flagged with the reserved acr value and the "json" response mode get
// an anonymous user created and signed in when no subject exists, and
// an anonymous access-token lifetime.
type AuthorizeRequestValidatorDecorator struct {
	inner    AuthorizeRequestValidator
	services *Services
}

// DecorateAuthorizeValidator wraps the host's authorize request validator.
func (s *Services) DecorateAuthorizeValidator(inner AuthorizeRequestValidator) *AuthorizeRequestValidatorDecorator {
	return &AuthorizeRequestValidatorDecorator{inner: inner, services: s}
}

// Validate validates authorize request parameters.
func (d *AuthorizeRequestValidatorDecorator) Validate(rc RequestContext, params url.Values, subject *Principal) (*AuthorizeValidationResult, error) {
	if params == nil {
		return nil, ErrNilParameters
	}

	responseMode := params.Get(ParamResponseMode)
	acrValues := params.Get(ParamAcrValues)
	if acrValues != AcrAnonymous || responseMode != ResponseModeJSON {
		return d.inner.Validate(rc, params, subject)
	}

	// the host validator does not support the "json" response mode;
	// strip it here and restore it on the validated result
	params.Del(ParamResponseMode)

	result, err := d.inner.Validate(rc, params, subject)
	if err != nil {
		return nil, err
	}
	if result.IsError() {
		return result, nil
	}

	scope := d.services.Scope(rc)

	if subject == nil {
		anonUser := scope.Identities.Create()
		if err := scope.Store.Create(anonUser); err != nil {
			return nil, err
		}

		if err := scope.SignIn.SignIn(anonUser); err != nil {
			return nil, err
		}

		// reload the current user
		result.Request.Subject, err = scope.Session.User()
		if err != nil {
			return nil, err
		}
	}

	result.Request.ResponseMode = ResponseModeJSON

	if result.Request.Subject.IsAnonymous() {
		result.Request.AccessTokenLifetime = d.services.opts.AccessTokenLifetime
	}

	return result, nil
}

var _ TokenRequestValidator = (*TokenRequestValidatorDecorator)(nil)

// TokenRequestValidatorDecorator wraps the host's token request
// validator to apply the anonymous access-token lifetime, since the
// host applies client lifetimes before the subject is known.
type TokenRequestValidatorDecorator struct {
	inner    TokenRequestValidator
	services *Services
}

// DecorateTokenRequestValidator wraps the host's token request validator.
func (s *Services) DecorateTokenRequestValidator(inner TokenRequestValidator) *TokenRequestValidatorDecorator {
	return &TokenRequestValidatorDecorator{inner: inner, services: s}
}

// Validate validates token request parameters.
func (d *TokenRequestValidatorDecorator) Validate(rc RequestContext, params url.Values, client *ValidatedClient) (*TokenRequestValidationResult, error) {
	result, err := d.inner.Validate(rc, params, client)
	if err != nil {
		return nil, err
	}

	if !result.IsError() && result.Request.Subject.IsAnonymous() {
		result.Request.AccessTokenLifetime = d.services.opts.AccessTokenLifetime
	}

	return result, nil
}
