package anonid

import (
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Options holds the anonymous identity configuration. Immutable after
// startup; build with NewOptions or LoadOptions.
type Options struct {
	// AccessTokenLifetime is the anonymous access token lifetime in
	// seconds. Defaults to 2592000 (30 days).
	AccessTokenLifetime int `env:"ANONID_ACCESS_TOKEN_LIFETIME" envDefault:"2592000"`

	// IdentityTokenLifetime is the anonymous identity token lifetime in
	// seconds. Defaults to 2592000 (30 days).
	IdentityTokenLifetime int `env:"ANONID_IDENTITY_TOKEN_LIFETIME" envDefault:"2592000"`

	// AlwaysIncludeAnonymousIDInProfile includes the "aid" claim in
	// profile data unconditionally. When false the claim is only issued
	// if requested via scope/resource.
	AlwaysIncludeAnonymousIDInProfile bool `env:"ANONID_ALWAYS_INCLUDE_AID_IN_PROFILE" envDefault:"true"`

	// IncludeSharedSessionIDInAccessToken appends the "ssid" claim to
	// access tokens.
	IncludeSharedSessionIDInAccessToken bool `env:"ANONID_INCLUDE_SSID_IN_ACCESS_TOKEN" envDefault:"true"`

	// CheckSharedSessionCookieName is the cookie used by the check
	// shared session endpoint.
	CheckSharedSessionCookieName string `env:"ANONID_CHECK_SHARED_SESSION_COOKIE_NAME" envDefault:"idsrv.s.session"`

	// CheckAnonymousIDCookieName is the cookie tracking the anonymous id.
	CheckAnonymousIDCookieName string `env:"ANONID_CHECK_ANONYMOUS_ID_COOKIE_NAME" envDefault:"idsrv.aid"`

	// CookieAuthenticationScheme is the host's cookie scheme for
	// interactive users. When empty the host's default authenticate
	// scheme is used. Set this when the host's default is a policy
	// scheme.
	CookieAuthenticationScheme string `env:"ANONID_COOKIE_AUTHENTICATION_SCHEME"`

	// EnableCheckSharedSessionEndpoint gates issuing the shared session
	// cookie at all.
	EnableCheckSharedSessionEndpoint bool `env:"ANONID_ENABLE_CHECK_SHARED_SESSION_ENDPOINT" envDefault:"true"`
}

// NewOptions returns Options populated with defaults.
func NewOptions() *Options {
	return &Options{
		AccessTokenLifetime:                 DefaultTokenLifetime,
		IdentityTokenLifetime:               DefaultTokenLifetime,
		AlwaysIncludeAnonymousIDInProfile:   true,
		IncludeSharedSessionIDInAccessToken: true,
		CheckSharedSessionCookieName:        DefaultCheckSharedSessionCookieName,
		CheckAnonymousIDCookieName:          DefaultCheckAnonymousIDCookieName,
		EnableCheckSharedSessionEndpoint:    true,
	}
}

// LoadOptions builds Options from the environment, loading a .env file
// first when one exists.
func LoadOptions() (*Options, error) {
	_ = godotenv.Load()

	opts := &Options{}
	if err := env.Parse(opts); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to parse anonid options from environment")
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return opts, nil
}

// Validate will run validation rules
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.AccessTokenLifetime, validation.Required, validation.Min(1)),
		validation.Field(&o.IdentityTokenLifetime, validation.Required, validation.Min(1)),
		validation.Field(&o.CheckSharedSessionCookieName, validation.Required),
		validation.Field(&o.CheckAnonymousIDCookieName, validation.Required),
	)
}
