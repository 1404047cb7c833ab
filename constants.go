package anonid

// Claim types issued or inspected by this package.
const (
	// ClaimSubject is the subject identifier claim.
	ClaimSubject = "sub"

	// ClaimAuthenticationMethod is the authentication method (amr) claim.
	ClaimAuthenticationMethod = "amr"

	// ClaimAnonymousID identifies the anonymous end-user that was active
	// before the current authenticated session superseded it.
	ClaimAnonymousID = "aid"

	// ClaimSharedSessionID is the session identifier shared between an
	// anonymous user and the "real" authenticated user that follows it.
	ClaimSharedSessionID = "ssid"
)

// Reserved protocol values that mark a request or principal as anonymous.
const (
	// AcrAnonymous is the single acr_values entry denoting an anonymous
	// authorization request.
	AcrAnonymous = "0"

	// AmrAnonymous is the authentication-method claim value attached to
	// anonymous principals. Every "is this user anonymous?" check tests
	// for this exact value.
	AmrAnonymous = "anon"

	// ResponseModeJSON is the response mode used exclusively by anonymous
	// authorization requests. The host's protocol engine does not support
	// it natively, which makes it a safe signal.
	ResponseModeJSON = "json"
)

// Authorize request parameter names.
const (
	ParamResponseMode = "response_mode"
	ParamAcrValues    = "acr_values"
)

// Discovery document entry names touched by the discovery decorator.
const (
	DiscoveryResponseModesSupported = "response_modes_supported"
	DiscoveryClaimsSupported        = "claims_supported"
)

// Authentication property keys persisted in the host's property bag.
const (
	// SessionIDKey holds the shared session id on every authenticated
	// session.
	SessionIDKey = "shared_session_id"

	// AnonymousIDKey holds the encoded anonymous id on the session that
	// superseded an anonymous one.
	AnonymousIDKey = "anonymous_id"
)

// Defaults.
const (
	// DefaultTokenLifetime is the anonymous access/identity token
	// lifetime in seconds (30 days).
	DefaultTokenLifetime = 2592000

	// DefaultCheckSharedSessionCookieName is the cookie mirroring the
	// shared session id for front-end session checks.
	DefaultCheckSharedSessionCookieName = "idsrv.s.session"

	// DefaultCheckAnonymousIDCookieName is the cookie tracking the
	// current anonymous id.
	DefaultCheckAnonymousIDCookieName = "idsrv.aid"
)
