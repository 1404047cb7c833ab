package anonid

import "github.com/goliatone/go-errors"

const (
	TextCodeNilIdentity     = "anonid_nil_identity"
	TextCodeNilPrincipal    = "anonid_nil_principal"
	TextCodeNilProperties   = "anonid_nil_properties"
	TextCodeNilParameters   = "anonid_nil_parameters"
	TextCodeNilRequest      = "anonid_nil_request"
	TextCodeEmptyUserID     = "anonid_empty_user_id"
	TextCodeNoAuthScheme    = "anonid_no_auth_scheme"
	TextCodeNoAuthHandler   = "anonid_no_auth_handler"
	TextCodeNoAuthService   = "anonid_no_auth_service"
	TextCodeNotAuthed       = "anonid_not_authenticated"
	TextCodeNoSubjectClaim  = "anonid_no_subject_claim"
	TextCodeNoAnonymousUser = "anonid_anonymous_user_not_found"
	TextCodeUserCreate      = "anonid_user_create_failed"
)

// ErrNilIdentity is returned when a required anonymous identity is nil.
var ErrNilIdentity = errors.New("anonymous identity is required", errors.CategoryBadInput).
	WithTextCode(TextCodeNilIdentity).
	WithCode(errors.CodeBadRequest)

// ErrNilPrincipal is returned when a required principal is nil.
var ErrNilPrincipal = errors.New("principal is required", errors.CategoryBadInput).
	WithTextCode(TextCodeNilPrincipal).
	WithCode(errors.CodeBadRequest)

// ErrNilProperties is returned when a required properties bag is nil.
var ErrNilProperties = errors.New("authentication properties are required", errors.CategoryBadInput).
	WithTextCode(TextCodeNilProperties).
	WithCode(errors.CodeBadRequest)

// ErrNilParameters is returned when request parameters are nil.
var ErrNilParameters = errors.New("request parameters are required", errors.CategoryBadInput).
	WithTextCode(TextCodeNilParameters).
	WithCode(errors.CodeBadRequest)

// ErrNilRequest is returned when a required request context object is nil.
var ErrNilRequest = errors.New("request is required", errors.CategoryBadInput).
	WithTextCode(TextCodeNilRequest).
	WithCode(errors.CodeBadRequest)

// ErrEmptyUserID is returned for empty anonymous user ids.
var ErrEmptyUserID = errors.New("user id is required", errors.CategoryBadInput).
	WithTextCode(TextCodeEmptyUserID).
	WithCode(errors.CodeBadRequest)

// ErrNoAuthenticateScheme is returned when no cookie authentication
// scheme is configured and the host has no default authenticate scheme.
// This is fatal to the current request's authentication resolution.
var ErrNoAuthenticateScheme = errors.New("no default authenticate scheme found", errors.CategoryInternal).
	WithTextCode(TextCodeNoAuthScheme).
	WithCode(errors.CodeInternal)

// ErrNoAuthenticationHandler is returned when the host has no handler
// registered for the resolved cookie scheme.
var ErrNoAuthenticationHandler = errors.New("no authentication handler configured for scheme", errors.CategoryInternal).
	WithTextCode(TextCodeNoAuthHandler).
	WithCode(errors.CodeInternal)

// ErrNoAuthenticationService is returned when a session-property write
// needs the sign-in primitive but none was wired via
// WithAuthenticationService.
var ErrNoAuthenticationService = errors.New("no authentication service configured", errors.CategoryInternal).
	WithTextCode(TextCodeNoAuthService).
	WithCode(errors.CodeInternal)

// ErrNotAuthenticated is returned when a session-property write is
// attempted without an authenticated session.
var ErrNotAuthenticated = errors.New("user is not currently authenticated", errors.CategoryInternal).
	WithTextCode(TextCodeNotAuthed).
	WithCode(errors.CodeInternal)

// ErrNoSubjectClaim is returned when a principal that must carry a
// subject claim does not.
var ErrNoSubjectClaim = errors.New("no sub claim present", errors.CategoryInternal).
	WithTextCode(TextCodeNoSubjectClaim).
	WithCode(errors.CodeInternal)

// ErrAnonymousUserNotFound is returned by the profile service when an
// active session claims to be anonymous but its identity is gone.
var ErrAnonymousUserNotFound = errors.New("anonymous user not found", errors.CategoryInternal).
	WithTextCode(TextCodeNoAnonymousUser).
	WithCode(errors.CodeInternal)

// ErrUserCreateFailed is returned when the identity factory yields no user.
var ErrUserCreateFailed = errors.New("anonymous user factory produced no user", errors.CategoryInternal).
	WithTextCode(TextCodeUserCreate).
	WithCode(errors.CodeInternal)
