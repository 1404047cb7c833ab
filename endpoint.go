package anonid

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthorizeResponse is the host's authorize response model.
type AuthorizeResponse struct {
	Request             *ValidatedAuthorizeRequest
	Code                string
	AccessToken         string
	AccessTokenLifetime int
	IdentityToken       string
	Scope               string
	State               string
	SessionState        string
	Error               string
	ErrorDescription    string
}

// IsError reports whether the response carries a protocol error.
func (r *AuthorizeResponse) IsError() bool {
	return r == nil || r.Error != ""
}

// ToMap flattens the response into the wire fields of the "json"
// response mode.
func (r *AuthorizeResponse) ToMap() map[string]string {
	collection := map[string]string{}

	if r.IsError() {
		if r.Error != "" {
			collection["error"] = r.Error
		}
		if r.ErrorDescription != "" {
			collection["error_description"] = r.ErrorDescription
		}
	} else {
		if r.Code != "" {
			collection["code"] = r.Code
		}

		if r.IdentityToken != "" {
			collection["id_token"] = r.IdentityToken
		}

		if r.AccessToken != "" {
			collection["access_token"] = r.AccessToken
			collection["token_type"] = "Bearer"
			collection["expires_in"] = strconv.Itoa(r.AccessTokenLifetime)
		}

		if r.Scope != "" {
			collection["scope"] = r.Scope
		}
	}

	if r.State != "" {
		collection["state"] = r.State
	}

	if r.SessionState != "" {
		collection["session_state"] = r.SessionState
	}

	return collection
}

// AuthorizeResponseGenerator is the host's authorize response
// extension point.
type AuthorizeResponseGenerator interface {
	CreateResponse(rc RequestContext, req *ValidatedAuthorizeRequest) (*AuthorizeResponse, error)
}

// AuthorizeEndpoint handles anonymous authorize requests directly,
// rendering the "json" response mode as a JSON body instead of a
// redirect. Everything else is delegated to the host's own authorize
// handler.
type AuthorizeEndpoint struct {
	services  *Services
	validator AuthorizeRequestValidator
	responses AuthorizeResponseGenerator
	inner     router.HandlerFunc
	basePath  string
	logger    Logger
}

// NewAuthorizeEndpoint builds the endpoint. validator must be the
// decorated validator; inner is the host's authorize handler.
func NewAuthorizeEndpoint(services *Services, validator AuthorizeRequestValidator, responses AuthorizeResponseGenerator, inner router.HandlerFunc) *AuthorizeEndpoint {
	return &AuthorizeEndpoint{
		services:  services,
		validator: validator,
		responses: responses,
		inner:     inner,
		basePath:  "/",
		logger:    defLogger{},
	}
}

func (e *AuthorizeEndpoint) WithBasePath(path string) *AuthorizeEndpoint {
	if path != "" {
		e.basePath = path
	}
	return e
}

func (e *AuthorizeEndpoint) WithLogger(logger Logger) *AuthorizeEndpoint {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Handler returns the route handler for the authorize endpoint.
func (e *AuthorizeEndpoint) Handler() router.HandlerFunc {
	return func(c router.Context) error {
		if c.Method() != http.MethodGet {
			return e.inner(c)
		}

		rc := NewRouterRequestContext(c, WithBasePath(e.basePath))

		body, handled, err := e.Process(rc, queryValues(c))
		if err != nil {
			return err
		}
		if !handled {
			return e.inner(c)
		}

		c.SetHeader("Cache-Control", "no-store, no-cache, max-age=0")
		return c.JSON(http.StatusOK, body)
	}
}

// Process runs the anonymous authorize flow. handled is false when the
// request is not an anonymous "json" request and belongs to the host's
// own handler.
func (e *AuthorizeEndpoint) Process(rc RequestContext, params url.Values) (map[string]string, bool, error) {
	scope := e.services.Scope(rc)

	user, err := scope.Session.User()
	if err != nil {
		return nil, false, err
	}

	result, err := e.validator.Validate(rc, params, user)
	if err != nil {
		return nil, false, err
	}
	if result.IsError() {
		return nil, false, nil
	}

	request := result.Request
	if !request.IsAnonymous() || request.ResponseMode != ResponseModeJSON {
		return nil, false, nil
	}

	response, err := e.responses.CreateResponse(rc, request)
	if err != nil {
		return nil, false, err
	}

	body := response.ToMap()
	e.logger.Debug("anonymous authorize response: %s", print.MaybePrettyJSON(body))

	return body, true, nil
}

// EnsureSessionMiddleware re-issues (or removes) the session id cookie
// on every request so the cookie tracks the authoritative session
// property even after the two drift.
func EnsureSessionMiddleware(services *Services, basePath string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			rc := NewRouterRequestContext(c, WithBasePath(basePath))
			if err := services.Scope(rc).Session.EnsureSessionIDCookie(); err != nil {
				services.logger.Error("ensure session id cookie: %v", err)
			}
			return next(c)
		}
	}
}

func queryValues(c router.Context) url.Values {
	params := url.Values{}
	for k, v := range c.Queries() {
		params.Set(k, v)
	}
	return params
}
