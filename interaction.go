package anonid

// InteractionResponse tells the authorize pipeline what interaction,
// if any, the end-user still has to perform.
type InteractionResponse struct {
	IsLogin          bool
	IsConsent        bool
	Error            string
	ErrorDescription string
}

// ConsentResponse is a previously gathered consent decision.
type ConsentResponse struct {
	ScopesConsented []string
}

// InteractionResponseGenerator is the host's interactive-login decision
// extension point.
type InteractionResponseGenerator interface {
	ProcessInteraction(rc RequestContext, req *ValidatedAuthorizeRequest, consent *ConsentResponse) (*InteractionResponse, error)
}

var _ InteractionResponseGenerator = (*InteractionResponseGeneratorDecorator)(nil)

// InteractionResponseGeneratorDecorator wraps the host's interaction
// generator: an already-anonymous subject always requires an
// interactive login, never a silent re-issue.
type InteractionResponseGeneratorDecorator struct {
	inner InteractionResponseGenerator
}

// DecorateInteraction wraps the host's interaction response generator.
func (s *Services) DecorateInteraction(inner InteractionResponseGenerator) *InteractionResponseGeneratorDecorator {
	return &InteractionResponseGeneratorDecorator{inner: inner}
}

// ProcessInteraction forces a login for anonymous subjects and
// delegates everything else.
func (d *InteractionResponseGeneratorDecorator) ProcessInteraction(rc RequestContext, req *ValidatedAuthorizeRequest, consent *ConsentResponse) (*InteractionResponse, error) {
	if req != nil && req.Subject.IsAnonymous() {
		return &InteractionResponse{IsLogin: true}, nil
	}

	return d.inner.ProcessInteraction(rc, req, consent)
}
