package anonid

// DiscoveryVisibility mirrors the host's discovery document visibility
// flags for the entries this package extends.
type DiscoveryVisibility struct {
	ShowResponseModes bool
	ShowClaims        bool
}

// DiscoveryResponseGenerator is the host's discovery document
// extension point. List-valued entries are []string.
type DiscoveryResponseGenerator interface {
	CreateDiscoveryDocument(rc RequestContext, baseURL, issuerURI string) (map[string]any, error)
}

var _ DiscoveryResponseGenerator = (*DiscoveryResponseGeneratorDecorator)(nil)

// DiscoveryResponseGeneratorDecorator wraps the host's discovery
// generator to advertise the "json" response mode and the "aid" claim.
type DiscoveryResponseGeneratorDecorator struct {
	inner      DiscoveryResponseGenerator
	services   *Services
	visibility DiscoveryVisibility
}

// DecorateDiscovery wraps the host's discovery response generator.
func (s *Services) DecorateDiscovery(inner DiscoveryResponseGenerator, visibility DiscoveryVisibility) *DiscoveryResponseGeneratorDecorator {
	return &DiscoveryResponseGeneratorDecorator{
		inner:      inner,
		services:   s,
		visibility: visibility,
	}
}

// CreateDiscoveryDocument delegates, then appends the anonymous
// entries idempotently, honoring the host's visibility flags.
func (d *DiscoveryResponseGeneratorDecorator) CreateDiscoveryDocument(rc RequestContext, baseURL, issuerURI string) (map[string]any, error) {
	entries, err := d.inner.CreateDiscoveryDocument(rc, baseURL, issuerURI)
	if err != nil {
		return nil, err
	}

	if d.visibility.ShowResponseModes {
		appendEntry(entries, DiscoveryResponseModesSupported, ResponseModeJSON)
	}

	if d.services.opts.AlwaysIncludeAnonymousIDInProfile && d.visibility.ShowClaims {
		appendEntry(entries, DiscoveryClaimsSupported, ClaimAnonymousID)
	}

	return entries, nil
}

func appendEntry(entries map[string]any, key, value string) {
	raw, ok := entries[key]
	if !ok {
		return
	}

	values, ok := raw.([]string)
	if !ok {
		return
	}

	for _, v := range values {
		if v == value {
			return
		}
	}

	entries[key] = append(values, value)
}
