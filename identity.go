package anonid

import "github.com/google/uuid"

// AnonymousIdentity is an opaque identifier representing an
// unauthenticated visitor. It carries no other attributes and is never
// persisted server-side; it is reconstructed per request from cookie
// and session state.
type AnonymousIdentity struct {
	ID string
}

// IdentityFactory creates anonymous identities.
type IdentityFactory struct{}

// NewIdentityFactory returns a new IdentityFactory.
func NewIdentityFactory() *IdentityFactory {
	return &IdentityFactory{}
}

// Create returns an anonymous identity. With no argument a fresh random
// id is generated; pass an id to re-derive an existing identity from
// cookie or session state.
func (f *IdentityFactory) Create(id ...string) *AnonymousIdentity {
	if len(id) > 0 && id[0] != "" {
		return &AnonymousIdentity{ID: id[0]}
	}
	return &AnonymousIdentity{ID: uuid.New().String()}
}
