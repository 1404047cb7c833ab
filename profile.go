package anonid

// ProfileDataRequest asks the profile service for a subject's claims.
type ProfileDataRequest struct {
	Subject             *Principal
	RequestedClaimTypes []string
	IssuedClaims        []Claim
}

// AddRequestedClaims issues only the claims whose type was requested.
func (r *ProfileDataRequest) AddRequestedClaims(claims []Claim) {
	for _, c := range claims {
		for _, requested := range r.RequestedClaimTypes {
			if c.Type == requested {
				r.IssuedClaims = append(r.IssuedClaims, c)
				break
			}
		}
	}
}

// IsActiveRequest asks the profile service whether a subject may still
// receive tokens.
type IsActiveRequest struct {
	Subject  *Principal
	IsActive bool
}

// ProfileService is the host's profile data extension point.
type ProfileService interface {
	ProfileData(rc RequestContext, req *ProfileDataRequest) error
	IsActive(rc RequestContext, req *IsActiveRequest) error
}

var _ ProfileService = (*ProfileServiceDecorator)(nil)

// ProfileServiceDecorator wraps the host's profile service to issue
// anonymous subject claims and to re-attach the "aid" claim to the
// real user that superseded an anonymous session.
type ProfileServiceDecorator struct {
	inner    ProfileService
	services *Services
}

// DecorateProfileService wraps the host's profile service.
func (s *Services) DecorateProfileService(inner ProfileService) *ProfileServiceDecorator {
	return &ProfileServiceDecorator{inner: inner, services: s}
}

// ProfileData populates anonymous claims before delegating.
func (d *ProfileServiceDecorator) ProfileData(rc RequestContext, req *ProfileDataRequest) error {
	if req == nil {
		return ErrNilRequest
	}

	scope := d.services.Scope(rc)

	if req.Subject.IsAnonymous() {
		sub := req.Subject.SubjectID()
		if sub == "" {
			return ErrNoSubjectClaim
		}

		anonUser, err := scope.Store.FindByID(sub)
		if err != nil {
			return err
		}
		if anonUser == nil {
			return ErrAnonymousUserNotFound
		}

		principal, err := scope.Principals.Create(anonUser)
		if err != nil {
			return err
		}

		req.AddRequestedClaims(principal.Claims)
	} else if req.Subject != nil {
		aid, err := d.anonymousIDClaim(scope, req.Subject)
		if err != nil {
			return err
		}

		if aid != nil {
			if d.services.opts.AlwaysIncludeAnonymousIDInProfile {
				req.IssuedClaims = append(req.IssuedClaims, *aid)
			} else {
				req.AddRequestedClaims([]Claim{*aid})
			}
		}
	}

	return d.inner.ProfileData(rc, req)
}

// IsActive treats an anonymous subject as active iff its identity can
// still be found; everything else is the host's call.
func (d *ProfileServiceDecorator) IsActive(rc RequestContext, req *IsActiveRequest) error {
	if req == nil {
		return ErrNilRequest
	}

	if req.Subject.IsAnonymous() {
		sub := req.Subject.SubjectID()
		if sub == "" {
			return ErrNoSubjectClaim
		}

		anonUser, err := d.services.Scope(rc).Store.FindByID(sub)
		if err != nil {
			return err
		}

		req.IsActive = anonUser != nil
		return nil
	}

	return d.inner.IsActive(rc, req)
}

// anonymousIDClaim resolves the aid for a real user: the session's
// preserved anonymous id first, then a claim inherited on the
// principal itself.
func (d *ProfileServiceDecorator) anonymousIDClaim(scope *Scope, subject *Principal) (*Claim, error) {
	anonID, err := scope.Session.AnonymousID()
	if err != nil {
		return nil, err
	}

	if anonID != "" {
		return &Claim{Type: ClaimAnonymousID, Value: anonID}, nil
	}

	if c, ok := subject.FindFirst(ClaimAnonymousID); ok {
		return &c, nil
	}

	return nil, nil
}
