package anonid_test

import (
	"testing"

	anonid "github.com/goliatone/go-anonid"
	"github.com/goliatone/go-anonid/hosttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInManager(t *testing.T) {
	t.Run("signs the identity in with the anon marker", func(t *testing.T) {
		host, services := newTestServices(nil)

		rc := hosttest.NewRequest()
		scope := services.Scope(rc)

		require.NoError(t, scope.SignIn.SignIn(scope.Identities.Create("anon-123")))

		key, ok := rc.Cookie(hosttest.AuthCookieName)
		require.True(t, ok)

		principal, props, ok := host.Session(key)
		require.True(t, ok)
		assert.Equal(t, "anon-123", principal.SubjectID())
		assert.True(t, principal.IsAnonymous())
		assert.Equal(t, hosttest.CookieScheme, principal.AuthenticationScheme)
		assert.True(t, props.Has(anonid.SessionIDKey))
	})

	t.Run("nil identity is rejected", func(t *testing.T) {
		_, services := newTestServices(nil)
		scope := services.Scope(hosttest.NewRequest())

		assert.ErrorIs(t, scope.SignIn.SignIn(nil), anonid.ErrNilIdentity)
	})

	t.Run("explicit cookie scheme overrides the host default", func(t *testing.T) {
		opts := anonid.NewOptions()
		opts.CookieAuthenticationScheme = "custom.cookie"

		_, services := newTestServices(opts)

		rc := hosttest.NewRequest()
		scope := services.Scope(rc)

		// the host only registers its own cookie scheme, so resolving a
		// custom one surfaces as a missing handler during session reads
		err := scope.SignIn.SignIn(scope.Identities.Create())
		assert.ErrorIs(t, err, anonid.ErrNoAuthenticationHandler)
	})
}
