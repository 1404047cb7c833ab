package anonid_test

import (
	"testing"
	"time"

	anonid "github.com/goliatone/go-anonid"
	"github.com/goliatone/go-anonid/hosttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSessionCreateSessionID(t *testing.T) {
	t.Run("anonymous sign in mints a session id", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		rc := b.Request()
		scope := services.Scope(rc)

		require.NoError(t, scope.SignIn.SignIn(scope.Identities.Create()))

		sid, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.Len(t, sid, 32)

		cookie, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		require.True(t, ok)
		assert.Equal(t, sid, cookie.Value)
		assert.False(t, cookie.HTTPOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, "None", cookie.SameSite)
		assert.True(t, cookie.Essential)
		assert.Equal(t, "/", cookie.Path)
	})

	t.Run("upgrade to a real user keeps the session id", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		anonSub, anonSID := signInAnonymous(t, services, b)

		rc := b.Request()
		scope := services.Scope(rc)

		require.NoError(t, scope.Auth.SignIn(rc, "", hosttest.NewUserPrincipal("bob", "password"), nil))

		sid, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.Equal(t, anonSID, sid)

		aid, err := scope.Session.AnonymousID()
		require.NoError(t, err)
		assert.Equal(t, anonSub, aid)
	})

	t.Run("upgrade survives the round trip to the next request", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		anonSub, anonSID := signInAnonymous(t, services, b)
		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		scope := services.Scope(rc)

		user, err := scope.Session.User()
		require.NoError(t, err)
		assert.Equal(t, "bob", user.SubjectID())
		assert.False(t, user.IsAnonymous())

		sid, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.Equal(t, anonSID, sid)

		aid, err := scope.Session.AnonymousID()
		require.NoError(t, err)
		assert.Equal(t, anonSub, aid)
	})

	t.Run("a different real user replaces the session id", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		scope := services.Scope(rc)

		sidBob, err := scope.Session.SessionID()
		require.NoError(t, err)
		require.NotEmpty(t, sidBob)

		require.NoError(t, scope.Auth.SignIn(rc, "", hosttest.NewUserPrincipal("alice", "password"), nil))

		sidAlice, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.NotEmpty(t, sidAlice)
		assert.NotEqual(t, sidBob, sidAlice)
	})

	t.Run("a new anonymous user keeps the previous anonymous session id", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		_, firstSID := signInAnonymous(t, services, b)

		rc := b.Request()
		scope := services.Scope(rc)

		require.NoError(t, scope.SignIn.SignIn(scope.Identities.Create()))

		sid, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.Equal(t, firstSID, sid)
	})

	t.Run("signing the same user in again mints a fresh session id", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		scope := services.Scope(rc)

		before, err := scope.Session.SessionID()
		require.NoError(t, err)
		require.NotEmpty(t, before)

		// a re-sign-in starts from an empty properties bag, so nothing
		// carries the old id forward
		require.NoError(t, scope.Auth.SignIn(rc, "", hosttest.NewUserPrincipal("bob", "password"), nil))

		after, err := scope.Session.SessionID()
		require.NoError(t, err)
		assert.NotEmpty(t, after)
		assert.NotEqual(t, before, after)

		cookie, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		require.True(t, ok)
		assert.Equal(t, after, cookie.Value)

		aid, err := scope.Session.AnonymousID()
		require.NoError(t, err)
		assert.Empty(t, aid)
	})

	t.Run("nil arguments are rejected", func(t *testing.T) {
		_, services := newTestServices(nil)
		scope := services.Scope(hosttest.NewRequest())

		err := scope.Session.CreateSessionID(nil, anonid.NewProperties())
		assert.ErrorIs(t, err, anonid.ErrNilPrincipal)

		err = scope.Session.CreateSessionID(hosttest.NewUserPrincipal("bob", "password"), nil)
		assert.ErrorIs(t, err, anonid.ErrNilProperties)
	})

	t.Run("an unwired authentication service is a configuration error", func(t *testing.T) {
		host, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInAnonymous(t, services, b)

		// a session built without WithAuthenticationService cannot
		// persist the anonymous id during an upgrade
		rc := b.Request()
		session := anonid.NewSharedSession(rc, host, host, nil)

		err := session.CreateSessionID(hosttest.NewUserPrincipal("bob", "password"), anonid.NewProperties())
		assert.ErrorIs(t, err, anonid.ErrNoAuthenticationService)
	})
}

func TestSharedSessionCookiePolicy(t *testing.T) {
	t.Run("cookie is not rewritten when the value is unchanged", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		scope := services.Scope(rc)

		require.NoError(t, scope.Session.EnsureSessionIDCookie())

		_, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		assert.False(t, ok)
	})

	t.Run("cookie is re-issued when the browser value drifted", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		rc.SetInboundCookie(anonid.DefaultCheckSharedSessionCookieName, "drifted")
		scope := services.Scope(rc)

		require.NoError(t, scope.Session.EnsureSessionIDCookie())

		sid, err := scope.Session.SessionID()
		require.NoError(t, err)

		cookie, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		require.True(t, ok)
		assert.Equal(t, sid, cookie.Value)
	})

	t.Run("stale cookie without a session is removed", func(t *testing.T) {
		_, services := newTestServices(nil)

		rc := hosttest.NewRequest()
		rc.SetInboundCookie(anonid.DefaultCheckSharedSessionCookieName, "stale")
		scope := services.Scope(rc)

		require.NoError(t, scope.Session.EnsureSessionIDCookie())

		cookie, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		require.True(t, ok)
		assert.True(t, cookie.Expires.Before(time.Now()))
	})

	t.Run("removal is skipped when the request carried no cookie", func(t *testing.T) {
		_, services := newTestServices(nil)

		rc := hosttest.NewRequest()
		scope := services.Scope(rc)

		require.NoError(t, scope.Session.RemoveSessionIDCookie())

		_, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		assert.False(t, ok)
	})

	t.Run("disabled feature issues no cookie", func(t *testing.T) {
		opts := anonid.NewOptions()
		opts.EnableCheckSharedSessionEndpoint = false

		_, services := newTestServices(opts)
		b := hosttest.NewBrowser()

		rc := b.Request()
		scope := services.Scope(rc)

		require.NoError(t, scope.SignIn.SignIn(scope.Identities.Create()))

		_, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
		assert.False(t, ok)
	})
}

func TestSharedSessionAnonymousID(t *testing.T) {
	t.Run("empty when nothing was preserved", func(t *testing.T) {
		_, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		rc := b.Request()
		aid, err := services.Scope(rc).Session.AnonymousID()
		require.NoError(t, err)
		assert.Empty(t, aid)
	})

	t.Run("an undecodable value self-heals", func(t *testing.T) {
		host, services := newTestServices(nil)
		b := hosttest.NewBrowser()

		signInUser(t, services, b, "bob", "password")

		key, ok := b.Cookie(hosttest.AuthCookieName)
		require.True(t, ok)

		_, props, ok := host.Session(key)
		require.True(t, ok)
		props.Set(anonid.AnonymousIDKey, "%%%not-base64url%%%")

		rc := b.Request()
		scope := services.Scope(rc)

		aid, err := scope.Session.AnonymousID()
		require.NoError(t, err)
		assert.Empty(t, aid)

		// the corrupted value is gone from the persisted session
		_, props, ok = host.Session(key)
		require.True(t, ok)
		assert.False(t, props.Has(anonid.AnonymousIDKey))

		b.Commit(rc)

		rc2 := b.Request()
		aid, err = services.Scope(rc2).Session.AnonymousID()
		require.NoError(t, err)
		assert.Empty(t, aid)
	})
}
