package anonid_test

import (
	"testing"

	anonid "github.com/goliatone/go-anonid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The scenarios below walk a single browser through the full anonymous
// lifecycle: first visit, interactive login on the same browser, token
// lifetimes, and the aid claim visibility switch.

func TestAnonymousFirstVisit(t *testing.T) {
	f := newE2EFixture(t, nil)

	body, handled, rc := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	assert.Equal(t, "Bearer", body["token_type"])
	assert.Equal(t, "2592000", body["expires_in"])
	assert.NotEmpty(t, body["id_token"])
	assert.Equal(t, "openid", body["scope"])

	claims, err := f.host.ParseToken(body["access_token"])
	require.NoError(t, err)

	sub, _ := claims[anonid.ClaimSubject].(string)
	assert.NotEmpty(t, sub)
	assert.Equal(t, anonid.AmrAnonymous, claims[anonid.ClaimAuthenticationMethod])

	// the ssid claim mirrors the session check cookie
	sid, ok := f.browser.Cookie(anonid.DefaultCheckSharedSessionCookieName)
	require.True(t, ok)
	assert.Equal(t, sid, claims[anonid.ClaimSharedSessionID])

	// the browser now tracks the anonymous identity
	aid, ok := f.browser.Cookie(anonid.DefaultCheckAnonymousIDCookieName)
	require.True(t, ok)
	assert.Equal(t, sub, aid)

	cookie, ok := rc.OutboundCookie(anonid.DefaultCheckSharedSessionCookieName)
	require.True(t, ok)
	assert.False(t, cookie.HTTPOnly)

	// a repeat visit reuses the same anonymous user and session
	body2, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	claims2, err := f.host.ParseToken(body2["access_token"])
	require.NoError(t, err)
	assert.Equal(t, sub, claims2[anonid.ClaimSubject])
	assert.Equal(t, sid, claims2[anonid.ClaimSharedSessionID])
}

func TestAnonymousUpgradeToRealUser(t *testing.T) {
	f := newE2EFixture(t, nil)

	_, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	anonSub, ok := f.browser.Cookie(anonid.DefaultCheckAnonymousIDCookieName)
	require.True(t, ok)
	sid, ok := f.browser.Cookie(anonid.DefaultCheckSharedSessionCookieName)
	require.True(t, ok)

	// the user logs in for real on the same browser
	signInUser(t, f.services, f.browser, "bob", "password")

	// the anonymous tracking cookie is retired by the upgrade
	_, ok = f.browser.Cookie(anonid.DefaultCheckAnonymousIDCookieName)
	assert.False(t, ok)

	body, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	claims, err := f.host.ParseToken(body["access_token"])
	require.NoError(t, err)

	assert.Equal(t, "bob", claims[anonid.ClaimSubject])
	assert.Equal(t, "password", claims[anonid.ClaimAuthenticationMethod])

	// session continuity: same ssid, and the anonymous history travels
	// as the aid claim
	assert.Equal(t, sid, claims[anonid.ClaimSharedSessionID])
	assert.Equal(t, anonSub, claims[anonid.ClaimAnonymousID])

	// the real user is back on the host's token lifetime
	assert.Equal(t, "3600", body["expires_in"])
}

func TestAnonymousTokenLifetimes(t *testing.T) {
	opts := anonid.NewOptions()
	opts.AccessTokenLifetime = 5000

	f := newE2EFixture(t, opts)

	body, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)
	assert.Equal(t, "5000", body["expires_in"])

	claims, err := f.host.ParseToken(body["access_token"])
	require.NoError(t, err)

	exp, _ := claims["exp"].(float64)
	nbf, _ := claims["nbf"].(float64)
	assert.Equal(t, float64(5000), exp-nbf)
}

func TestAnonymousIDClaimVisibility(t *testing.T) {
	opts := anonid.NewOptions()
	opts.AlwaysIncludeAnonymousIDInProfile = false

	f := newE2EFixture(t, opts)

	_, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	anonSub, ok := f.browser.Cookie(anonid.DefaultCheckAnonymousIDCookieName)
	require.True(t, ok)

	signInUser(t, f.services, f.browser, "bob", "password")

	// no scope exposes the aid claim, so it stays out of the token
	body, handled, _ := f.authorize(t, anonymousAuthorizeParams("spa"))
	require.True(t, handled)

	claims, err := f.host.ParseToken(body["access_token"])
	require.NoError(t, err)
	assert.NotContains(t, claims, anonid.ClaimAnonymousID)

	// asking for it explicitly brings it back
	params := anonymousAuthorizeParams("spa")
	params.Set("scope", "openid "+anonid.ClaimAnonymousID)

	body, handled, _ = f.authorize(t, params)
	require.True(t, handled)

	claims, err = f.host.ParseToken(body["access_token"])
	require.NoError(t, err)
	assert.Equal(t, anonSub, claims[anonid.ClaimAnonymousID])
}
