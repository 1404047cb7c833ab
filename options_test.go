package anonid_test

import (
	"testing"

	anonid "github.com/goliatone/go-anonid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions(t *testing.T) {
	opts := anonid.NewOptions()

	assert.Equal(t, anonid.DefaultTokenLifetime, opts.AccessTokenLifetime)
	assert.Equal(t, anonid.DefaultTokenLifetime, opts.IdentityTokenLifetime)
	assert.True(t, opts.AlwaysIncludeAnonymousIDInProfile)
	assert.True(t, opts.IncludeSharedSessionIDInAccessToken)
	assert.True(t, opts.EnableCheckSharedSessionEndpoint)
	assert.Equal(t, anonid.DefaultCheckSharedSessionCookieName, opts.CheckSharedSessionCookieName)
	assert.Equal(t, anonid.DefaultCheckAnonymousIDCookieName, opts.CheckAnonymousIDCookieName)
	assert.Empty(t, opts.CookieAuthenticationScheme)

	assert.NoError(t, opts.Validate())
}

func TestOptionsValidate(t *testing.T) {
	t.Run("zero lifetimes are invalid", func(t *testing.T) {
		opts := anonid.NewOptions()
		opts.AccessTokenLifetime = 0
		assert.Error(t, opts.Validate())
	})

	t.Run("cookie names are required", func(t *testing.T) {
		opts := anonid.NewOptions()
		opts.CheckSharedSessionCookieName = ""
		assert.Error(t, opts.Validate())
	})
}

func TestLoadOptions(t *testing.T) {
	t.Run("reads the environment", func(t *testing.T) {
		t.Setenv("ANONID_ACCESS_TOKEN_LIFETIME", "5000")
		t.Setenv("ANONID_ALWAYS_INCLUDE_AID_IN_PROFILE", "false")
		t.Setenv("ANONID_COOKIE_AUTHENTICATION_SCHEME", "custom.cookie")

		opts, err := anonid.LoadOptions()
		require.NoError(t, err)

		assert.Equal(t, 5000, opts.AccessTokenLifetime)
		assert.Equal(t, anonid.DefaultTokenLifetime, opts.IdentityTokenLifetime)
		assert.False(t, opts.AlwaysIncludeAnonymousIDInProfile)
		assert.Equal(t, "custom.cookie", opts.CookieAuthenticationScheme)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Setenv("ANONID_ACCESS_TOKEN_LIFETIME", "0")

		_, err := anonid.LoadOptions()
		assert.Error(t, err)
	})
}
