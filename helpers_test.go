package anonid_test

import (
	"encoding/base64"
	"testing"

	anonid "github.com/goliatone/go-anonid"
	"github.com/goliatone/go-anonid/hosttest"
	"github.com/stretchr/testify/require"
)

func newTestServices(opts *anonid.Options) (*hosttest.Host, *anonid.Services) {
	host := hosttest.NewHost()
	return host, anonid.New(opts, host, host, host)
}

// encodeAID mirrors the wire encoding of the preserved anonymous id:
// base64url over a JSON string.
func encodeAID(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(`"` + id + `"`))
}

// signInAnonymous runs the anonymous sign-in on a fresh browser request
// and returns the anonymous subject and session id.
func signInAnonymous(t *testing.T, services *anonid.Services, b *hosttest.Browser) (sub, sid string) {
	t.Helper()

	rc := b.Request()
	scope := services.Scope(rc)

	require.NoError(t, scope.SignIn.SignIn(scope.Identities.Create()))

	user, err := scope.Session.User()
	require.NoError(t, err)
	require.NotNil(t, user)

	sid, err = scope.Session.SessionID()
	require.NoError(t, err)

	b.Commit(rc)
	return user.SubjectID(), sid
}

// signInUser signs an interactive user in on a fresh browser request.
func signInUser(t *testing.T, services *anonid.Services, b *hosttest.Browser, sub, amr string) {
	t.Helper()

	rc := b.Request()
	scope := services.Scope(rc)

	require.NoError(t, scope.Auth.SignIn(rc, "", hosttest.NewUserPrincipal(sub, amr), nil))

	b.Commit(rc)
}
