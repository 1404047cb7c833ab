// Package anonid adds anonymous principals to an OpenID Connect /
// OAuth2 identity-provider host: visitors that never presented
// credentials still get a stable opaque identity, a cookie session,
// and tokens, and can later be upgraded in place to a real
// authenticated identity without losing session continuity.
//
// Session continuity:
//   - SharedSession owns the shared session id. When an anonymous
//     session is superseded by a sign-in (anonymous or interactive),
//     the session id is carried forward; a fresh id is only minted for
//     a brand-new session or when one authenticated user replaces a
//     different authenticated user.
//   - On an upgrade (anonymous -> real user) the superseded anonymous
//     subject is preserved in the authentication properties so the
//     "aid" claim can keep correlating pre- and post-login activity.
//
// Host integration:
//   - The host's protocol engine is consumed through single-method
//     extension-point interfaces (authorize/token validation, token
//     creation, profile data, discovery, interaction). Each feature
//     here wraps the host's implementation and delegates with narrow
//     anonymous-specific modifications; composition is explicit and
//     happens once at startup via Services.
//   - All durable state lives in the host's signed authentication
//     properties; the two tracking cookies are convenience mirrors and
//     never hold secrets.
package anonid
