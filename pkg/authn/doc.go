// Package authn authenticates inbound HTTP requests by resolving a bearer
// credential into a session and, when the session is bound, the session
// into a user.
//
// The middleware walks a strict linear decision tree:
//
//   - no credential on a public read-only route: mint a fresh anonymous
//     session, expose it in the response Authorization header, continue;
//   - no credential anywhere else: reject;
//   - credential that does not resolve: reject;
//   - credential resolving to an anonymous session: continue unchanged;
//   - credential resolving to a bound session: load the user, reject if the
//     user record has drifted away, otherwise publish both session and user
//     in the request context and continue.
//
// Rejections are a fixed 401 with a constant body; no detail about the
// underlying cause is leaked to the caller. Which routes may be reached
// anonymously is an injected classification table, configurable per
// deployment and loadable from YAML.
package authn
