// Package session manages the platform's server-issued identity tokens.
//
// A session is either anonymous or bound to a user id. Anonymous sessions
// are minted for unauthenticated clients on public read-only routes; bound
// sessions are minted on login. The session id itself is the bearer
// credential presented on subsequent requests.
//
// All session state lives in the entity store; the Manager holds no
// in-process state and is safe for concurrent use.
//
// Sessions do not expire. This is an explicit policy, not an omission:
// a resolved session stays valid until it is revoked. Revoke is the
// extension point for future expiry or logout flows.
package session
