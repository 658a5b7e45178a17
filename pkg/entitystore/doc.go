// Package entitystore provides a capability-oriented abstraction over a
// partitioned key-value store with up to two secondary indexes.
//
// All platform entities (users, email-lookup rows, sessions, organizations,
// teams) live in one physical table. A row is addressed by a typed
// storekey.Key and may project the same row into the two secondary indexes
// so it can be fetched by a non-primary attribute (email, user type).
//
// Two backends ship with the package: a DynamoDB implementation for
// production and a concurrent in-memory implementation used throughout the
// test suites. Both expose identical semantics through the Store interface:
// idempotent upserts, point reads by primary or index key, and deletes.
// The store performs no retries; transient backend failures surface as
// ErrUnavailable and the caller decides whether to retry.
package entitystore
