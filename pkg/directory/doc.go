// Package directory provides typed repositories for the platform's user,
// organization and team entities on top of the entity store.
//
// Each repository owns its key-layout conventions: users occupy a primary
// row plus a denormalized email-lookup row (the store's secondary index only
// projects keys, so reverse lookup by email needs its own row), while
// organizations and teams are single rows. Repositories translate between
// raw store rows and typed entities; a row missing a required attribute is
// reported as entitystore.ErrCorruptRecord, never defaulted and never a
// panic.
//
// Identifiers are fixed-length random strings generated at creation time.
// Collision probability is treated as negligible; no uniqueness check is
// performed against the store.
package directory
