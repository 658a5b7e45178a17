package entitystore

import "errors"

var (
	// ErrNotFound indicates the requested primary or index key has no row.
	// It is a normal lookup outcome, not a failure.
	ErrNotFound = errors.New("entitystore: not found")

	// ErrUnavailable indicates the backing store could not be reached or
	// timed out. The store performs no retries; callers may.
	ErrUnavailable = errors.New("entitystore: store unavailable")

	// ErrCorruptRecord indicates a stored row is missing a required
	// attribute or carries one of the wrong shape. Repositories return it
	// from their decode paths instead of panicking.
	ErrCorruptRecord = errors.New("entitystore: corrupt record")
)
