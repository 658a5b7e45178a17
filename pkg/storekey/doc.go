// Package storekey encodes entity identities into the tagged composite keys
// used by the platform's single-table store, and decodes stored keys back
// into typed references.
//
// Every entity row is addressed by a key of the form "<TAG>#<id>", e.g.
// "USER#01hx..." or "EMAIL#jane@acme.com". The tag is a storage-layer detail:
// business code works with typed Key values and only the store boundary calls
// Encode/Decode. A Key is a small value type and is safe to copy and compare.
package storekey
