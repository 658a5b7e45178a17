package storekey

import (
	"fmt"
	"strings"
)

// Kind identifies which entity type a key addresses.
type Kind string

// Known key tags. The tag doubles as the key prefix in the store.
const (
	KindUser     Kind = "USER"
	KindEmail    Kind = "EMAIL"
	KindSession  Kind = "SESSION"
	KindOrg      Kind = "ORG"
	KindTeam     Kind = "TEAM"
	KindUserType Kind = "USERTYPE"
)

// separator joins the tag and the raw id. Raw ids must never contain it;
// that invariant is owned by the id generators, not enforced here.
const separator = "#"

// Key is a typed reference to a stored entity. The zero Key is invalid and
// reports IsZero; it is used to mark absent secondary-index projections.
type Key struct {
	kind Kind
	id   string
}

// User returns the primary key for a user row.
func User(id string) Key { return Key{kind: KindUser, id: id} }

// Email returns the key for the denormalized email-lookup row. The same key
// is used as the email-axis secondary-index projection on the user row.
func Email(email string) Key { return Key{kind: KindEmail, id: email} }

// Session returns the primary key for a session row.
func Session(id string) Key { return Key{kind: KindSession, id: id} }

// Org returns the primary key for an organization row.
func Org(id string) Key { return Key{kind: KindOrg, id: id} }

// Team returns the primary key for a team row.
func Team(id string) Key { return Key{kind: KindTeam, id: id} }

// UserType returns the type-classification secondary-index key.
func UserType(t string) Key { return Key{kind: KindUserType, id: t} }

// Kind reports which entity type the key addresses.
func (k Key) Kind() Kind { return k.kind }

// ID returns the logical identifier without the storage tag.
func (k Key) ID() string { return k.id }

// IsZero reports whether the key is the zero value.
func (k Key) IsZero() bool { return k.kind == "" && k.id == "" }

// Encode serializes the key into its storage form "<TAG>#<id>".
func (k Key) Encode() string { return string(k.kind) + separator + k.id }

// String implements fmt.Stringer using the storage form.
func (k Key) String() string { return k.Encode() }

// Decode parses a stored key back into a typed Key. It fails with
// ErrMalformedKey when the separator is missing or the tag is unknown.
// Decode(k.Encode()) round-trips for every well-formed Key.
func Decode(raw string) (Key, error) {
	tag, id, ok := strings.Cut(raw, separator)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q has no separator", ErrMalformedKey, raw)
	}

	switch kind := Kind(tag); kind {
	case KindUser, KindEmail, KindSession, KindOrg, KindTeam, KindUserType:
		return Key{kind: kind, id: id}, nil
	default:
		return Key{}, fmt.Errorf("%w: unknown tag %q", ErrMalformedKey, tag)
	}
}
