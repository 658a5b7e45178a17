package entitystore

import (
	"context"
	"fmt"

	"github.com/metriclab/platformkit/pkg/storekey"
)

// Index names a secondary lookup axis on the table.
type Index string

// The table carries two global secondary indexes. By convention the first
// holds the email axis and the second the user-type classification axis,
// but the store itself is agnostic about what callers project into them.
const (
	IndexOne Index = "GSI1"
	IndexTwo Index = "GSI2"
)

// Record holds the plain attributes of a row, excluding key and index
// projections. Values are strings or bools; anything else is rejected at
// the store boundary.
type Record map[string]any

// String returns a string attribute. The second result is false when the
// attribute is absent or not a string.
func (r Record) String(name string) (string, bool) {
	v, ok := r[name].(string)
	return v, ok
}

// Bool returns a bool attribute. The second result is false when the
// attribute is absent or not a bool.
func (r Record) Bool(name string) (bool, bool) {
	v, ok := r[name].(bool)
	return v, ok
}

// clone returns a shallow copy so callers cannot mutate stored state.
func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Row is a single stored item: a primary key, optional secondary-index
// projections, and the remaining attributes. A zero Index key means the row
// is not projected into that index.
type Row struct {
	Key    storekey.Key
	Index1 storekey.Key
	Index2 storekey.Key
	Attrs  Record
}

// Store is the capability surface repositories build on. Implementations
// must provide per-key atomicity for single-item operations; multi-row
// sequences (such as the user + email-index pair) are not transactional.
type Store interface {
	// Put is an idempotent upsert; overwriting an existing row is not an
	// error. Index projections are replaced wholesale.
	Put(ctx context.Context, row Row) error

	// Get fetches a row by primary key. Returns ErrNotFound when absent.
	Get(ctx context.Context, key storekey.Key) (Row, error)

	// GetByIndex fetches a row by its projection into the named index.
	// Returns ErrNotFound when no row projects the given key.
	GetByIndex(ctx context.Context, index Index, key storekey.Key) (Row, error)

	// Delete removes a row by primary key. Returns ErrNotFound when the
	// row does not exist.
	Delete(ctx context.Context, key storekey.Key) error
}

// validateRow rejects rows the backends cannot represent.
func validateRow(row Row) error {
	if row.Key.IsZero() {
		return fmt.Errorf("%w: row has no primary key", ErrCorruptRecord)
	}
	for name, v := range row.Attrs {
		switch v.(type) {
		case string, bool:
		default:
			return fmt.Errorf("%w: attribute %q has unsupported type %T", ErrCorruptRecord, name, v)
		}
	}
	return nil
}
