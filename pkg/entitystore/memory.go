package entitystore

import (
	"context"
	"sync"

	"github.com/metriclab/platformkit/pkg/storekey"
)

// MemoryStore implements Store using in-process maps. It mirrors the
// DynamoDB backend's semantics, including secondary-index projections, and
// is safe for concurrent use. Intended for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	rows    map[string]Row
	indexes map[Index]map[string]string // index -> encoded index key -> encoded primary key
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]Row),
		indexes: map[Index]map[string]string{
			IndexOne: make(map[string]string),
			IndexTwo: make(map[string]string),
		},
	}
}

// Put stores or replaces a row and reprojects its index entries.
func (m *MemoryStore) Put(ctx context.Context, row Row) error {
	if err := validateRow(row); err != nil {
		return err
	}

	pk := row.Key.Encode()

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.rows[pk]; exists {
		m.unproject(old)
	}

	stored := row
	stored.Attrs = row.Attrs.clone()
	m.rows[pk] = stored
	m.project(stored)
	return nil
}

// Get fetches a row by primary key.
func (m *MemoryStore) Get(ctx context.Context, key storekey.Key) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, exists := m.rows[key.Encode()]
	if !exists {
		return Row{}, ErrNotFound
	}

	row.Attrs = row.Attrs.clone()
	return row, nil
}

// GetByIndex fetches a row by its secondary-index projection.
func (m *MemoryStore) GetByIndex(ctx context.Context, index Index, key storekey.Key) (Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries, exists := m.indexes[index]
	if !exists {
		return Row{}, ErrNotFound
	}

	pk, exists := entries[key.Encode()]
	if !exists {
		return Row{}, ErrNotFound
	}

	row := m.rows[pk]
	row.Attrs = row.Attrs.clone()
	return row, nil
}

// Delete removes a row and its index projections.
func (m *MemoryStore) Delete(ctx context.Context, key storekey.Key) error {
	pk := key.Encode()

	m.mu.Lock()
	defer m.mu.Unlock()

	row, exists := m.rows[pk]
	if !exists {
		return ErrNotFound
	}

	m.unproject(row)
	delete(m.rows, pk)
	return nil
}

// Len reports the number of stored rows.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

func (m *MemoryStore) project(row Row) {
	if !row.Index1.IsZero() {
		m.indexes[IndexOne][row.Index1.Encode()] = row.Key.Encode()
	}
	if !row.Index2.IsZero() {
		m.indexes[IndexTwo][row.Index2.Encode()] = row.Key.Encode()
	}
}

func (m *MemoryStore) unproject(row Row) {
	if !row.Index1.IsZero() {
		delete(m.indexes[IndexOne], row.Index1.Encode())
	}
	if !row.Index2.IsZero() {
		delete(m.indexes[IndexTwo], row.Index2.Encode())
	}
}

// Compile-time interface assertion
var _ Store = (*MemoryStore)(nil)
