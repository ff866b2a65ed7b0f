package store

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in process memory. It backs local demos and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[TableName]Table
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[TableName]Table)}
}

// ReadTable returns a copy of the stored table, or an empty table.
func (m *MemoryStore) ReadTable(_ context.Context, name TableName) (Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables[name].Clone(), nil
}

// WriteTable replaces the stored table.
func (m *MemoryStore) WriteTable(_ context.Context, name TableName, table Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = table.Clone()
	return nil
}
