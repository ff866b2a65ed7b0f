package store

import (
	"context"
	"sync"
	"time"
)

// CachedStore serves repeated reads from memory for a short window. Writes go
// straight through and refresh the cached snapshot.
type CachedStore struct {
	next    LedgerStore
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[TableName]cacheEntry
}

type cacheEntry struct {
	table   Table
	fetched time.Time
}

// NewCachedStore wraps next with a read cache. A non-positive ttl disables caching.
func NewCachedStore(next LedgerStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[TableName]cacheEntry),
	}
}

// ReadTable returns the cached table while fresh, otherwise reads through.
func (c *CachedStore) ReadTable(ctx context.Context, name TableName) (Table, error) {
	c.mu.Lock()
	entry, ok := c.entries[name]
	c.mu.Unlock()

	if ok && c.ttl > 0 && c.now().Sub(entry.fetched) < c.ttl {
		return entry.table.Clone(), nil
	}

	table, err := c.next.ReadTable(ctx, name)
	if err != nil {
		return Table{}, err
	}

	c.remember(name, table)
	return table.Clone(), nil
}

// WriteTable writes through. On failure the cached copy is dropped so the next
// read goes back to the backend.
func (c *CachedStore) WriteTable(ctx context.Context, name TableName, table Table) error {
	if err := c.next.WriteTable(ctx, name, table); err != nil {
		c.Invalidate(name)
		return err
	}
	c.remember(name, table)
	return nil
}

// Invalidate forgets the cached copy of a table.
func (c *CachedStore) Invalidate(name TableName) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

func (c *CachedStore) remember(name TableName, table Table) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{table: table.Clone(), fetched: c.now()}
}
