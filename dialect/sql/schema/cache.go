package schema

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes the results of an Introspector per table. Concurrent
// misses for the same table share one lookup. Errors are not cached.
type Cache struct {
	in    Introspector
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	indexes []*Index
	expires time.Time
}

// NewCache returns a cache in front of in. A zero ttl keeps entries until
// they are invalidated.
func NewCache(in Introspector, ttl time.Duration) *Cache {
	return &Cache{
		in:      in,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Indexes returns the cached indexes of the table, loading them on a miss.
// The shared load is not cancelled with ctx, so one caller giving up does
// not fail the others waiting on the same table; the caller itself returns
// ctx.Err() as soon as ctx is done.
func (c *Cache) Indexes(ctx context.Context, table string) ([]*Index, error) {
	c.mu.RLock()
	e, ok := c.entries[table]
	c.mu.RUnlock()
	if ok && (e.expires.IsZero() || c.now().Before(e.expires)) {
		return e.indexes, nil
	}
	load := context.WithoutCancel(ctx)
	ch := c.group.DoChan(table, func() (any, error) {
		indexes, err := c.in.Indexes(load, table)
		if err != nil {
			return nil, err
		}
		e := cacheEntry{indexes: indexes}
		if c.ttl > 0 {
			e.expires = c.now().Add(c.ttl)
		}
		c.mu.Lock()
		c.entries[table] = e
		c.mu.Unlock()
		return indexes, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]*Index), nil
	}
}

// Invalidate drops the cached entry of the table.
func (c *Cache) Invalidate(table string) {
	c.mu.Lock()
	delete(c.entries, table)
	c.mu.Unlock()
}

// Clear drops all cached entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ Introspector = (*Cache)(nil)
