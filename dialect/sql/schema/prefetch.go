package schema

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// prefetchLimit bounds the number of concurrent catalog lookups.
const prefetchLimit = 8

// Prefetch loads the indexes of all tables concurrently and returns them
// as a Static introspector. The first failure cancels the remaining
// lookups.
func Prefetch(ctx context.Context, in Introspector, tables ...string) (Static, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchLimit)
	var mu sync.Mutex
	out := make(Static, len(tables))
	for _, table := range tables {
		g.Go(func() error {
			indexes, err := in.Indexes(ctx, table)
			if err != nil {
				return fmt.Errorf("schema: prefetch %s: %w", table, err)
			}
			mu.Lock()
			out[table] = indexes
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
