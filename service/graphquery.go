package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Strob0t/RouteForge/port/cache"
	"github.com/Strob0t/RouteForge/port/graph"
)

// GraphDelegate is the read-only path from team pipelines to the external
// knowledge-graph store. Every statement is validated before it is forwarded,
// so write verbs and chained statements never reach the store, and results
// are cached by statement fingerprint.
type GraphDelegate struct {
	store graph.Querier
	cache cache.Cache // optional
	ttl   time.Duration
}

// NewGraphDelegate creates a delegate over the given store. cache may be nil
// to disable result caching.
func NewGraphDelegate(store graph.Querier, c cache.Cache, ttl time.Duration) *GraphDelegate {
	return &GraphDelegate{store: store, cache: c, ttl: ttl}
}

// Query validates the statement, then serves it from cache or the store.
// Cache errors are logged and degrade to a store round-trip; a validation
// failure is returned before anything reaches the store.
func (d *GraphDelegate) Query(ctx context.Context, statement string) ([]byte, error) {
	if err := graph.Validate(statement); err != nil {
		return nil, err
	}

	key := "gq:" + Fingerprint(statement)
	if d.cache != nil {
		val, found, err := d.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("graph query cache get failed", "error", err)
		} else if found {
			return val, nil
		}
	}

	rows, err := d.store.Query(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("graph query: %w", err)
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, key, rows, d.ttl); err != nil {
			slog.Warn("graph query cache set failed", "error", err)
		}
	}
	return rows, nil
}
