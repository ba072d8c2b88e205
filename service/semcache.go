package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	otelad "github.com/Strob0t/RouteForge/adapter/otel"
)

// SemanticCache memoizes an expensive keyed computation for the process
// lifetime. "Semantic" refers to how callers derive keys (a fingerprint of
// request meaning), not to any matching logic here. Keys are opaque strings.
//
// For a given key at most one compute is ever in flight: callers arriving
// during a flight join it and receive the same value or the same failure as
// the originator. Successful values are memoized indefinitely; retention is
// unbounded by contract, and no TTL or eviction is applied. Failed keys are
// not memoized, so the next Execute re-attempts the computation.
type SemanticCache[V any] struct {
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*cacheEntry[V]
	metrics *otelad.Metrics // optional
}

type cacheEntry[V any] struct {
	value        V
	createdAt    time.Time
	lastDuration time.Duration // duration of the compute that produced value
}

// NewSemanticCache creates an empty cache. metrics may be nil.
func NewSemanticCache[V any](metrics *otelad.Metrics) *SemanticCache[V] {
	return &SemanticCache[V]{
		entries: make(map[string]*cacheEntry[V]),
		metrics: metrics,
	}
}

// Execute returns the memoized value for key, or runs compute to produce it.
// hit reports whether the value came from the cache (including joining an
// in-flight computation); dur is the time this caller spent in Execute. A
// memoized hit is a map lookup, asymptotically cheaper than the compute.
func (c *SemanticCache[V]) Execute(ctx context.Context, key string, compute func(context.Context) (V, error)) (value V, hit bool, dur time.Duration, err error) {
	start := time.Now()

	if e, ok := c.lookup(key); ok {
		c.recordHit(ctx, true)
		return e.value, true, time.Since(start), nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		// A finished flight may have published between our lookup and this
		// claim; the entry is authoritative.
		if e, ok := c.lookup(key); ok {
			return e.value, nil
		}

		computeStart := time.Now()
		val, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry[V]{
			value:        val,
			createdAt:    time.Now(),
			lastDuration: time.Since(computeStart),
		}
		c.mu.Unlock()
		return val, nil
	})
	if err != nil {
		var zero V
		c.recordHit(ctx, false)
		return zero, false, time.Since(start), err
	}

	c.recordHit(ctx, shared)
	return v.(V), shared, time.Since(start), nil
}

// Len returns the number of memoized entries.
func (c *SemanticCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SemanticCache[V]) lookup(key string) (*cacheEntry[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *SemanticCache[V]) recordHit(ctx context.Context, hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHits.Add(ctx, 1)
	} else {
		c.metrics.CacheMisses.Add(ctx, 1)
	}
}

// Fingerprint derives a stable cache key from the meaning-bearing parts of a
// request (prompt, model, mode flags). Parts are length-prefixed so adjacent
// fields cannot collide.
func Fingerprint(parts ...string) string {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(strconv.Itoa(len(p)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(p)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
