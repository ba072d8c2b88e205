// Package cache defines the port interface for byte-level key-value caching
// used by the knowledge-graph query delegate. The semantic result cache is
// not behind this port: its memoization contract (process-lifetime retention,
// single-flight computation) is owned by the service layer.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
