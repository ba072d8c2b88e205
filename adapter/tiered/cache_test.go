package tiered_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/RouteForge/adapter/tiered"
)

// memCache is an in-memory cache.Cache for exercising the tier logic.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func TestGet_L1Hit(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)
	ctx := context.Background()

	l1.entries["k"] = []byte("from-l1")
	l2.entries["k"] = []byte("from-l2")

	val, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(val) != "from-l1" {
		t.Fatalf("L1 must win, got %q", val)
	}
}

func TestGet_L2HitBackfillsL1(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)
	ctx := context.Background()

	l2.entries["k"] = []byte("from-l2")

	val, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(val) != "from-l2" {
		t.Fatalf("got %q", val)
	}
	if !l1.has("k") {
		t.Fatal("L2 hit must backfill L1")
	}
}

func TestGet_Miss(t *testing.T) {
	c := tiered.New(newMemCache(), newMemCache(), time.Minute)

	_, ok, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected miss on both tiers")
	}
}

func TestGet_L1ErrorPropagates(t *testing.T) {
	l1 := newMemCache()
	l1.getErr = errors.New("l1 down")
	c := tiered.New(l1, newMemCache(), time.Minute)

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected L1 error to propagate")
	}
}

func TestSetDelete_BothTiers(t *testing.T) {
	l1, l2 := newMemCache(), newMemCache()
	c := tiered.New(l1, l2, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if !l1.has("k") || !l2.has("k") {
		t.Fatal("Set must write both tiers")
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if l1.has("k") || l2.has("k") {
		t.Fatal("Delete must clear both tiers")
	}
}
