package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Strob0t/RouteForge/port/graph"
	"github.com/Strob0t/RouteForge/service"
)

type fakeStore struct {
	rows  []byte
	err   error
	calls int
}

func (s *fakeStore) Query(context.Context, string) ([]byte, error) {
	s.calls++
	return s.rows, s.err
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func TestGraphQuery_RejectsWritesBeforeStore(t *testing.T) {
	store := &fakeStore{rows: []byte("[]")}
	d := service.NewGraphDelegate(store, nil, 0)

	_, err := d.Query(context.Background(), "MATCH (n) DELETE n")
	var verr *graph.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Fatal("rejected statement must never reach the store")
	}
}

func TestGraphQuery_CachesResults(t *testing.T) {
	store := &fakeStore{rows: []byte(`[{"name":"api"}]`)}
	d := service.NewGraphDelegate(store, newFakeCache(), time.Minute)
	ctx := context.Background()

	const stmt = "MATCH (n:Service) RETURN n.name"
	first, err := d.Query(ctx, stmt)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Query(ctx, stmt)
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatalf("cached result differs: %q vs %q", first, second)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store round-trip, got %d", store.calls)
	}
}

func TestGraphQuery_CacheErrorDegradesToStore(t *testing.T) {
	store := &fakeStore{rows: []byte("[]")}
	c := newFakeCache()
	c.getErr = errors.New("cache down")
	c.setErr = c.getErr
	d := service.NewGraphDelegate(store, c, time.Minute)

	rows, err := d.Query(context.Background(), "MATCH (n) RETURN n")
	if err != nil {
		t.Fatalf("cache failure must degrade, not fail the query: %v", err)
	}
	if string(rows) != "[]" || store.calls != 1 {
		t.Fatalf("expected store round-trip, rows=%q calls=%d", rows, store.calls)
	}
}

func TestGraphQuery_StoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("store unreachable")}
	d := service.NewGraphDelegate(store, nil, 0)

	if _, err := d.Query(context.Background(), "MATCH (n) RETURN n"); err == nil {
		t.Fatal("expected store error to surface")
	}
}
