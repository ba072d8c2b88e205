package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Strob0t/RouteForge/service"
)

func TestExecute_MissThenHit(t *testing.T) {
	c := service.NewSemanticCache[string](nil)
	ctx := context.Background()

	compute := func(context.Context) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "expensive", nil
	}

	val, hit, missDur, err := c.Execute(ctx, "k1", compute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if hit {
		t.Fatal("first call must be a miss")
	}
	if val != "expensive" {
		t.Fatalf("expected computed value, got %q", val)
	}

	val, hit, hitDur, err := c.Execute(ctx, "k1", compute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !hit {
		t.Fatal("second call must be a hit")
	}
	if val != "expensive" {
		t.Fatalf("expected memoized value, got %q", val)
	}
	if hitDur > missDur*7/10 {
		t.Errorf("hit duration %v exceeds 70%% of miss duration %v", hitDur, missDur)
	}
}

func TestExecute_SingleFlight(t *testing.T) {
	c := service.NewSemanticCache[int](nil)
	ctx := context.Background()

	var invocations atomic.Int64
	release := make(chan struct{})
	compute := func(context.Context) (int, error) {
		invocations.Add(1)
		<-release
		return 42, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	values := make([]int, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			values[idx], _, _, errs[idx] = c.Execute(ctx, "fresh", compute)
		}(i)
	}

	// Give every caller time to reach the flight before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := invocations.Load(); n != 1 {
		t.Fatalf("expected exactly one compute invocation, got %d", n)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error %v", i, errs[i])
		}
		if values[i] != 42 {
			t.Fatalf("caller %d: expected 42, got %d", i, values[i])
		}
	}
}

func TestExecute_FailurePropagatesAndIsNotMemoized(t *testing.T) {
	c := service.NewSemanticCache[string](nil)
	ctx := context.Background()
	errBoom := errors.New("compute exploded")

	var invocations atomic.Int64
	release := make(chan struct{})
	failing := func(context.Context) (string, error) {
		invocations.Add(1)
		<-release
		return "", errBoom
	}

	const callers = 4
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _, _, errs[idx] = c.Execute(ctx, "doomed", failing)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := invocations.Load(); n != 1 {
		t.Fatalf("expected one shared failing flight, got %d invocations", n)
	}
	for i := 0; i < callers; i++ {
		if !errors.Is(errs[i], errBoom) {
			t.Fatalf("caller %d: expected compute failure, got %v", i, errs[i])
		}
	}
	if c.Len() != 0 {
		t.Fatal("failed computation must not be memoized")
	}

	// The key re-attempts after failure.
	val, hit, _, err := c.Execute(ctx, "doomed", func(context.Context) (string, error) {
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if hit {
		t.Fatal("re-attempt after failure must be a miss")
	}
	if val != "recovered" {
		t.Fatalf("expected recovered value, got %q", val)
	}
}

func TestExecute_DistinctKeysComputeIndependently(t *testing.T) {
	c := service.NewSemanticCache[string](nil)
	ctx := context.Background()

	var invocations atomic.Int64
	compute := func(context.Context) (string, error) {
		invocations.Add(1)
		return "v", nil
	}

	if _, _, _, err := c.Execute(ctx, "a", compute); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := c.Execute(ctx, "b", compute); err != nil {
		t.Fatal(err)
	}
	if n := invocations.Load(); n != 2 {
		t.Fatalf("expected 2 invocations for 2 keys, got %d", n)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 memoized entries, got %d", c.Len())
	}
}

func TestFingerprint_StableAndCollisionResistant(t *testing.T) {
	if service.Fingerprint("a", "bc") == service.Fingerprint("ab", "c") {
		t.Error("adjacent fields must not collide")
	}
	if service.Fingerprint("prompt", "model") != service.Fingerprint("prompt", "model") {
		t.Error("fingerprint must be stable")
	}
}
