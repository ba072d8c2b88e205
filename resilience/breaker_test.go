package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBackend = errors.New("backend unavailable")

func failing() error { return errBackend }
func succeeding() error { return nil }

func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		if err := b.Do(failing); !errors.Is(err, errBackend) {
			t.Fatalf("call %d: expected backend error, got %v", i, err)
		}
	}

	if err := b.Do(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	_ = b.Do(failing)
	_ = b.Do(failing)
	if err := b.Do(succeeding); err != nil {
		t.Fatal(err)
	}

	// The counter restarted, so two more failures do not open the circuit.
	_ = b.Do(failing)
	_ = b.Do(failing)
	if err := b.Do(succeeding); errors.Is(err, ErrCircuitOpen) {
		t.Fatal("circuit must still be closed after a reset")
	}
}

func TestBreaker_ProbeAfterCooldown(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	if err := b.Do(failing); !errors.Is(err, errBackend) {
		t.Fatal(err)
	}
	if err := b.Do(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}

	// Cooldown elapses; the probe succeeds and the circuit closes.
	now = now.Add(time.Minute + time.Second)
	if err := b.Do(succeeding); err != nil {
		t.Fatalf("probe must be allowed through, got %v", err)
	}
	if err := b.Do(succeeding); err != nil {
		t.Fatalf("circuit must be closed after a successful probe, got %v", err)
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	now := time.Now()
	b.now = func() time.Time { return now }

	_ = b.Do(failing) // opens

	now = now.Add(time.Minute + time.Second)
	if err := b.Do(failing); !errors.Is(err, errBackend) {
		t.Fatalf("probe must run, got %v", err)
	}

	// The failed probe restarts the cooldown.
	if err := b.Do(succeeding); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed probe must reopen the circuit, got %v", err)
	}
}
