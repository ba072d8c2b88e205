// Package resilience provides reliability patterns for external service calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker implements a circuit breaker for generation-backend calls.
// After maxFailures consecutive failures the circuit opens for cooldown;
// the first call after the cooldown elapses probes the backend (half-open),
// and its outcome decides whether the circuit closes again.
type Breaker struct {
	mu          sync.Mutex
	failures    int
	maxFailures int
	cooldown    time.Duration
	openUntil   time.Time
	probing     bool
	now         func() time.Time // for testing
}

// NewBreaker creates a circuit breaker.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// Do runs fn unless the circuit is open, recording the outcome.
func (b *Breaker) Do(fn func() error) error {
	if !b.claim() {
		return ErrCircuitOpen
	}

	err := fn()
	b.record(err)
	return err
}

// claim reports whether a call may proceed, marking the probe slot when the
// cooldown has elapsed.
func (b *Breaker) claim() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.openUntil.IsZero() {
		return true
	}
	if b.now().Before(b.openUntil) {
		return false
	}
	b.probing = true
	return true
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		b.openUntil = time.Time{}
		b.probing = false
		return
	}

	b.failures++
	if b.probing || b.failures >= b.maxFailures {
		b.openUntil = b.now().Add(b.cooldown)
		b.probing = false
	}
}
