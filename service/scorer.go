// Package service implements the orchestration core: confidence scoring,
// ensemble routing, the semantic result cache, competitive team judging, and
// checkpoint recovery.
package service

import (
	"errors"
	"fmt"
	"math"

	"github.com/Strob0t/RouteForge/domain/ensemble"
	"github.com/Strob0t/RouteForge/port/backend"
)

// ErrMalformedSignal is returned when a backend confidence signal is missing
// or unreadable. Never mapped to a silent zero.
var ErrMalformedSignal = errors.New("scorer: malformed confidence signal")

// Scorer normalizes backend confidence signals to the [0,100] scale used by
// the ensemble router. It holds no state and never contacts the backend.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score converts a raw signal into the normalized confidence and the derived
// low-confidence span indicator. Raw values are probabilities in [0,1]; the
// indicator is the worst span probability when span signals exist, otherwise
// the overall confidence itself.
func (s *Scorer) Score(sig backend.Signal) (ensemble.Score, error) {
	if sig.Mean == nil {
		return ensemble.Score{}, fmt.Errorf("missing signal: %w", ErrMalformedSignal)
	}
	mean := *sig.Mean
	if !validProbability(mean) {
		return ensemble.Score{}, fmt.Errorf("signal %v out of range: %w", mean, ErrMalformedSignal)
	}

	score := ensemble.Score{
		Confidence: mean * 100,
		LowSpan:    mean * 100,
	}

	for _, span := range sig.Spans {
		if !validProbability(span) {
			return ensemble.Score{}, fmt.Errorf("span signal %v out of range: %w", span, ErrMalformedSignal)
		}
		if span*100 < score.LowSpan {
			score.LowSpan = span * 100
		}
	}

	return score, nil
}

func validProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
