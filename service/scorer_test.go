package service_test

import (
	"errors"
	"math"
	"testing"

	"github.com/Strob0t/RouteForge/port/backend"
	"github.com/Strob0t/RouteForge/service"
)

func signal(mean float64, spans ...float64) backend.Signal {
	return backend.Signal{Mean: &mean, Spans: spans}
}

func TestScore_Normalizes(t *testing.T) {
	s := service.NewScorer()

	score, err := s.Score(signal(0.85))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if score.Confidence != 85 {
		t.Errorf("expected confidence 85, got %v", score.Confidence)
	}
	if score.LowSpan != 85 {
		t.Errorf("expected low span to equal confidence without spans, got %v", score.LowSpan)
	}
}

func TestScore_LowSpanIsWorstSpan(t *testing.T) {
	s := service.NewScorer()

	score, err := s.Score(signal(0.9, 0.95, 0.4, 0.99))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if score.Confidence != 90 {
		t.Errorf("expected confidence 90, got %v", score.Confidence)
	}
	if score.LowSpan != 40 {
		t.Errorf("expected low span 40, got %v", score.LowSpan)
	}
}

func TestScore_Malformed(t *testing.T) {
	s := service.NewScorer()

	cases := []struct {
		name string
		sig  backend.Signal
	}{
		{"missing", backend.Signal{}},
		{"nan", signal(math.NaN())},
		{"negative", signal(-0.1)},
		{"above one", signal(1.5)},
		{"bad span", signal(0.9, 0.5, 2.0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Score(tc.sig)
			if !errors.Is(err, service.ErrMalformedSignal) {
				t.Fatalf("expected ErrMalformedSignal, got %v", err)
			}
		})
	}
}
