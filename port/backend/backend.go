// Package backend defines the port interface for generation backends.
package backend

import "context"

// Signal is the raw confidence signal attached to a generation.
// Mean is the backend's overall token probability in [0,1]; Spans, when
// present, carries per-span probabilities used to derive the low-confidence
// indicator. A nil Mean means the backend supplied no signal at all.
type Signal struct {
	Mean  *float64  `json:"mean"`
	Spans []float64 `json:"spans,omitempty"`
}

// Generation is a single raw response from a generation backend.
type Generation struct {
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
	Signal     Signal `json:"signal"`
}

// Generator is the port interface for a generation backend. Errors are
// opaque to callers: a failed call means "this candidate failed", nothing
// more.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string) (*Generation, error)
}
