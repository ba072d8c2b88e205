// Package evaluation defines the port interface consumed by offline
// threshold tuning. The tuner replaces the router's confidence threshold per
// trial, re-runs a fixed evaluation set through this harness, and keeps the
// threshold that maximizes Passed, breaking ties on minimal TotalTokens.
// The core itself never calls the harness; its only obligation is to honor
// whatever threshold value its config carries at call time.
package evaluation

import "context"

// Report is the outcome of one evaluation run.
type Report struct {
	Passed      int `json:"passed"`
	Total       int `json:"total"`
	TotalTokens int `json:"total_tokens"`
}

// Harness runs the fixed evaluation set against the current configuration.
type Harness interface {
	RunEvaluation(ctx context.Context) (Report, error)
}
