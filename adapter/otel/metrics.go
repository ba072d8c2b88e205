// Package otel provides OpenTelemetry metrics for the orchestration core.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "routeforge"

// Metrics holds all RouteForge metric instruments.
type Metrics struct {
	EnsembleAccepted  metric.Int64Counter
	EnsembleEscalated metric.Int64Counter
	EnsembleBaseline  metric.Int64Counter
	CandidatesDropped metric.Int64Counter
	CacheHits         metric.Int64Counter
	CacheMisses       metric.Int64Counter
	VerdictsJudged    metric.Int64Counter
	ApprovalsDenied   metric.Int64Counter
	CheckpointCorrupt metric.Int64Counter
	EnsembleAvgConf   metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.EnsembleAccepted, err = meter.Int64Counter("routeforge.ensemble.accepted",
		metric.WithDescription("Ensembles accepted locally"))
	if err != nil {
		return nil, err
	}

	m.EnsembleEscalated, err = meter.Int64Counter("routeforge.ensemble.escalated",
		metric.WithDescription("Ensembles escalated to the remote path"))
	if err != nil {
		return nil, err
	}

	m.EnsembleBaseline, err = meter.Int64Counter("routeforge.ensemble.baseline",
		metric.WithDescription("Baseline-mode bypasses"))
	if err != nil {
		return nil, err
	}

	m.CandidatesDropped, err = meter.Int64Counter("routeforge.ensemble.candidates_dropped",
		metric.WithDescription("Candidates dropped for backend failure or malformed signal"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("routeforge.semcache.hits",
		metric.WithDescription("Semantic cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("routeforge.semcache.misses",
		metric.WithDescription("Semantic cache misses"))
	if err != nil {
		return nil, err
	}

	m.VerdictsJudged, err = meter.Int64Counter("routeforge.oracle.verdicts",
		metric.WithDescription("Competitive verdicts judged"))
	if err != nil {
		return nil, err
	}

	m.ApprovalsDenied, err = meter.Int64Counter("routeforge.recovery.approvals_denied",
		metric.WithDescription("Checkpoint operations denied by the HITL approver"))
	if err != nil {
		return nil, err
	}

	m.CheckpointCorrupt, err = meter.Int64Counter("routeforge.recovery.checkpoint_corrupt",
		metric.WithDescription("Corrupt checkpoints treated as absent on load"))
	if err != nil {
		return nil, err
	}

	m.EnsembleAvgConf, err = meter.Float64Histogram("routeforge.ensemble.avg_confidence",
		metric.WithDescription("Average ensemble confidence per request"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
