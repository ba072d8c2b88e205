package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	otelad "github.com/Strob0t/RouteForge/adapter/otel"
	"github.com/Strob0t/RouteForge/config"
	"github.com/Strob0t/RouteForge/domain/ensemble"
	"github.com/Strob0t/RouteForge/logger"
	"github.com/Strob0t/RouteForge/port/backend"
)

// remoteConfidence is the fixed trust assigned to escalated responses.
const remoteConfidence = 100

// EnsembleRouter produces a trusted answer for a prompt, balancing cost
// against correctness. It generates up to EnsembleSize candidates on the
// local backend, scores them, and either accepts the best one or escalates
// the prompt to the remote backend. The router performs no caching; callers
// that want memoization wrap Generate with a SemanticCache.
type EnsembleRouter struct {
	local   backend.Generator
	remote  backend.Generator
	scorer  *Scorer
	cfg     config.Router
	sem     *semaphore.Weighted
	metrics *otelad.Metrics // optional
}

// NewEnsembleRouter creates a router over a local and a remote backend.
// cfg is copied; later trials derive new config values instead of mutating
// this one. metrics may be nil.
func NewEnsembleRouter(local, remote backend.Generator, scorer *Scorer, cfg config.Router, metrics *otelad.Metrics) *EnsembleRouter {
	limit := cfg.MaxParallel
	if limit < 1 {
		limit = cfg.EnsembleSize
	}
	if limit < 1 {
		limit = 1
	}
	return &EnsembleRouter{
		local:   local,
		remote:  remote,
		scorer:  scorer,
		cfg:     cfg,
		sem:     semaphore.NewWeighted(int64(limit)),
		metrics: metrics,
	}
}

// Generate routes one prompt. In baseline mode it makes exactly one
// minimal-cost local call and returns it unconditionally. Otherwise it
// evaluates the local ensemble against the configured thresholds and either
// accepts the selected candidate or escalates to the remote backend. The
// remote response is treated as maximally trusted; a remote failure is fatal
// to the request, never silently retried.
func (r *EnsembleRouter) Generate(ctx context.Context, prompt, systemPrompt string) (*ensemble.Result, error) {
	if logger.RunID(ctx) == "" {
		ctx = logger.WithRunID(ctx, uuid.NewString())
	}

	if r.cfg.Baseline {
		return r.generateBaseline(ctx, prompt, systemPrompt)
	}

	candidates, err := r.generateEnsemble(ctx, prompt, systemPrompt)
	if err != nil {
		return nil, err
	}

	result := scoreEnsemble(candidates)
	if result.AvgConfidence >= r.cfg.ConfidenceThreshold && result.GroupLowConfidence >= r.cfg.ReliabilityThreshold {
		result.Decision = ensemble.DecisionAccepted
		if r.metrics != nil {
			r.metrics.EnsembleAccepted.Add(ctx, 1)
			r.metrics.EnsembleAvgConf.Record(ctx, result.AvgConfidence)
		}
		slog.Info("ensemble accepted",
			"candidates", len(result.Responses),
			"avg_confidence", result.AvgConfidence,
			"group_low", result.GroupLowConfidence,
		)
		return result, nil
	}

	slog.Info("ensemble below thresholds, escalating",
		"avg_confidence", result.AvgConfidence,
		"group_low", result.GroupLowConfidence,
		"confidence_threshold", r.cfg.ConfidenceThreshold,
		"reliability_threshold", r.cfg.ReliabilityThreshold,
	)
	return r.escalate(ctx, prompt, systemPrompt)
}

// generateEnsemble issues up to EnsembleSize parallel generation calls and
// returns the successful candidates in issuance order. Tie-breaks depend on
// issuance order, so slots are indexed rather than appended on completion.
func (r *EnsembleRouter) generateEnsemble(ctx context.Context, prompt, systemPrompt string) ([]ensemble.Candidate, error) {
	slots := make([]*ensemble.Candidate, r.cfg.EnsembleSize)

	// The semaphore is acquired here, not inside the goroutine, so calls are
	// issued in index order even when completion order differs.
	var wg sync.WaitGroup
	for i := range slots {
		if err := r.sem.Acquire(ctx, 1); err != nil {
			slog.Warn("ensemble issuance cancelled", "index", i, "error", err)
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer r.sem.Release(1)

			gen, err := r.local.Generate(ctx, prompt, systemPrompt)
			if err != nil {
				r.dropCandidate(ctx, idx, "backend failure", err)
				return
			}
			score, err := r.scorer.Score(gen.Signal)
			if err != nil {
				r.dropCandidate(ctx, idx, "malformed signal", err)
				return
			}
			slots[idx] = &ensemble.Candidate{
				Text:            gen.Text,
				TokensGenerated: gen.TokenCount,
				Confidence:      score.Confidence,
				LowSpan:         score.LowSpan,
				Source:          ensemble.SourceLocal,
			}
		}(i)
	}
	wg.Wait()

	candidates := make([]ensemble.Candidate, 0, len(slots))
	for _, c := range slots {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	if len(candidates) == 0 {
		return nil, ensemble.ErrNoViableResponse
	}
	return candidates, nil
}

func (r *EnsembleRouter) dropCandidate(ctx context.Context, idx int, reason string, err error) {
	if r.metrics != nil {
		r.metrics.CandidatesDropped.Add(ctx, 1)
	}
	slog.Warn("ensemble candidate dropped", "index", idx, "reason", reason, "error", err)
}

// scoreEnsemble computes the aggregate confidence fields and selects the
// highest-confidence candidate, ties going to the earliest issued.
func scoreEnsemble(candidates []ensemble.Candidate) *ensemble.Result {
	selected := 0
	sum := 0.0
	groupLow := candidates[0].LowSpan
	for i, c := range candidates {
		sum += c.Confidence
		if c.LowSpan < groupLow {
			groupLow = c.LowSpan
		}
		if c.Confidence > candidates[selected].Confidence {
			selected = i
		}
	}
	return &ensemble.Result{
		Responses:           candidates,
		Selected:            selected,
		AvgConfidence:       sum / float64(len(candidates)),
		GroupLowConfidence:  groupLow,
		SingleLowConfidence: candidates[selected].LowSpan,
	}
}

// escalate routes the prompt to the remote backend. The response is assigned
// fixed maximal confidence and returned without further ensemble evaluation.
func (r *EnsembleRouter) escalate(ctx context.Context, prompt, systemPrompt string) (*ensemble.Result, error) {
	gen, err := r.remote.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("remote escalation: %w", err)
	}
	if r.metrics != nil {
		r.metrics.EnsembleEscalated.Add(ctx, 1)
	}

	c := ensemble.Candidate{
		Text:            gen.Text,
		TokensGenerated: gen.TokenCount,
		Confidence:      remoteConfidence,
		LowSpan:         remoteConfidence,
		Source:          ensemble.SourceRemote,
	}
	return &ensemble.Result{
		Responses:           []ensemble.Candidate{c},
		Selected:            0,
		AvgConfidence:       remoteConfidence,
		GroupLowConfidence:  remoteConfidence,
		SingleLowConfidence: remoteConfidence,
		Decision:            ensemble.DecisionEscalated,
	}, nil
}

// generateBaseline makes exactly one minimal-cost local call and returns it
// unconditionally. A cost override, not a confidence decision: thresholds are
// not consulted and a low score does not escalate.
func (r *EnsembleRouter) generateBaseline(ctx context.Context, prompt, systemPrompt string) (*ensemble.Result, error) {
	gen, err := r.local.Generate(ctx, prompt, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("baseline generation: %w", err)
	}
	score, err := r.scorer.Score(gen.Signal)
	if err != nil {
		return nil, fmt.Errorf("baseline generation: %w", err)
	}
	if r.metrics != nil {
		r.metrics.EnsembleBaseline.Add(ctx, 1)
	}

	c := ensemble.Candidate{
		Text:            gen.Text,
		TokensGenerated: gen.TokenCount,
		Confidence:      score.Confidence,
		LowSpan:         score.LowSpan,
		Source:          ensemble.SourceLocal,
	}
	return &ensemble.Result{
		Responses:           []ensemble.Candidate{c},
		Selected:            0,
		AvgConfidence:       score.Confidence,
		GroupLowConfidence:  score.LowSpan,
		SingleLowConfidence: score.LowSpan,
		Decision:            ensemble.DecisionBaselineBypassed,
	}, nil
}
