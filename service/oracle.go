package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	otelad "github.com/Strob0t/RouteForge/adapter/otel"
	"github.com/Strob0t/RouteForge/domain/verdict"
)

// Oracle deterministically picks a winner between competing team results.
// It is a pure function of the payloads: it has no access to either team's
// generation process, and never picks randomly.
type Oracle struct {
	metrics *otelad.Metrics // optional
}

// NewOracle creates an Oracle. metrics may be nil.
func NewOracle(metrics *otelad.Metrics) *Oracle {
	return &Oracle{metrics: metrics}
}

// Judge scores each team and returns the verdict. When every payload carries
// a numeric "quality" field that value is the score; otherwise the score is
// the total character length of all string-valued payload fields. The winner
// has the strictly greatest score; an exact tie goes to the team listed
// earlier in the input sequence. A payload with neither numeric nor string
// fields scores 0, still comparable rather than an error.
func (o *Oracle) Judge(results []verdict.TeamResult) (*verdict.Verdict, error) {
	if len(results) == 0 {
		return nil, verdict.ErrNoResults
	}

	method := verdict.MethodQuality
	for _, r := range results {
		if _, ok := numericQuality(r.Payload); !ok {
			method = verdict.MethodLengthFallback
			break
		}
	}

	scores := make(map[string]float64, len(results))
	winner := 0
	for i, r := range results {
		var score float64
		if method == verdict.MethodQuality {
			score, _ = numericQuality(r.Payload)
		} else {
			score = stringLength(r.Payload)
		}
		scores[r.TeamID] = score
		if score > scores[results[winner].TeamID] {
			winner = i
		}
	}

	v := &verdict.Verdict{
		ID:     uuid.NewString(),
		Winner: results[winner].TeamID,
		Scores: scores,
		Method: method,
	}
	if o.metrics != nil {
		// Judging is synchronous; background context keeps the counter
		// decoupled from any caller deadline.
		o.metrics.VerdictsJudged.Add(context.Background(), 1)
	}
	slog.Info("verdict judged",
		"verdict_id", v.ID,
		"winner", v.Winner,
		"method", v.Method,
		"teams", len(results),
	)
	return v, nil
}

// numericQuality extracts the payload's "quality" field when it is numeric.
func numericQuality(payload map[string]any) (float64, bool) {
	raw, ok := payload["quality"]
	if !ok {
		return 0, false
	}
	switch q := raw.(type) {
	case float64:
		return q, true
	case float32:
		return float64(q), true
	case int:
		return float64(q), true
	case int64:
		return float64(q), true
	case json.Number:
		f, err := q.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// stringLength sums the character length of all string-valued payload fields.
func stringLength(payload map[string]any) float64 {
	total := 0
	for _, v := range payload {
		if s, ok := v.(string); ok {
			total += len(s)
		}
	}
	return float64(total)
}
