// Package ensemble defines the domain model for confidence-gated ensemble
// generation: candidate responses, aggregate confidence fields, and the
// routing decision taken for a prompt.
package ensemble

import "errors"

// ErrNoViableResponse is returned when every generation call in an ensemble
// failed, leaving nothing to score.
var ErrNoViableResponse = errors.New("ensemble: no viable response")

// Source identifies where a candidate was generated.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Decision is the routing outcome for a prompt.
type Decision string

const (
	// DecisionAccepted means the local ensemble produced a trusted response.
	DecisionAccepted Decision = "accepted"
	// DecisionEscalated means confidence was insufficient and the prompt was
	// routed to the remote backend instead.
	DecisionEscalated Decision = "escalated"
	// DecisionBaselineBypassed means baseline mode skipped ensembling and the
	// single minimal-cost response was returned unconditionally.
	DecisionBaselineBypassed Decision = "baseline_bypassed"
)

// Candidate is one generated response. Immutable once produced.
type Candidate struct {
	Text            string  `json:"text"`
	TokensGenerated int     `json:"tokens_generated"`
	Confidence      float64 `json:"confidence"` // [0,100]
	LowSpan         float64 `json:"low_span"`   // [0,100], worst-span indicator
	Source          Source  `json:"source"`
}

// Score is the Confidence Scorer output for a single candidate.
type Score struct {
	Confidence float64 // normalized to [0,100]
	LowSpan    float64 // minimum per-span confidence, [0,100]
}

// Result aggregates the successful candidates of one ensemble.
// Responses are in issuance order; that order is the tie-break for selection.
type Result struct {
	Responses           []Candidate `json:"responses"`
	Selected            int         `json:"selected"` // index into Responses
	AvgConfidence       float64     `json:"avg_confidence"`
	GroupLowConfidence  float64     `json:"group_low_confidence"`
	SingleLowConfidence float64     `json:"single_low_confidence"`
	Decision            Decision    `json:"decision"`
}

// Response returns the candidate the decision settled on: the escalated
// remote response when present, otherwise the selected local candidate.
func (r *Result) Response() Candidate {
	return r.Responses[r.Selected]
}
