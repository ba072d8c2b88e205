// Package verdict defines the domain model for competitive team judging:
// per-team payloads and the deterministic verdict picked between them.
package verdict

import "errors"

// ErrNoResults is returned when Judge is called with an empty input sequence.
var ErrNoResults = errors.New("verdict: no team results to judge")

// Method identifies how team scores were derived.
type Method string

const (
	// MethodQuality means every payload carried a numeric "quality" field.
	MethodQuality Method = "quality"
	// MethodLengthFallback means scores are the total character length of
	// all string-valued payload fields.
	MethodLengthFallback Method = "length-fallback"
)

// TeamResult is the output of one independent team pipeline for a task.
type TeamResult struct {
	TeamID  string         `json:"team_id"`
	Payload map[string]any `json:"payload"`
}

// Verdict is the judged outcome for a set of competing team results.
// Immutable once produced.
type Verdict struct {
	ID     string             `json:"id"`
	Winner string             `json:"winner"`
	Scores map[string]float64 `json:"scores"`
	Method Method             `json:"method"`
}
