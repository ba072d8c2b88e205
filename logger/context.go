package logger

import "context"

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

var runIDKey = contextKey{}

// WithRunID returns a new context carrying the orchestration run ID. The
// async handler stamps it onto every record emitted under that context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID extracts the run ID from the context, or "" when none is set.
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}
