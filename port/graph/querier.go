// Package graph defines the port interface for the read-only knowledge-graph
// store consulted by team pipelines. Statements must already have passed the
// read-only verifier before they reach an implementation.
package graph

import "context"

// Querier executes exactly one read-only statement against the store and
// returns the raw encoded result rows.
type Querier interface {
	Query(ctx context.Context, statement string) ([]byte, error)
}
