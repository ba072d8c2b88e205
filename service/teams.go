package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Strob0t/RouteForge/domain/verdict"
)

// Team is one independent pipeline competing on a task. Run produces the
// payload the oracle judges; how it is produced (which backend, which tools,
// whether it consults the knowledge graph) is the team's own business.
type Team struct {
	ID  string
	Run func(ctx context.Context) (map[string]any, error)
}

// RunTeams executes the team pipelines in parallel and returns their results
// in input order, regardless of completion order, because the oracle's tie-break
// depends on that order. A failed team is dropped from the results; if every
// team fails the error of the first (by input order) is returned.
func (o *Oracle) RunTeams(ctx context.Context, teams []Team) ([]verdict.TeamResult, error) {
	slots := make([]*verdict.TeamResult, len(teams))
	errs := make([]error, len(teams))

	g, gctx := errgroup.WithContext(ctx)
	for i, team := range teams {
		i, team := i, team // per-iteration copies; this module builds with a pre-1.22 toolchain
		g.Go(func() error {
			payload, err := team.Run(gctx)
			if err != nil {
				errs[i] = err
				slog.Warn("team pipeline failed", "team_id", team.ID, "error", err)
				return nil // a losing team is not a judging failure
			}
			slots[i] = &verdict.TeamResult{TeamID: team.ID, Payload: payload}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]verdict.TeamResult, 0, len(teams))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	if len(results) == 0 {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}

// Compete runs the team pipelines and judges the surviving results.
func (o *Oracle) Compete(ctx context.Context, teams []Team) (*verdict.Verdict, error) {
	results, err := o.RunTeams(ctx, teams)
	if err != nil {
		return nil, err
	}
	return o.Judge(results)
}
