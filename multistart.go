package sgd

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Run is one independent optimization. Nothing in a Run may be shared with
// another Run that executes concurrently.
type Run struct {
	Function SeparableFunction
	Policy   UpdatePolicy
	// Optional; a clone of Options.Schedule is used when nil.
	Schedule Schedule
	Iterate  *mat.Dense
}

// OptimizeAll optimizes runs concurrently, at most parallelism at a time
// (parallelism <= 0 means no limit). Results are returned in the order of
// runs. Runs that have not started when ctx is cancelled are skipped and the
// context error is returned; runs already in progress finish normally.
func (o *Optimizer) OptimizeAll(ctx context.Context, runs []Run, parallelism int) ([]Result, error) {
	results := make([]Result, len(runs))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i := range runs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			run := runs[i]
			schedule := run.Schedule
			if schedule == nil {
				schedule = o.opts.Schedule.Clone()
			}
			res, err := o.optimize(run.Function, run.Policy, schedule, run.Iterate)
			if err != nil {
				return errors.WithMessagef(err, "run %d", i)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
