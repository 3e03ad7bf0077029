// Package sweep runs closest-eigenpair selection for many targets against
// one solved eigenproblem.
package sweep

import (
	"context"
	"fmt"
	"runtime"

	"github.com/san-kum/eigenpick/internal/modal"
	"golang.org/x/sync/errgroup"
)

type Result struct {
	Target complex128
	Mode   *modal.Mode
}

type Options struct {
	// Workers bounds concurrent selections. 0 means GOMAXPROCS.
	Workers  int
	Selector *modal.Selector
}

// Run selects the closest mode for every target. Results keep target order.
// The solver must tolerate concurrent Eigenpair calls.
func Run(ctx context.Context, solver modal.Solver, targets []complex128, q, v modal.Space, part modal.Partition, opts Options) ([]Result, error) {
	sel := opts.Selector
	if sel == nil {
		sel = modal.NewSelector()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := sel.Select(solver, target, q, v, part)
			if err != nil {
				return fmt.Errorf("target %v: %w", target, err)
			}
			results[i] = Result{Target: target, Mode: m}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
