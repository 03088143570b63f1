// Package ensemble runs several independent chains side by side.
package ensemble

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/mcmc"
	"github.com/sarchlab/mcmc/idgen"
	"github.com/sarchlab/mcmc/sampler"
)

// Build creates count samplers from b. Chain i draws from its own source
// seeded with baseSeed+i, so chains share no mutable data. Hooks attached to
// b are shared by every chain and must tolerate concurrent calls.
func Build(
	b sampler.Builder,
	count int,
	baseSeed uint64,
	ids idgen.Generator,
) ([]*sampler.Sampler, error) {
	if count < 1 {
		return nil, fmt.Errorf("ensemble: chain count %d must be positive: %w",
			count, mcmc.ErrInvalidParameter)
	}

	chains := make([]*sampler.Sampler, count)
	for i := range chains {
		name := fmt.Sprintf("Chain[%s]", ids.Generate())

		s, err := b.WithSeed(baseSeed + uint64(i)).Build(name)
		if err != nil {
			return nil, fmt.Errorf("ensemble: build %s: %w", name, err)
		}

		chains[i] = s
	}

	return chains, nil
}

// Run steps every chain n times and returns the realizations in chain order.
// Each chain is confined to one goroutine while it steps. Cancelling ctx
// prevents chains that have not started from starting; a chain that is
// already stepping runs to completion.
func Run(ctx context.Context, chains []*sampler.Sampler, n int) ([][]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("ensemble: step count %d must be positive: %w",
			n, mcmc.ErrInvalidParameter)
	}

	out := make([][]float64, len(chains))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, c := range chains {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			x, err := c.Step(n)
			if err != nil {
				return fmt.Errorf("ensemble: step %s: %w", c.Name(), err)
			}

			out[i] = x

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}
