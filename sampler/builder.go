package sampler

import (
	"fmt"
	"math"

	"github.com/sarchlab/mcmc"
)

// Builder creates Samplers.
type Builder struct {
	sigma  float64
	burnIn int
	ratio  DensityRatio
	src    RandSource

	seed    uint64
	hasSeed bool

	initial    float64
	hasInitial bool

	hooks []Hook
}

// MakeBuilder creates a Builder for a Cauchy target with a unit proposal
// step and no burn-in.
func MakeBuilder() Builder {
	return Builder{
		sigma: 1,
		ratio: Cauchy{},
	}
}

// WithSigma sets the standard deviation of the Gaussian proposal step.
func (b Builder) WithSigma(sigma float64) Builder {
	b.sigma = sigma
	return b
}

// WithBurnIn sets the number of steps to run at construction. Statistics
// from those steps are discarded but the chain keeps its position. A
// non-positive value disables burn-in.
func (b Builder) WithBurnIn(n int) Builder {
	b.burnIn = n
	return b
}

// WithDensityRatio sets the target of the chain.
func (b Builder) WithDensityRatio(ratio DensityRatio) Builder {
	b.ratio = ratio
	return b
}

// WithRandSource sets the source of randomness. It takes precedence over
// WithSeed.
func (b Builder) WithRandSource(src RandSource) Builder {
	b.src = src
	return b
}

// WithSeed makes the sampler use a deterministic source seeded with seed.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	b.hasSeed = true
	return b
}

// WithInitialValue starts the chain at v instead of a standard normal draw.
func (b Builder) WithInitialValue(v float64) Builder {
	b.initial = v
	b.hasInitial = true
	return b
}

// WithHook attaches a hook before burn-in starts, so that the hook also
// observes the burn-in steps.
func (b Builder) WithHook(hook Hook) Builder {
	hooks := make([]Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build creates a sampler with the given name and runs its burn-in.
func (b Builder) Build(name string) (*Sampler, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	src, err := b.randSource()
	if err != nil {
		return nil, err
	}

	s := &Sampler{
		HookableBase: NewHookableBase(),
		name:         name,
		sigma:        b.sigma,
		ratio:        b.ratio,
		src:          src,
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	if b.hasInitial {
		s.state.Value = b.initial
	} else {
		s.state.Value = src.NormFloat64()
	}

	if b.burnIn > 0 {
		s.runBurnIn(b.burnIn)
	}

	return s, nil
}

func (b Builder) validate() error {
	if !(b.sigma > 0) || math.IsInf(b.sigma, 1) {
		return fmt.Errorf("sampler: sigma %v must be a positive finite number: %w",
			b.sigma, mcmc.ErrInvalidParameter)
	}

	if b.ratio == nil {
		return fmt.Errorf("sampler: density ratio must be set: %w",
			mcmc.ErrInvalidParameter)
	}

	if b.hasInitial && (math.IsNaN(b.initial) || math.IsInf(b.initial, 0)) {
		return fmt.Errorf("sampler: initial value %v must be finite: %w",
			b.initial, mcmc.ErrInvalidParameter)
	}

	return nil
}

func (b Builder) randSource() (RandSource, error) {
	if b.src != nil {
		return b.src, nil
	}

	if b.hasSeed {
		return NewSource(b.seed), nil
	}

	seed, err := NewSeed()
	if err != nil {
		return nil, fmt.Errorf("sampler: %w", err)
	}

	return NewSource(seed), nil
}
