// Package sampler implements a scalar random-walk Metropolis-Hastings chain
// with a symmetric Gaussian proposal and a pluggable density ratio.
package sampler

import (
	"fmt"
	"math"

	"github.com/sarchlab/mcmc"
)

// ChainState is the persistent state of a chain.
//
// AcceptCount never exceeds StepCount.
type ChainState struct {
	Value       float64
	StepCount   uint64
	AcceptCount uint64
}

// StepRecord describes one proposal. It is the item of HookPosStep.
type StepRecord struct {
	// Index is the StepCount after the step. Burn-in steps are numbered
	// separately, starting from 1.
	Index uint64

	Current   float64
	Candidate float64
	Ratio     float64
	Uniform   float64
	Accepted  bool

	// Value is the chain value after the step, which is Candidate if the
	// proposal was accepted and Current otherwise.
	Value float64

	BurnIn bool
}

// Summary is a flat report of a sampler's statistics.
type Summary struct {
	Name           string
	Sigma          float64
	Steps          uint64
	Accepted       uint64
	AcceptanceRate float64
	FinalValue     float64
}

// A Sampler advances a Markov chain whose stationary distribution is the
// target described by its DensityRatio.
//
// A Sampler is not safe for concurrent use. Independent chains must use
// independent Samplers and RandSources.
type Sampler struct {
	*HookableBase

	name   string
	sigma  float64
	ratio  DensityRatio
	src    RandSource
	state  ChainState
	burnIn bool
}

// New creates a Cauchy-targeting sampler. It is a shortcut for the Builder.
// If src is nil, the sampler is seeded from the operating system.
func New(sigma float64, burnIn int, src RandSource) (*Sampler, error) {
	b := MakeBuilder().
		WithSigma(sigma).
		WithBurnIn(burnIn)

	if src != nil {
		b = b.WithRandSource(src)
	}

	return b.Build("Sampler")
}

// Name returns the name of the sampler.
func (s *Sampler) Name() string {
	return s.name
}

// Sigma returns the standard deviation of the proposal step.
func (s *Sampler) Sigma() float64 {
	return s.sigma
}

// State returns a copy of the current chain state.
func (s *Sampler) State() ChainState {
	return s.state
}

// AcceptanceRate returns AcceptCount / (1 + StepCount). The extra one in the
// denominator keeps the rate defined before any step has run, so the rate of
// a fresh sampler is 0.
func (s *Sampler) AcceptanceRate() float64 {
	return float64(s.state.AcceptCount) / (1 + float64(s.state.StepCount))
}

// Summary reports the current statistics of the sampler.
func (s *Sampler) Summary() Summary {
	return Summary{
		Name:           s.name,
		Sigma:          s.sigma,
		Steps:          s.state.StepCount,
		Accepted:       s.state.AcceptCount,
		AcceptanceRate: s.AcceptanceRate(),
		FinalValue:     s.state.Value,
	}
}

// Step advances the chain n times and returns the value after each step. The
// state is left untouched when n is not positive.
func (s *Sampler) Step(n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("sampler: step count %d must be positive: %w",
			n, mcmc.ErrInvalidParameter)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = s.stepOnce()
	}

	return out, nil
}

func (s *Sampler) stepOnce() float64 {
	x := s.state.Value
	y := x + s.sigma*s.src.NormFloat64()
	r := s.ratio.Ratio(x, y)
	u := s.src.Float64()

	// A NaN ratio compares false and rejects the proposal.
	accepted := u <= math.Min(r, 1)
	if accepted {
		s.state.Value = y
		s.state.AcceptCount++
	}

	s.state.StepCount++

	if s.NumHooks() > 0 {
		s.InvokeHook(HookCtx{
			Domain: s,
			Pos:    HookPosStep,
			Item: StepRecord{
				Index:     s.state.StepCount,
				Current:   x,
				Candidate: y,
				Ratio:     r,
				Uniform:   u,
				Accepted:  accepted,
				Value:     s.state.Value,
				BurnIn:    s.burnIn,
			},
		})
	}

	return s.state.Value
}

func (s *Sampler) runBurnIn(n int) {
	s.burnIn = true
	for i := 0; i < n; i++ {
		s.stepOnce()
	}
	s.burnIn = false

	s.resetCounts()

	if s.NumHooks() > 0 {
		s.InvokeHook(HookCtx{
			Domain: s,
			Pos:    HookPosBurnInDone,
			Item:   s.state,
		})
	}
}

func (s *Sampler) resetCounts() {
	s.state.StepCount = 0
	s.state.AcceptCount = 0
}
