package sampler

import "math"

// A DensityRatio supplies the unnormalized-density ratio target(y)/target(x)
// for two points. Metropolis-Hastings only needs ratios, so the target does
// not have to be normalized. Implementations change the target distribution
// while reusing the rest of the sampler.
type DensityRatio interface {
	Ratio(x, y float64) float64
}

// DensityRatioFunc adapts a plain function to the DensityRatio interface.
type DensityRatioFunc func(x, y float64) float64

// Ratio returns f(x, y).
func (f DensityRatioFunc) Ratio(x, y float64) float64 {
	return f(x, y)
}

// Cauchy targets the standard Cauchy density 1/(pi(1+x^2)).
type Cauchy struct{}

// Ratio returns (1+x^2)/(1+y^2).
func (Cauchy) Ratio(x, y float64) float64 {
	return (1 + x*x) / (1 + y*y)
}

// Normal targets the normal density with mean Mu and standard deviation
// Sigma.
type Normal struct {
	Mu    float64
	Sigma float64
}

// Ratio returns exp(((x-mu)^2 - (y-mu)^2) / (2 sigma^2)).
func (n Normal) Ratio(x, y float64) float64 {
	dx := x - n.Mu
	dy := y - n.Mu

	return math.Exp((dx*dx - dy*dy) / (2 * n.Sigma * n.Sigma))
}
