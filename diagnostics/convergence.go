package diagnostics

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/mcmc"
)

// UniformKSDistance returns the one-sample Kolmogorov-Smirnov statistic
// between u and the uniform distribution on [0, 1).
func UniformKSDistance(u []float64) (float64, error) {
	if len(u) == 0 {
		return 0, fmt.Errorf("diagnostics: empty sample: %w",
			mcmc.ErrInvalidParameter)
	}

	sorted := slices.Clone(u)
	slices.Sort(sorted)

	n := float64(len(sorted))
	d := 0.0
	for i, v := range sorted {
		cdf := math.Min(math.Max(v, 0), 1)
		d = math.Max(d, float64(i+1)/n-cdf)
		d = math.Max(d, cdf-float64(i)/n)
	}

	return d, nil
}

// RHat returns the Gelman-Rubin potential scale reduction factor of equally
// long chains. Values close to 1 indicate that the chains sample the same
// distribution.
//
// Chains targeting a Cauchy distribution have no variance, so map them with
// UnitInterval first.
func RHat(chains [][]float64) (float64, error) {
	if len(chains) < 2 {
		return 0, fmt.Errorf("diagnostics: R-hat needs at least 2 chains, got %d: %w",
			len(chains), mcmc.ErrInvalidParameter)
	}

	n := len(chains[0])
	if n < 2 {
		return 0, fmt.Errorf("diagnostics: R-hat needs chains of at least 2 samples: %w",
			mcmc.ErrInvalidParameter)
	}

	means := make([]float64, len(chains))
	variances := make([]float64, len(chains))
	for i, c := range chains {
		if len(c) != n {
			return 0, fmt.Errorf(
				"diagnostics: chain %d has %d samples, want %d: %w",
				i, len(c), n, mcmc.ErrInvalidParameter)
		}

		means[i], variances[i] = stat.MeanVariance(c, nil)
	}

	within := stat.Mean(variances, nil)
	if !(within > 0) {
		return 0, fmt.Errorf("diagnostics: chains have no within-chain variance: %w",
			mcmc.ErrInvalidParameter)
	}

	between := float64(n) * stat.Variance(means, nil)
	pooled := (float64(n-1)/float64(n))*within + between/float64(n)

	return math.Sqrt(pooled / within), nil
}
