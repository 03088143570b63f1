// Package autocorr estimates the autocorrelation profile of a realized
// chain, the main diagnostic for how fast a sampler mixes.
package autocorr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sarchlab/mcmc"
)

// Autocorrelation returns the normalized autocorrelation of x for lags -maxLag
// to maxLag. The result has 2*maxLag+1 entries and lag k is stored at index
// maxLag+k.
//
// The lag-k value is the inner product of x[k:] and x[:N-k] divided by the
// overlap length N-k. The sequence is not centered. Negative lags mirror the
// positive ones and every entry is divided by the lag-0 value, so the center
// entry is exactly 1.
//
// A lag-0 value that is zero or not finite, as produced by an all-zero
// sequence, cannot be normalized and is rejected with ErrInvalidParameter
// instead of filling the profile with NaN.
func Autocorrelation(x []float64, maxLag int) ([]float64, error) {
	n := len(x)
	if n < 1 {
		return nil, fmt.Errorf("autocorr: empty sequence: %w",
			mcmc.ErrInvalidParameter)
	}

	if maxLag < 0 || maxLag >= n {
		return nil, fmt.Errorf(
			"autocorr: max lag %d must be in [0, %d): %w",
			maxLag, n, mcmc.ErrInvalidParameter)
	}

	profile := make([]float64, 2*maxLag+1)
	for k := 0; k <= maxLag; k++ {
		profile[maxLag+k] = floats.Dot(x[k:n], x[0:n-k]) / float64(n-k)
	}

	zero := profile[maxLag]
	if zero == 0 || math.IsNaN(zero) || math.IsInf(zero, 0) {
		return nil, fmt.Errorf(
			"autocorr: lag-0 value %v cannot be normalized: %w",
			zero, mcmc.ErrInvalidParameter)
	}

	for k := 1; k <= maxLag; k++ {
		profile[maxLag-k] = profile[maxLag+k]
	}

	for i := range profile {
		profile[i] /= zero
	}

	return profile, nil
}

// Lags returns the lag that each entry of a profile with the given max lag
// refers to, that is -maxLag to maxLag.
func Lags(maxLag int) []int {
	if maxLag < 0 {
		return nil
	}

	lags := make([]int, 2*maxLag+1)
	for i := range lags {
		lags[i] = i - maxLag
	}

	return lags
}
