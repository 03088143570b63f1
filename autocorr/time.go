package autocorr

import (
	"fmt"

	"github.com/sarchlab/mcmc"
)

// IntegratedTime estimates the integrated autocorrelation time
// 1 + 2*sum(rho_k) from a symmetric profile returned by Autocorrelation. The
// sum runs over positive lags and stops before the first non-positive value,
// where the estimate becomes dominated by noise.
func IntegratedTime(profile []float64) (float64, error) {
	if len(profile) == 0 || len(profile)%2 == 0 {
		return 0, fmt.Errorf(
			"autocorr: profile length %d is not odd: %w",
			len(profile), mcmc.ErrInvalidParameter)
	}

	center := len(profile) / 2
	tau := 1.0
	for k := 1; k <= center; k++ {
		rho := profile[center+k]
		if rho <= 0 {
			break
		}

		tau += 2 * rho
	}

	return tau, nil
}

// EffectiveSampleSize returns n/tau, the number of independent draws that
// carry the same information as n correlated ones.
func EffectiveSampleSize(n int, tau float64) float64 {
	if tau <= 0 {
		return 0
	}

	return float64(n) / tau
}
