// Package diagnostics provides the checks a consumer runs on a realization to
// see whether a chain has reached its Cauchy target.
package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

var standardCauchy = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: 1}

// CauchyDensity returns the standard Cauchy density 1/(pi(1+x^2)).
func CauchyDensity(x float64) float64 {
	return standardCauchy.Prob(x)
}

// CauchyCDF returns the standard Cauchy distribution function.
func CauchyCDF(x float64) float64 {
	return standardCauchy.CDF(x)
}

// UnitInterval maps a standard Cauchy realization into (0, 1) with
// u = (atan(x) + pi/2) / pi. The mapped values are uniform when x follows
// the standard Cauchy distribution.
func UnitInterval(x []float64) []float64 {
	u := make([]float64, len(x))
	for i, v := range x {
		u[i] = (math.Atan(v) + math.Pi/2) / math.Pi
	}

	return u
}
