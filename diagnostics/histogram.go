package diagnostics

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/mcmc"
)

// A Histogram is a density estimate on [Lo, Hi).
type Histogram struct {
	Lo, Hi float64

	// Dividers holds the len(Density)+1 bin edges.
	Dividers []float64

	// Density is the fraction of all samples falling into a bin divided by
	// the bin width. Samples outside [Lo, Hi) count towards the total, so
	// the estimate stays comparable with the true density.
	Density []float64

	// Outside is the number of samples that fell outside [Lo, Hi).
	Outside int
}

// DensityHistogram bins x into bins equal-width bins over [lo, hi).
func DensityHistogram(x []float64, lo, hi float64, bins int) (Histogram, error) {
	if len(x) == 0 || bins < 1 || !(lo < hi) ||
		math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return Histogram{}, fmt.Errorf(
			"diagnostics: histogram of %d samples over [%v, %v) with %d bins: %w",
			len(x), lo, hi, bins, mcmc.ErrInvalidParameter)
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)

	inside := make([]float64, 0, len(x))
	for _, v := range x {
		if v >= lo && v < hi {
			inside = append(inside, v)
		}
	}
	slices.Sort(inside)

	counts := make([]float64, bins)
	if len(inside) > 0 {
		counts = stat.Histogram(counts, dividers, inside, nil)
	}

	width := (hi - lo) / float64(bins)
	floats.Scale(1/(float64(len(x))*width), counts)

	return Histogram{
		Lo:       lo,
		Hi:       hi,
		Dividers: dividers,
		Density:  counts,
		Outside:  len(x) - len(inside),
	}, nil
}

// MaxAbsDeviation returns the largest distance between the histogram and a
// density evaluated at the bin centers.
func MaxAbsDeviation(h Histogram, density func(float64) float64) float64 {
	worst := 0.0
	for i, d := range h.Density {
		center := (h.Dividers[i] + h.Dividers[i+1]) / 2
		worst = math.Max(worst, math.Abs(d-density(center)))
	}

	return worst
}
