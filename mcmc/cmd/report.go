package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sarchlab/mcmc/autocorr"
	"github.com/sarchlab/mcmc/diagnostics"
	"github.com/sarchlab/mcmc/sampler"
)

// The density histogram covers [-histRange, histRange).
const (
	histRange = 15
	histBins  = 60
)

type chainReport struct {
	summary   sampler.Summary
	proposed  uint64
	profile   []float64
	tau       float64
	ess       float64
	deviation float64
	ks        float64
}

func analyze(
	summary sampler.Summary,
	x []float64,
	maxLag int,
) (chainReport, error) {
	r := chainReport{summary: summary}

	var err error

	r.profile, err = autocorr.Autocorrelation(x, maxLag)
	if err != nil {
		return r, err
	}

	r.tau, err = autocorr.IntegratedTime(r.profile)
	if err != nil {
		return r, err
	}

	r.ess = autocorr.EffectiveSampleSize(len(x), r.tau)

	h, err := diagnostics.DensityHistogram(x, -histRange, histRange, histBins)
	if err != nil {
		return r, err
	}

	r.deviation = diagnostics.MaxAbsDeviation(h, diagnostics.CauchyDensity)

	r.ks, err = diagnostics.UniformKSDistance(diagnostics.UnitInterval(x))
	if err != nil {
		return r, err
	}

	return r, nil
}

func (r chainReport) write(out io.Writer) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "%s\n", r.summary.Name)
	fmt.Fprintf(w, "  steps\t%d\n", r.summary.Steps)
	fmt.Fprintf(w, "  accepted\t%d of %d\n", r.summary.Accepted, r.proposed)
	fmt.Fprintf(w, "  acceptance rate\t%.4f\n", r.summary.AcceptanceRate)
	fmt.Fprintf(w, "  final value\t%.6g\n", r.summary.FinalValue)
	fmt.Fprintf(w, "  integrated time\t%.2f\n", r.tau)
	fmt.Fprintf(w, "  effective size\t%.0f\n", r.ess)
	fmt.Fprintf(w, "  density deviation\t%.4f\n", r.deviation)
	fmt.Fprintf(w, "  KS distance\t%.4f\n", r.ks)
	w.Flush()

	writeProfile(out, r.profile)
	fmt.Fprintln(out)
}

// writeProfile prints the non-negative lags 0, 1, 2, 5, 10, 20, 50, ... of
// a symmetric profile.
func writeProfile(out io.Writer, profile []float64) {
	maxLag := len(profile) / 2

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  lag\tacf\t\n")

	for _, k := range reportLags(maxLag) {
		fmt.Fprintf(w, "  %d\t%.4f\t\n", k, profile[maxLag+k])
	}

	w.Flush()
}

func reportLags(maxLag int) []int {
	lags := []int{}
	for scale := 1; ; scale *= 10 {
		for _, m := range []int{1, 2, 5} {
			if m*scale > maxLag {
				return append([]int{0}, lags...)
			}

			lags = append(lags, m*scale)
		}
	}
}

func writeRHat(out io.Writer, realizations [][]float64) error {
	mapped := make([][]float64, len(realizations))
	for i, x := range realizations {
		mapped[i] = diagnostics.UnitInterval(x)
	}

	rhat, err := diagnostics.RHat(mapped)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "R-hat of %d chains: %.4f\n", len(realizations), rhat)

	return nil
}
