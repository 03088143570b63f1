package tracing

import (
	"github.com/sarchlab/mcmc/datarecording"
	"github.com/sarchlab/mcmc/sampler"
)

// SummaryEntry is a row of the summary table.
type SummaryEntry struct {
	Chain          string `mcmc_data:"index"`
	Sigma          float64
	Steps          uint64
	Accepted       uint64
	AcceptanceRate float64
	FinalValue     float64
}

// ProfileEntry is a row of the autocorrelation table.
type ProfileEntry struct {
	Chain string `mcmc_data:"index"`
	Lag   int
	Value float64
}

// RecordSummary stores the summary of a sampler.
func RecordSummary(backend datarecording.DataRecorder, s sampler.Summary) {
	ensureTable(backend, SummaryTable, SummaryEntry{})

	backend.InsertData(SummaryTable, SummaryEntry{
		Chain:          s.Name,
		Sigma:          s.Sigma,
		Steps:          s.Steps,
		Accepted:       s.Accepted,
		AcceptanceRate: s.AcceptanceRate,
		FinalValue:     s.FinalValue,
	})
}

// RecordProfile stores an autocorrelation profile of 2K+1 entries, one row
// per lag from -K to K.
func RecordProfile(
	backend datarecording.DataRecorder,
	chain string,
	profile []float64,
) {
	ensureTable(backend, ProfileTable, ProfileEntry{})

	maxLag := len(profile) / 2
	for i, v := range profile {
		backend.InsertData(ProfileTable, ProfileEntry{
			Chain: chain,
			Lag:   i - maxLag,
			Value: v,
		})
	}
}
