package tracing

import (
	"sync"

	"github.com/sarchlab/mcmc/datarecording"
	"github.com/sarchlab/mcmc/sampler"
)

// Table names used by the recording helpers.
const (
	StepTable    = "mcmc_steps"
	SummaryTable = "mcmc_summary"
	ProfileTable = "mcmc_acf"
)

// StepEntry is a row of the step table.
type StepEntry struct {
	Chain     string `mcmc_data:"index"`
	Step      uint64
	Current   float64
	Candidate float64
	Ratio     float64
	Uniform   float64
	Accepted  bool
	Value     float64
	BurnIn    bool
}

// DBTracer stores every step it observes into a DataRecorder.
type DBTracer struct {
	mu         sync.Mutex
	backend    datarecording.DataRecorder
	keepBurnIn bool
}

// NewDBTracer creates a DBTracer and the step table it writes into.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	t := &DBTracer{backend: backend}
	ensureTable(backend, StepTable, StepEntry{})

	return t
}

// KeepBurnIn makes the tracer also store burn-in steps. They are dropped by
// default.
func (t *DBTracer) KeepBurnIn() *DBTracer {
	t.keepBurnIn = true
	return t
}

// TraceStep stores a step.
func (t *DBTracer) TraceStep(chain string, r sampler.StepRecord) {
	if r.BurnIn && !t.keepBurnIn {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.InsertData(StepTable, StepEntry{
		Chain:     chain,
		Step:      r.Index,
		Current:   r.Current,
		Candidate: r.Candidate,
		Ratio:     r.Ratio,
		Uniform:   r.Uniform,
		Accepted:  r.Accepted,
		Value:     r.Value,
		BurnIn:    r.BurnIn,
	})
}

// EndBurnIn does nothing. The step rows already mark burn-in.
func (t *DBTracer) EndBurnIn(_ string, _ sampler.ChainState) {
}

func ensureTable(backend datarecording.DataRecorder, name string, sample any) {
	for _, existing := range backend.ListTables() {
		if existing == name {
			return
		}
	}

	backend.CreateTable(name, sample)
}
