package tracing

import (
	"sort"
	"sync"

	"github.com/sarchlab/mcmc/sampler"
)

// AcceptanceTracer counts proposed and accepted moves per chain, ignoring
// burn-in. It can be shared by chains that step concurrently.
type AcceptanceTracer struct {
	lock     sync.Mutex
	proposed map[string]uint64
	accepted map[string]uint64
}

// NewAcceptanceTracer creates an AcceptanceTracer.
func NewAcceptanceTracer() *AcceptanceTracer {
	return &AcceptanceTracer{
		proposed: make(map[string]uint64),
		accepted: make(map[string]uint64),
	}
}

// TraceStep counts a step.
func (t *AcceptanceTracer) TraceStep(chain string, r sampler.StepRecord) {
	if r.BurnIn {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.proposed[chain]++
	if r.Accepted {
		t.accepted[chain]++
	}
}

// EndBurnIn does nothing.
func (t *AcceptanceTracer) EndBurnIn(_ string, _ sampler.ChainState) {
}

// Chains returns the names of the chains seen so far, sorted.
func (t *AcceptanceTracer) Chains() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	chains := make([]string, 0, len(t.proposed))
	for c := range t.proposed {
		chains = append(chains, c)
	}
	sort.Strings(chains)

	return chains
}

// Proposed returns the number of proposals seen for a chain.
func (t *AcceptanceTracer) Proposed(chain string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.proposed[chain]
}

// Accepted returns the number of accepted proposals seen for a chain.
func (t *AcceptanceTracer) Accepted(chain string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.accepted[chain]
}

// Rate returns the accepted fraction of the proposals seen for a chain, or
// 0 if none were seen.
func (t *AcceptanceTracer) Rate(chain string) float64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.proposed[chain] == 0 {
		return 0
	}

	return float64(t.accepted[chain]) / float64(t.proposed[chain])
}
