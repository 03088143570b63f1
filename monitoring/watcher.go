package monitoring

import (
	"sync"

	"github.com/sarchlab/mcmc/sampler"
)

// ChainSnapshot is the state of a chain as last seen by its watcher.
type ChainSnapshot struct {
	Name           string
	Value          float64
	Steps          uint64
	Accepted       uint64
	AcceptanceRate float64
	BurnInSteps    uint64
	BurnInDone     bool
	LastCandidate  float64
	LastAccepted   bool
}

// A ChainWatcher is a hook that keeps the latest state of one chain. The
// expected steps start in progress on the bar and move to finished one by one
// as the chain takes them.
type ChainWatcher struct {
	lock      sync.Mutex
	bar       *ProgressBar
	remaining uint64
	snapshot  ChainSnapshot
}

// Name returns the name of the watched chain.
func (w *ChainWatcher) Name() string {
	return w.snapshot.Name
}

// ProgressBar returns the bar that counts the post burn-in steps.
func (w *ChainWatcher) ProgressBar() *ProgressBar {
	return w.bar
}

// Snapshot returns a copy of the latest state.
func (w *ChainWatcher) Snapshot() ChainSnapshot {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.snapshot
}

// Func updates the snapshot.
func (w *ChainWatcher) Func(ctx sampler.HookCtx) {
	switch ctx.Pos {
	case sampler.HookPosStep:
		w.step(ctx.Item.(sampler.StepRecord))
	case sampler.HookPosBurnInDone:
		w.endBurnIn(ctx.Item.(sampler.ChainState))
	}
}

func (w *ChainWatcher) step(r sampler.StepRecord) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.snapshot.Value = r.Value
	w.snapshot.LastCandidate = r.Candidate
	w.snapshot.LastAccepted = r.Accepted

	if r.BurnIn {
		w.snapshot.BurnInSteps++
		return
	}

	w.snapshot.Steps = r.Index
	if r.Accepted {
		w.snapshot.Accepted++
	}

	w.snapshot.AcceptanceRate =
		float64(w.snapshot.Accepted) / (1 + float64(w.snapshot.Steps))

	if w.remaining == 0 {
		w.bar.IncrementFinished(1)
		return
	}

	w.remaining--
	w.bar.MoveInProgressToFinished(1)
}

func (w *ChainWatcher) endBurnIn(s sampler.ChainState) {
	w.lock.Lock()
	defer w.lock.Unlock()

	w.snapshot.BurnInDone = true
	w.snapshot.Value = s.Value
	w.snapshot.Steps = s.StepCount
	w.snapshot.Accepted = s.AcceptCount
}
