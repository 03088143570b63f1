// Package tracing observes samplers through their hooks and turns what it
// sees into records.
package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/mcmc/sampler"
)

// A StepTracer consumes the steps of one or more chains.
type StepTracer interface {
	// TraceStep is called after every proposal of the named chain.
	TraceStep(chain string, record sampler.StepRecord)

	// EndBurnIn is called once the named chain has finished its burn-in.
	EndBurnIn(chain string, state sampler.ChainState)
}

// NamedHookable is a hookable that has a name, such as a sampler.
type NamedHookable interface {
	sampler.Hookable
	Name() string
}

// CollectTrace lets the tracer observe a sampler that has already been
// built. Steps taken before the call, including burn-in, are not seen.
func CollectTrace(domain NamedHookable, tracer StepTracer) {
	domain.AcceptHook(NewTraceHook(tracer))
}

// NewTraceHook wraps a tracer into a hook. Passing the hook to
// sampler.Builder.WithHook lets the tracer observe burn-in as well.
func NewTraceHook(tracer StepTracer) sampler.Hook {
	return &traceHook{t: tracer}
}

type traceHook struct {
	t StepTracer
}

func (h *traceHook) Func(ctx sampler.HookCtx) {
	domain, ok := ctx.Domain.(NamedHookable)
	if !ok {
		panic(fmt.Sprintf("cannot trace unnamed domain %s",
			reflect.TypeOf(ctx.Domain)))
	}

	switch ctx.Pos {
	case sampler.HookPosStep:
		h.t.TraceStep(domain.Name(), ctx.Item.(sampler.StepRecord))
	case sampler.HookPosBurnInDone:
		h.t.EndBurnIn(domain.Name(), ctx.Item.(sampler.ChainState))
	}
}
