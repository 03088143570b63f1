package sampler

import "reflect"

// HookPos identifies where inside the sampler a hook is fired.
type HookPos struct {
	Name string
}

// HookPosStep fires after every proposal has been accepted or rejected. The
// hook item is a StepRecord.
var HookPosStep = &HookPos{Name: "Step"}

// HookPosBurnInDone fires once, after the burn-in steps have run and the
// counters have been reset. The hook item is the resulting ChainState.
var HookPosBurnInDone = &HookPos{Name: "BurnInDone"}

// HookCtx carries the information about the site where a hook is triggered.
type HookCtx struct {
	// Domain is the sampler raising the hook.
	Domain Hookable

	// Pos is the position the hook fires from.
	Pos *HookPos

	// Item is the subject of the hook, see the HookPos documentation.
	Item any
}

// Hook is a short piece of program that a sampler invokes while it runs.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	// AcceptHook registers a hook. Hooks must be registered before the
	// hookable starts stepping and cannot be removed.
	AcceptHook(hook Hook)

	// NumHooks returns the number of registered hooks.
	NumHooks() int
}

// HookableBase implements the bookkeeping part of Hookable.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates a HookableBase with no hooks.
func NewHookableBase() *HookableBase {
	return &HookableBase{hooks: make([]Hook, 0)}
}

// AcceptHook registers a hook. Registering the same hook twice panics. Hooks
// of non-comparable types, such as HookFunc, are never considered duplicates.
func (h *HookableBase) AcceptHook(hook Hook) {
	if reflect.TypeOf(hook).Comparable() {
		for _, existing := range h.hooks {
			if reflect.TypeOf(existing) == reflect.TypeOf(hook) &&
				existing == hook {
				panic("duplicated hook")
			}
		}
	}

	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook triggers every registered hook in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
