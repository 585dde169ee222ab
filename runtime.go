// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sync"
	"time"
)

// interpreterMode selects between the trampolined interpreter (the
// default, and the one this package contracts for stack safety) and a
// genuinely recursive one, kept only for pedagogical/comparative use —
// it is not stack-safe and exists so callers can measure the difference.
type interpreterMode uint8

const (
	trampolined interpreterMode = iota
	directRecursion
)

// Runtime is the façade over effect execution (§4.H): it owns an Executor
// and exposes the synchronous and asynchronous entry points users call.
type Runtime struct {
	executor Executor
	mode     interpreterMode
}

// RuntimeOption configures a Runtime at construction time, the same
// functional-options shape used throughout this package's ambient
// configuration surface.
type RuntimeOption func(*Runtime)

// WithDirectRecursion switches the Runtime to the non-stack-safe, directly
// recursive interpreter, retained only for pedagogical comparison against
// the trampolined default — do not use it on deeply composed programs.
func WithDirectRecursion() RuntimeOption {
	return func(rt *Runtime) { rt.mode = directRecursion }
}

// NewRuntime constructs a Runtime around executor, trampolined by default.
func NewRuntime(executor Executor, opts ...RuntimeOption) *Runtime {
	rt := &Runtime{executor: executor, mode: trampolined}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Executor returns rt's underlying Executor, for interop with code that
// wants to spawn plain tasks alongside effect fibers.
func (rt *Runtime) Executor() Executor { return rt.executor }

// eval dispatches to the trampolined or direct interpreter per rt's mode.
func (rt *Runtime) eval(ctx *ExecutionContext, node effectNode) (Erased, Erased) {
	if rt.mode == directRecursion {
		return evalNodeDirect(rt, ctx, node)
	}
	return evalNode(rt, ctx, node)
}

// Run evaluates eff synchronously on the current goroutine, against a
// fresh root context with no handler bound.
func Run[E, A any](rt *Runtime, eff Effect[E, A]) (A, error) {
	value, errVal := rt.eval(Root(), eff.node)
	if errVal != nil {
		var zero A
		return zero, toError[E](errVal)
	}
	return value.(A), nil
}

// RunWithHandler evaluates eff synchronously with handler installed in a
// child of root, so every PerformCapability within eff resolves against it.
func RunWithHandler[E, A any](rt *Runtime, eff Effect[E, A], handler CapabilityHandler) (A, error) {
	ctx := Root().WithHandler(handler)
	value, errVal := rt.eval(ctx, eff.node)
	if errVal != nil {
		var zero A
		return zero, toError[E](errVal)
	}
	return value.(A), nil
}

// CancellationHandle is returned by RunAsync (§4.H): a handle on a task
// running independently of the caller's goroutine.
type CancellationHandle struct {
	ctx  *ExecutionContext
	done chan struct{}

	mu        sync.Mutex
	cancelled bool
}

// Cancel idempotently cancels the underlying task. If the task has not
// yet invoked its completion callback, cancelling suppresses it — the
// internal completion signal still fires so Await returns.
func (h *CancellationHandle) Cancel() {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.mu.Unlock()
	h.ctx.Cancel()
}

// IsCancelled reports whether Cancel has been called.
func (h *CancellationHandle) IsCancelled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

// Await blocks until the task completes, however it completed.
func (h *CancellationHandle) Await() {
	<-h.done
}

// AwaitTimeout blocks until the task completes or d elapses. true means
// the task completed (possibly with error, possibly via cancellation);
// false means the timeout elapsed first.
func (h *CancellationHandle) AwaitTimeout(d time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-time.After(d):
		return false
	}
}

// RunAsync spawns eff on rt's executor and invokes onOk or onErr with its
// outcome, unless the returned handle is cancelled before completion — in
// that case neither callback fires, but Await still unblocks.
func RunAsync[E, A any](rt *Runtime, eff Effect[E, A], onOk func(A), onErr func(error)) *CancellationHandle {
	handle := &CancellationHandle{ctx: Root(), done: make(chan struct{})}
	rt.executor.Spawn(func() {
		value, errVal := rt.eval(handle.ctx, eff.node)

		handle.mu.Lock()
		suppressed := handle.cancelled
		handle.mu.Unlock()

		if !suppressed {
			if errVal != nil {
				if onErr != nil {
					onErr(toError[E](errVal))
				}
			} else if onOk != nil {
				onOk(value.(A))
			}
		}
		close(handle.done)
	})
	return handle
}

// pairOf adapts a (value, err, ok) triple into the (value, err) pair the
// two interpreters share as their return shape.
func pairOf(value, errVal Erased, ok bool) (Erased, Erased) {
	if ok {
		return value, nil
	}
	return nil, errVal
}

// evalNodeDirect is the genuinely recursive interpreter kept for
// pedagogical comparison against evalNode (§4.H) — it is NOT stack-safe:
// native recursion depth grows with the effect tree's composition depth.
func evalNodeDirect(rt *Runtime, ctx *ExecutionContext, node effectNode) (Erased, Erased) {
	if ctx.IsCancelled() {
		return nil, cancelledFailure
	}
	switch n := node.(type) {
	case pureNode:
		return n.value, nil
	case failNode:
		return nil, n.err
	case suspendNode:
		return pairOf(n.thunk())
	case flatMapNode:
		v, e := evalNodeDirect(rt, ctx, n.source)
		if e != nil {
			return nil, e
		}
		return evalNodeDirect(rt, ctx, n.k(v))
	case foldNode:
		v, e := evalNodeDirect(rt, ctx, n.source)
		if e != nil {
			if isCancelled(e) {
				return nil, e
			}
			return evalNodeDirect(rt, ctx, n.onErr(e))
		}
		return evalNodeDirect(rt, ctx, n.onOk(v))
	case mapErrorNode:
		v, e := evalNodeDirect(rt, ctx, n.source)
		if e != nil {
			if isCancelled(e) {
				return nil, e
			}
			return nil, n.f(e)
		}
		return v, nil
	case forkNode:
		return pairOf(n.spawn(rt, ctx))
	case scopedNode:
		return pairOf(executeScoped(rt, ctx, n))
	case generateNode:
		return pairOf(executeGenerate(rt, ctx, n))
	case performNode:
		return pairOf(performCapability(ctx, n.cap))
	default:
		panic("effect: unknown effect node type")
	}
}
