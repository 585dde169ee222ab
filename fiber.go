// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"sync"

	"github.com/google/uuid"
)

// Fiber is a handle to an effect running concurrently on its own execution
// task (§5). A Fiber is joined at most meaningfully once per completion,
// but Join may be called repeatedly — it always replays the same result,
// following dcos-go's future.go Block-on-a-done-channel pattern rather
// than the teacher's Affine one-shot-or-panic discipline: a handle the
// caller can safely join from more than one place is more useful than one
// that punishes a second read (see DESIGN.md Open Questions).
type Fiber[A any] struct {
	id   string
	done chan struct{}

	mu    sync.Mutex
	value A
	err   *Failure

	ctx *ExecutionContext
}

// newFiber allocates a Fiber bound to ctx, the execution context its body
// runs under — Interrupt cancels exactly this context.
func newFiber[A any](ctx *ExecutionContext) *Fiber[A] {
	return &Fiber[A]{
		id:   uuid.Must(uuid.NewRandom()).String(),
		done: make(chan struct{}),
		ctx:  ctx,
	}
}

// ID returns this fiber's stable identifier, usable for logging or
// correlating with handler-side diagnostics.
func (f *Fiber[A]) ID() string { return f.id }

// complete records the fiber's terminal result and releases any waiters.
// Called exactly once, by the goroutine executing the fiber's body.
func (f *Fiber[A]) complete(value Erased, errVal Erased) {
	f.mu.Lock()
	if errVal != nil {
		f.err = toFailure(errVal)
	} else if value != nil {
		f.value = value.(A)
	}
	f.mu.Unlock()
	close(f.done)
}

// toFailure normalizes an erased terminal error into *Failure: Fork always
// widens the joined error to the top-level error type (§3, §5).
func toFailure(errVal Erased) *Failure {
	if f, ok := errVal.(*Failure); ok {
		return f
	}
	return &Failure{Kind: KindDomain, Cause: errVal}
}

// Join blocks (via the capturing effect's own trampoline semantics — Join
// itself is a plain blocking Go call, meant to be wrapped in Suspend by
// callers composing it back into an Effect) until the fiber completes,
// returning its value or the widened *Failure.
func (f *Fiber[A]) Join() (A, *Failure) {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err
}

// Interrupt requests structural cancellation of the fiber's execution
// context. Idempotent — interrupting an already-completed or
// already-interrupted fiber is a silent no-op, not a panic, matching the
// Affine→idempotent decision recorded in DESIGN.md.
func (f *Fiber[A]) Interrupt() {
	f.ctx.Cancel()
}

// awaitDone blocks until the fiber completes and returns only its error
// (if any), discarding the value — used by EffectScope's exit protocol,
// which only needs to know whether a tracked fiber failed.
func (f *Fiber[A]) awaitDone() *Failure {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// IsDone reports whether the fiber has completed, without blocking.
func (f *Fiber[A]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// JoinEffect wraps Fiber.Join as an Effect (§4.F: "join() returns an
// effect"): evaluating it blocks the enclosing task until f's slot is
// populated, then re-raises its error or yields its value. The error
// channel is the top error type because the originating fork already
// erased f's domain-specific one.
func JoinEffect[A any](f *Fiber[A]) Effect[*Failure, A] {
	return Suspend[*Failure, A](func() (A, error) {
		v, err := f.Join()
		if err != nil {
			return v, err
		}
		return v, nil
	})
}

// InterruptEffect wraps Fiber.Interrupt as an Effect: atomically flips the
// fiber's cancellation flag and returns immediately.
func InterruptEffect[A any](f *Fiber[A]) Effect[*Failure, struct{}] {
	return Suspend[*Failure, struct{}](func() (struct{}, error) {
		f.Interrupt()
		return struct{}{}, nil
	})
}

// Fork constructs an Effect that spawns eff onto a new execution task on
// the active Runtime and immediately succeeds with a *Fiber[A] handle.
// The fiber is not tracked by any EffectScope, so it can outlive its
// parent's lexical Scoped block; use ForkIn for a fiber
// that must terminate with its enclosing scope.
func Fork[E, A any](eff Effect[E, A]) Effect[*Failure, *Fiber[A]] {
	source := eff.node
	return Effect[*Failure, *Fiber[A]]{node: forkNode{
		spawn: func(rt *Runtime, ctx *ExecutionContext) (Erased, Erased, bool) {
			return executeFork[A](rt, source, ctx, nil), nil, true
		},
	}}
}

// ForkIn is Fork, but the fiber is also tracked by scope: the scope's exit
// protocol will not complete until this fiber has terminated (§5, §4.G).
// Forking into an already-cancelled scope fails immediately with a
// KindScopeCancelled Failure instead of spawning.
func ForkIn[E, A any](scope *EffectScope, eff Effect[E, A]) Effect[*Failure, *Fiber[A]] {
	source := eff.node
	return Effect[*Failure, *Fiber[A]]{node: forkNode{
		spawn: func(rt *Runtime, ctx *ExecutionContext) (Erased, Erased, bool) {
			if scope.IsCancelled() {
				return nil, &Failure{Kind: KindScopeCancelled}, false
			}
			return executeFork[A](rt, source, ctx, scope), nil, true
		},
	}}
}

// executeFork spawns source on rt's executor under a child of parentCtx,
// returning a *Fiber[A] immediately. If scope is non-nil, the fiber is
// registered with it so the scope's exit protocol waits for it too — the
// worker-pool-plus-tracked-handle shape is grounded on the goroutine
// fan-out in tailored-agentic-units-kernel's orchestrate/workflows package,
// generalized from a fixed worker count to one goroutine per fiber.
func executeFork[A any](rt *Runtime, source effectNode, parentCtx *ExecutionContext, scope *EffectScope) *Fiber[A] {
	childCtx := parentCtx.Child()
	fiber := newFiber[A](childCtx)
	if scope != nil {
		scope.track(fiber)
	}
	rt.executor.Spawn(func() {
		value, errVal := evalNode(rt, childCtx, source)
		fiber.complete(value, errVal)
	})
	return fiber
}
