// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// trackedFiber is the erased view of a *Fiber[A] an EffectScope needs: wait
// for completion and, on scope-exit cancellation, ask it to stop.
type trackedFiber interface {
	awaitDone() *Failure
	Interrupt()
}

// EffectScope bounds the lifetime of every fiber forked within it (§4.G):
// no fiber tracked by a scope outlives that scope's exit, on every exit
// path — normal completion, a failing body, or upstream cancellation.
type EffectScope struct {
	mu        sync.Mutex
	fibers    []trackedFiber
	cancelled bool
}

func newScope() *EffectScope {
	return &EffectScope{}
}

// track registers a fiber forked via ForkIn(scope, ...) with scope.
func (s *EffectScope) track(f trackedFiber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fibers = append(s.fibers, f)
}

// IsCancelled reports whether the scope has begun (or finished) tearing
// down — ForkIn consults this before spawning.
func (s *EffectScope) IsCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

// CancelAll interrupts every fiber currently tracked by the scope. Safe to
// call more than once; later calls are no-ops against already-interrupted
// fibers (Fiber.Interrupt is itself idempotent).
func (s *EffectScope) CancelAll() {
	s.mu.Lock()
	s.cancelled = true
	fibers := s.fibers
	s.mu.Unlock()

	for _, f := range fibers {
		f.Interrupt()
	}
}

// awaitAll waits for every tracked fiber to terminate on its own, without
// interrupting them, returning the first non-nil failure observed in fork
// order — step 3 of the scope exit protocol (§4.G): the success path never
// interrupts children, only waits for them.
func (s *EffectScope) awaitAll() *Failure {
	s.mu.Lock()
	fibers := s.fibers
	s.mu.Unlock()

	var first *Failure
	for _, f := range fibers {
		if err := f.awaitDone(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// interruptAndDrain interrupts every tracked fiber and waits for all of
// them to terminate, discarding whatever they observe — steps 4/5 of the
// scope exit protocol: when the body itself failed or was cancelled, the
// original error wins and children's errors during teardown are dropped.
func (s *EffectScope) interruptAndDrain() {
	s.mu.Lock()
	s.cancelled = true
	fibers := s.fibers
	s.mu.Unlock()

	for _, f := range fibers {
		f.Interrupt()
	}
	for _, f := range fibers {
		f.awaitDone()
	}
}

// executeScoped runs a scopedNode's body under a fresh EffectScope and
// child ExecutionContext, then applies the scope exit protocol (§4.G)
// before returning — recursing into evalNode is one of the two documented
// recursive re-entry points named in §4.E.
func executeScoped(rt *Runtime, ctx *ExecutionContext, n scopedNode) (Erased, Erased, bool) {
	scope := newScope()
	childCtx := ctx.Child()

	value, errVal := evalNode(rt, childCtx, n.body(scope))

	if errVal != nil {
		scope.interruptAndDrain()
		return nil, errVal, false
	}
	if childFailure := scope.awaitAll(); childFailure != nil {
		return nil, childFailure, false
	}
	return value, nil, true
}
