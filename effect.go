// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Erased represents a type-erased value flowing through the trampoline.
// Effect nodes carry Erased payloads internally; concrete types are
// recovered via type assertions at node boundaries, the same discipline
// the defunctionalized continuation frames this package's interpreter is
// descended from use for their frame chain.
type Erased = any

// effectNode is the type-erased tag for one node of the closed effect
// algebra (§3). Effect[E, A] is a thin typed wrapper around a node; the
// combinators below build new nodes without ever evaluating anything —
// construction is pure data assembly, allocation-only.
type effectNode interface {
	effectNode()
}

// Effect is an immutable description of a computation with a success
// channel A and an error channel E. Values are safe to share and re-run;
// building an Effect never performs a side effect — only Run/RunAsync do.
type Effect[E, A any] struct {
	node effectNode
}

// pureNode is Pure(a): an already-known success value.
type pureNode struct{ value Erased }

func (pureNode) effectNode() {}

// failNode is Fail(e): an already-known error value.
type failNode struct{ err Erased }

func (failNode) effectNode() {}

// suspendNode is Suspend(thunk): a captured side-effecting function.
// thunk returns (value, err, ok) where ok=true means success.
type suspendNode struct {
	thunk func() (Erased, Erased, bool)
}

func (suspendNode) effectNode() {}

// flatMapNode is FlatMap(source, k): evaluate source, pass its success to
// k to obtain the next effect. Preserves the source's error type.
type flatMapNode struct {
	source effectNode
	k      func(Erased) effectNode
}

func (flatMapNode) effectNode() {}

// foldNode is Fold(source, onErr, onOk): evaluate source; dispatch to
// onErr or onOk depending on outcome. May change both E and A.
type foldNode struct {
	source effectNode
	onErr  func(Erased) effectNode
	onOk   func(Erased) effectNode
}

func (foldNode) effectNode() {}

// mapErrorNode is MapError(source, f): success passes through unchanged,
// error is transformed by f.
type mapErrorNode struct {
	source effectNode
	f      func(Erased) Erased
}

func (mapErrorNode) effectNode() {}

// forkNode is Fork(effect[, scope]): spawn effect on a new execution task;
// success value is a *Fiber handle. spawn is built by the generic Fork/
// ForkIn constructors in fiber.go, closing over the success type A so the
// erased value it returns already has the concrete *Fiber[A] dynamic type
// the caller's Effect[*Failure, *Fiber[A]] expects.
type forkNode struct {
	spawn func(rt *Runtime, ctx *ExecutionContext) (Erased, Erased, bool)
}

func (forkNode) effectNode() {}

// scopedNode is Scoped(body): invoke body with a fresh EffectScope; the
// effect body returns becomes the scope's program.
type scopedNode struct {
	body func(*EffectScope) effectNode
}

func (scopedNode) effectNode() {}

// generateNode is Generate(gen, handler): run an imperative generator
// function with handler installed in a child context.
type generateNode struct {
	gen     func(*GeneratorContext) (Erased, Erased, bool)
	handler CapabilityHandler
}

func (generateNode) effectNode() {}

// performNode is PerformCapability(cap): submit cap to the resolved
// capability handler.
type performNode struct {
	cap Capability
}

func (performNode) effectNode() {}

// Succeed lifts an already-known success value into an Effect.
func Succeed[E, A any](a A) Effect[E, A] {
	return Effect[E, A]{node: pureNode{value: a}}
}

// Fail lifts an already-known error value into an Effect.
func Fail[E, A any](e E) Effect[E, A] {
	return Effect[E, A]{node: failNode{err: e}}
}

// Suspend captures a side-effecting thunk. thunk returns (value, nil) on
// success, or (zero, err) on failure. If the dynamic type of err does not
// assert to E, it is wrapped as a Failure of kind KindThunkUnexpected
// rather than being treated as a domain error — the escape hatch for
// host errors the thunk did not declare (see DESIGN.md Open Questions).
func Suspend[E, A any](thunk func() (A, error)) Effect[E, A] {
	return Effect[E, A]{node: suspendNode{thunk: func() (Erased, Erased, bool) {
		a, err := thunk()
		if err == nil {
			return a, nil, true
		}
		if typed, ok := any(err).(E); ok {
			return nil, typed, false
		}
		return nil, &Failure{Kind: KindThunkUnexpected, Cause: err}, false
	}}}
}

// FlatMap sequences two effects: evaluate m, then pass its success to k to
// obtain the next effect. The error channel is preserved from m (and from
// whatever k returns, which must share the same E).
func FlatMap[E, A, B any](m Effect[E, A], k func(A) Effect[E, B]) Effect[E, B] {
	return Effect[E, B]{node: flatMapNode{
		source: m.node,
		k: func(v Erased) effectNode {
			return k(v.(A)).node
		},
	}}
}

// Map transforms the success value of m with a pure function.
// map(f) ≡ flat_map(a => Pure(f(a))).
func Map[E, A, B any](m Effect[E, A], f func(A) B) Effect[E, B] {
	return FlatMap(m, func(a A) Effect[E, B] {
		return Succeed[E, B](f(a))
	})
}

// Then sequences m before n, discarding m's success value.
func Then[E, A, B any](m Effect[E, A], n Effect[E, B]) Effect[E, B] {
	return FlatMap(m, func(A) Effect[E, B] { return n })
}

// Fold evaluates source; on success invokes onOk, on error invokes onErr.
// Each branch produces the effect's new error/success type. Fold and
// MapError must not transform or swallow cancellation — see trampoline.go.
func Fold[E1, A1, E2, A2 any](source Effect[E1, A1], onErr func(E1) Effect[E2, A2], onOk func(A1) Effect[E2, A2]) Effect[E2, A2] {
	return Effect[E2, A2]{node: foldNode{
		source: source.node,
		onErr: func(v Erased) effectNode {
			return onErr(v.(E1)).node
		},
		onOk: func(v Erased) effectNode {
			return onOk(v.(A1)).node
		},
	}}
}

// MapError transforms the error of source with f; success passes through.
func MapError[E1, A, E2 any](source Effect[E1, A], f func(E1) E2) Effect[E2, A] {
	return Effect[E2, A]{node: mapErrorNode{
		source: source.node,
		f: func(v Erased) Erased {
			return f(v.(E1))
		},
	}}
}

// CatchAll recovers from any error of m by running h, in the same error
// type. catch_all(h) ≡ Fold(m, h, Succeed).
func CatchAll[E, A any](m Effect[E, A], h func(E) Effect[E, A]) Effect[E, A] {
	return Fold(m, h, func(a A) Effect[E, A] { return Succeed[E, A](a) })
}

// OrElse replaces any error of m with fb, ignoring the error value.
// or_else(fb) ≡ catch_all(_ => fb).
func OrElse[E, A any](m Effect[E, A], fb Effect[E, A]) Effect[E, A] {
	return CatchAll(m, func(E) Effect[E, A] { return fb })
}

// Attempt converts m into an Effect that never fails: domain errors surface
// as Left, successes as Right. Attempt's own error type is the top error
// (it only fails via cancellation, which bypasses Fold entirely).
func Attempt[E, A any](m Effect[E, A]) Effect[*Failure, Either[E, A]] {
	return Fold(m,
		func(e E) Effect[*Failure, Either[E, A]] {
			return Succeed[*Failure](Left[E, A](e))
		},
		func(a A) Effect[*Failure, Either[E, A]] {
			return Succeed[*Failure](Right[E, A](a))
		},
	)
}

// FromCapability lifts a capability request into an Effect whose success
// type is the capability's declared result type.
func FromCapability[R any](cap Capability) Effect[*Failure, R] {
	return Effect[*Failure, R]{node: performNode{cap: cap}}
}

// Scoped constructs an Effect whose body runs under a fresh EffectScope;
// every fiber forked within body is guaranteed to terminate before Scoped
// itself returns (see scope.go for the exit protocol).
func Scoped[E, A any](body func(*EffectScope) Effect[E, A]) Effect[E, A] {
	return Effect[E, A]{node: scopedNode{
		body: func(s *EffectScope) effectNode {
			return body(s).node
		},
	}}
}

// Generate constructs an Effect that runs an imperative generator function
// synchronously, with handler installed for the generator's reentrant
// Perform/Yield calls (§4.G.2). The generator is neither restartable nor
// multi-shot.
func Generate[E, A any](gen func(*GeneratorContext) (A, E, bool), handler CapabilityHandler) Effect[E, A] {
	return Effect[E, A]{node: generateNode{
		gen: func(gc *GeneratorContext) (Erased, Erased, bool) {
			a, e, ok := gen(gc)
			if ok {
				return a, nil, true
			}
			return nil, e, false
		},
		handler: handler,
	}}
}
