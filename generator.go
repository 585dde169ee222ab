// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// GeneratorContext is supplied to a Generate body (§4.G.2): a plain
// synchronous function that calls back into the interpreter via Perform,
// Lift, Call, and Yield. It runs on the same executor task as the
// enclosing interpreter call; it is neither restartable nor multi-shot.
type GeneratorContext struct {
	rt  *Runtime
	ctx *ExecutionContext
}

// generatorAbort is the internal signal a reentrant call panics with to
// unwind the plain Go call stack of a generator body back to
// executeGenerate, which recovers it and reports the failure through the
// trampoline's ordinary (value, err, ok) channel. The generator body never
// observes this type.
type generatorAbort struct{ err Erased }

// Handler exposes the capability handler installed in this generator's
// context, for composing handlers or delegating manually.
func (gc *GeneratorContext) Handler() (CapabilityHandler, bool) {
	return gc.ctx.ResolveHandler()
}

// Perform evaluates cap through the currently bound handler, blocking the
// generator until the handler returns. R must match the capability's
// declared result type; a mismatch is a programmer error and panics like
// any failed type assertion would.
func Perform[R any](gc *GeneratorContext, cap Capability) R {
	v, e, ok := performCapability(gc.ctx, cap)
	if !ok {
		panic(generatorAbort{err: e})
	}
	return v.(R)
}

// Lift produces an Effect that will perform cap when evaluated, without
// evaluating it now — for handing a capability request to code that
// expects an ordinary Effect value instead of a reentrant call.
func Lift[R any](cap Capability) Effect[*Failure, R] {
	return FromCapability[R](cap)
}

// Call runs thunk under the generator's error-handling discipline: a
// returned error aborts the generator exactly as a failed Perform would.
// An error whose dynamic type is E is reported as that domain error; any
// other error is wrapped as a KindThunkUnexpected Failure, as Suspend does.
func Call[E, A any](gc *GeneratorContext, thunk func() (A, error)) A {
	a, _ := Yield(gc, Suspend[E, A](thunk))
	return a
}

// Yield re-enters the trampoline for an arbitrary sub-effect, returning
// its value and aborting the generator if it fails. This is the second
// documented recursive re-entry point named in §4.E.
func Yield[E, A any](gc *GeneratorContext, eff Effect[E, A]) (A, Erased) {
	value, errVal := evalNode(gc.rt, gc.ctx, eff.node)
	if errVal != nil {
		panic(generatorAbort{err: errVal})
	}
	return value.(A), nil
}

// executeGenerate installs n.handler in a child context, invokes n.gen
// with a bound GeneratorContext, and recovers a generatorAbort panic (from
// Perform/Call/Yield) into the trampoline's ordinary error channel.
func executeGenerate(rt *Runtime, ctx *ExecutionContext, n generateNode) (value Erased, errVal Erased, ok bool) {
	childCtx := ctx.WithHandler(n.handler)
	gc := &GeneratorContext{rt: rt, ctx: childCtx}

	defer func() {
		if r := recover(); r != nil {
			abort, isAbort := r.(generatorAbort)
			if !isAbort {
				panic(r)
			}
			value, errVal, ok = nil, abort.err, false
		}
	}()

	return n.gen(gc)
}
