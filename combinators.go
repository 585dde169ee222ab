// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// ZipPar runs a and b concurrently — zip_par(a, b, f) ≡ fork a; fork b;
// join both; f applied (§4.A) — under a private scope so neither fiber can
// outlive this call. Both are forked before either is joined, so they run
// truly in parallel rather than one after the other.
//
// The result's error channel is the top error type, not a or b's E: a
// joined fiber's error is already widened by Fork (§4.F), and narrowing it
// back to E would require an unchecked assertion against whatever *Failure
// the losing side produced. If both a and b fail, the error from a's join
// wins — a deterministic choice within the "implementation-defined, but
// must be one of them" tie-break §4.A allows (see DESIGN.md).
func ZipPar[E, A, B, C any](a Effect[E, A], b Effect[E, B], f func(A, B) C) Effect[*Failure, C] {
	return Scoped(func(scope *EffectScope) Effect[*Failure, C] {
		return FlatMap(ForkIn(scope, a), func(fa *Fiber[A]) Effect[*Failure, C] {
			return FlatMap(ForkIn(scope, b), func(fb *Fiber[B]) Effect[*Failure, C] {
				return FlatMap(JoinEffect(fa), func(va A) Effect[*Failure, C] {
					return Map(JoinEffect(fb), func(vb B) C {
						return f(va, vb)
					})
				})
			})
		})
	})
}

// Pair2 is Par2's result shape.
type Pair2[A, B any] struct {
	First  A
	Second B
}

// Par2 forks a and b concurrently and joins both, pairing their results.
func Par2[E, A, B any](a Effect[E, A], b Effect[E, B]) Effect[*Failure, Pair2[A, B]] {
	return ZipPar(a, b, func(av A, bv B) Pair2[A, B] {
		return Pair2[A, B]{First: av, Second: bv}
	})
}

// Pair3 is Par3's result shape.
type Pair3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Par3 forks a, b and c concurrently — all three start before any is
// joined — and pairs their results.
func Par3[E, A, B, C any](a Effect[E, A], b Effect[E, B], c Effect[E, C]) Effect[*Failure, Pair3[A, B, C]] {
	return Scoped(func(scope *EffectScope) Effect[*Failure, Pair3[A, B, C]] {
		return FlatMap(ForkIn(scope, a), func(fa *Fiber[A]) Effect[*Failure, Pair3[A, B, C]] {
			return FlatMap(ForkIn(scope, b), func(fb *Fiber[B]) Effect[*Failure, Pair3[A, B, C]] {
				return FlatMap(ForkIn(scope, c), func(fc *Fiber[C]) Effect[*Failure, Pair3[A, B, C]] {
					return FlatMap(JoinEffect(fa), func(va A) Effect[*Failure, Pair3[A, B, C]] {
						return FlatMap(JoinEffect(fb), func(vb B) Effect[*Failure, Pair3[A, B, C]] {
							return Map(JoinEffect(fc), func(vc C) Pair3[A, B, C] {
								return Pair3[A, B, C]{First: va, Second: vb, Third: vc}
							})
						})
					})
				})
			})
		})
	})
}

// Pair4 is Par4's result shape.
type Pair4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// Par4 forks a, b, c and d concurrently and pairs their results.
func Par4[E, A, B, C, D any](a Effect[E, A], b Effect[E, B], c Effect[E, C], d Effect[E, D]) Effect[*Failure, Pair4[A, B, C, D]] {
	return Scoped(func(scope *EffectScope) Effect[*Failure, Pair4[A, B, C, D]] {
		return FlatMap(ForkIn(scope, a), func(fa *Fiber[A]) Effect[*Failure, Pair4[A, B, C, D]] {
			return FlatMap(ForkIn(scope, b), func(fb *Fiber[B]) Effect[*Failure, Pair4[A, B, C, D]] {
				return FlatMap(ForkIn(scope, c), func(fc *Fiber[C]) Effect[*Failure, Pair4[A, B, C, D]] {
					return FlatMap(ForkIn(scope, d), func(fd *Fiber[D]) Effect[*Failure, Pair4[A, B, C, D]] {
						return FlatMap(JoinEffect(fa), func(va A) Effect[*Failure, Pair4[A, B, C, D]] {
							return FlatMap(JoinEffect(fb), func(vb B) Effect[*Failure, Pair4[A, B, C, D]] {
								return FlatMap(JoinEffect(fc), func(vc C) Effect[*Failure, Pair4[A, B, C, D]] {
									return Map(JoinEffect(fd), func(vd D) Pair4[A, B, C, D] {
										return Pair4[A, B, C, D]{First: va, Second: vb, Third: vc, Fourth: vd}
									})
								})
							})
						})
					})
				})
			})
		})
	})
}

// ParAll forks every effect in effs concurrently (homogeneous element
// type, unlike Par2/Par3/Par4) and joins them all, preserving order.
// Grounded in the teacher's habit of layering a fused N-ary convenience
// (GetState, AskReader) over minimal primitives — here, ForkIn and
// JoinEffect, chained by forkAll and joinAll.
func ParAll[E, A any](effs []Effect[E, A]) Effect[*Failure, []A] {
	return Scoped(func(scope *EffectScope) Effect[*Failure, []A] {
		return forkAll(scope, effs, 0, make([]*Fiber[A], len(effs)))
	})
}

func forkAll[E, A any](scope *EffectScope, effs []Effect[E, A], i int, fibers []*Fiber[A]) Effect[*Failure, []A] {
	if i == len(effs) {
		return joinAll(fibers, 0, make([]A, len(fibers)))
	}
	return FlatMap(ForkIn(scope, effs[i]), func(f *Fiber[A]) Effect[*Failure, []A] {
		fibers[i] = f
		return forkAll(scope, effs, i+1, fibers)
	})
}

func joinAll[A any](fibers []*Fiber[A], i int, values []A) Effect[*Failure, []A] {
	if i == len(fibers) {
		return Succeed[*Failure, []A](values)
	}
	return FlatMap(JoinEffect(fibers[i]), func(v A) Effect[*Failure, []A] {
		values[i] = v
		return joinAll(fibers, i+1, values)
	})
}

// Bracket runs acquire, then use(resource), guaranteeing release(resource)
// runs whether use succeeds or fails, then re-surfaces use's outcome —
// resource safety as a derived combinator (teacher's resource.go), kept out
// of the closed effect sum per the core's non-goal on built-in resource
// brackets.
func Bracket[E, R, A any](acquire Effect[E, R], use func(R) Effect[E, A], release func(R) Effect[E, struct{}]) Effect[E, A] {
	return FlatMap(acquire, func(r R) Effect[E, A] {
		return Fold(use(r),
			func(e E) Effect[E, A] {
				return Then(release(r), Fail[E, A](e))
			},
			func(a A) Effect[E, A] {
				return Then(release(r), Succeed[E, A](a))
			},
		)
	})
}

// OnError runs body; if it fails, cleanup(e) runs before the original
// error e is re-raised. Success passes through unchanged.
func OnError[E, A any](body Effect[E, A], cleanup func(E) Effect[E, struct{}]) Effect[E, A] {
	return Fold(body,
		func(e E) Effect[E, A] {
			return Then(cleanup(e), Fail[E, A](e))
		},
		func(a A) Effect[E, A] { return Succeed[E, A](a) },
	)
}

// StepRequest is one capability a Stepper-driven generator is waiting on.
type StepRequest struct {
	Cap    Capability
	resume chan Erased
}

// Resume supplies result for this request, unblocking the generator to
// continue toward its next request or completion. Call at most once.
func (r *StepRequest) Resume(result Erased) {
	r.resume <- result
}

// Stepper drives a Generate-style body from outside, one PerformCapability
// at a time, without installing a full CapabilityHandler — generalized
// from the teacher's Suspension/Step one-shot-resumption shape
// (step.go), adapted here to a goroutine-plus-channel generator instead of
// a resumable continuation value, since this package's effect nodes are
// data, not first-class continuations. Only Perform is available inside a
// Stepper-driven body; Yield/Call, which reenter the trampoline, are not,
// since a Stepper has no bound Runtime.
type Stepper[A any] struct {
	requests chan *StepRequest
	done     chan struct{}
	value    A
	err      *Failure
}

// StepCapability starts body on its own goroutine and returns a Stepper an
// external event loop can drive via Next/Resume.
func StepCapability[A any](body func(*GeneratorContext) (A, error)) *Stepper[A] {
	st := &Stepper[A]{
		requests: make(chan *StepRequest),
		done:     make(chan struct{}),
	}
	handler := HandlerFunc(func(cap Capability) (Erased, Outcome) {
		req := &StepRequest{Cap: cap, resume: make(chan Erased)}
		st.requests <- req
		return <-req.resume, Resumed
	})
	gc := &GeneratorContext{ctx: Root().WithHandler(handler)}

	go func() {
		a, err := body(gc)
		if err != nil {
			st.err = &Failure{Kind: KindDomain, Cause: err}
		} else {
			st.value = a
		}
		close(st.requests)
		close(st.done)
	}()
	return st
}

// Next blocks for the generator's next capability request. ok is false
// once the generator has completed and no more requests will arrive.
func (st *Stepper[A]) Next() (req *StepRequest, ok bool) {
	req, ok = <-st.requests
	return req, ok
}

// Result blocks until the generator has finished and returns its outcome.
func (st *Stepper[A]) Result() (A, *Failure) {
	<-st.done
	return st.value, st.err
}
