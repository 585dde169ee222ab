// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"
	"time"

	effect "code.hybscloud.com/effect"
)

// S6 — scoped cancel-on-exit: a scope forks a long-sleeping child and the
// scope's body returns immediately; run must still return promptly, and
// the child must not have completed shortly after run returns.
func TestScenarioScopedCancelOnExit(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	completed := make(chan struct{}, 1)

	sleepy := effect.Suspend[*effect.Failure, struct{}](func() (struct{}, error) {
		time.Sleep(2 * time.Second)
		completed <- struct{}{}
		return struct{}{}, nil
	})

	start := time.Now()
	got, err := effect.Run(rt, effect.Scoped(func(scope *effect.EffectScope) effect.Effect[*effect.Failure, string] {
		return effect.Then(
			effect.Map(effect.ForkIn(scope, sleepy), func(*effect.Fiber[struct{}]) struct{} { return struct{}{} }),
			effect.Succeed[*effect.Failure]("done"),
		)
	}))
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Fatalf("got %q, want done", got)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("run took %v, expected to return promptly regardless of the forked child's sleep", elapsed)
	}

	select {
	case <-completed:
		t.Fatal("the forked child must not have completed naturally — the scope should have interrupted it on exit")
	case <-time.After(200 * time.Millisecond):
	}
}

// Invariant 8 — scope containment: no fork outlives the run() that
// produced its scope, on the success exit path.
func TestScopeContainmentOnSuccess(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	var fiberRef *effect.Fiber[int]

	_, err := effect.Run(rt, effect.Scoped(func(scope *effect.EffectScope) effect.Effect[*effect.Failure, int] {
		return effect.FlatMap(effect.ForkIn(scope, effect.Succeed[*effect.Failure](7)), func(f *effect.Fiber[int]) effect.Effect[*effect.Failure, int] {
			fiberRef = f
			return effect.JoinEffect(f)
		})
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fiberRef.IsDone() {
		t.Fatal("every tracked fiber must be done by the time Scoped's run returns")
	}
}

// Scope exit protocol step 4: a failing body re-raises its own error
// even when children also fail during teardown (their errors are dropped).
func TestScopeExitKeepsBodyErrorOverChildTeardownErrors(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	bodyErr := &effect.Failure{Kind: effect.KindDomain, Cause: "body failed"}

	_, err := effect.Run(rt, effect.Scoped(func(scope *effect.EffectScope) effect.Effect[*effect.Failure, int] {
		longChild := effect.Suspend[*effect.Failure, int](func() (int, error) {
			time.Sleep(500 * time.Millisecond)
			return 0, &effect.Failure{Kind: effect.KindDomain, Cause: "child failed during teardown"}
		})
		return effect.FlatMap(effect.ForkIn(scope, longChild), func(*effect.Fiber[int]) effect.Effect[*effect.Failure, int] {
			return effect.Fail[*effect.Failure, int](bodyErr)
		})
	}))

	if err == nil {
		t.Fatal("expected the body's own error")
	}
	var failure *effect.Failure
	if !errAs(err, &failure) {
		t.Fatalf("expected *Failure, got %T", err)
	}
	if failure.Cause != "body failed" {
		t.Fatalf("got cause %v, want the body's own error, not the child's teardown error", failure.Cause)
	}
}

func TestForkIntoCancelledScopeFails(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())

	_, err := effect.Run(rt, effect.Scoped(func(scope *effect.EffectScope) effect.Effect[*effect.Failure, int] {
		scope.CancelAll()
		if !scope.IsCancelled() {
			t.Fatal("CancelAll must flip IsCancelled immediately")
		}
		return effect.Map(effect.ForkIn(scope, effect.Succeed[*effect.Failure](1)), func(*effect.Fiber[int]) int { return 0 })
	}))

	var failure *effect.Failure
	if !errAs(err, &failure) || failure.Kind != effect.KindScopeCancelled {
		t.Fatalf("got %v, want KindScopeCancelled", err)
	}
}
