// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"sync/atomic"
	"testing"
	"time"

	effect "code.hybscloud.com/effect"
)

func TestRunSynchronous(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	got, err := effect.Run(rt, effect.Succeed[stringErr](9))
	if err != nil || got != 9 {
		t.Fatalf("got (%d, %v), want (9, nil)", got, err)
	}
}

func TestRunWithDirectRecursionMatchesTrampoline(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor(), effect.WithDirectRecursion())

	eff := effect.FlatMap(effect.Succeed[stringErr](1), func(x int) effect.Effect[stringErr, int] {
		return effect.Fold(effect.Succeed[stringErr](x+1),
			func(stringErr) effect.Effect[stringErr, int] { return effect.Succeed[stringErr](-1) },
			func(y int) effect.Effect[stringErr, int] { return effect.Succeed[stringErr](y * 10) },
		)
	})

	got, err := effect.Run(rt, eff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20 {
		t.Fatalf("got %d, want 20", got)
	}
}

// S8 — async cancel: run_async a long sleep, cancel partway through, and
// confirm the success callback never fires while Await still unblocks.
func TestScenarioAsyncCancel(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	var onOkCalled atomic.Bool

	slow := effect.Suspend[*effect.Failure, int](func() (int, error) {
		time.Sleep(400 * time.Millisecond)
		return 1, nil
	})

	handle := effect.RunAsync(rt, slow, func(int) { onOkCalled.Store(true) }, nil)

	time.Sleep(100 * time.Millisecond)
	handle.Cancel()

	if !handle.IsCancelled() {
		t.Fatal("IsCancelled must be true immediately after Cancel")
	}
	handle.Await()

	if onOkCalled.Load() {
		t.Fatal("the success callback must never fire once the handle was cancelled")
	}
}

func TestCancellationHandleAwaitTimeout(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())

	slow := effect.Suspend[*effect.Failure, int](func() (int, error) {
		time.Sleep(300 * time.Millisecond)
		return 1, nil
	})
	handle := effect.RunAsync(rt, slow, nil, nil)

	if handle.AwaitTimeout(50 * time.Millisecond) {
		t.Fatal("expected AwaitTimeout to time out before the slow task finishes")
	}
	if !handle.AwaitTimeout(500 * time.Millisecond) {
		t.Fatal("expected AwaitTimeout to observe completion within the remaining window")
	}
}

func TestRunAsyncSuccessCallback(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	resultCh := make(chan int, 1)

	handle := effect.RunAsync(rt, effect.Succeed[*effect.Failure](5),
		func(v int) { resultCh <- v },
		func(error) { t.Fatal("unexpected error callback") },
	)
	handle.Await()

	select {
	case v := <-resultCh:
		if v != 5 {
			t.Fatalf("got %d, want 5", v)
		}
	default:
		t.Fatal("expected the success callback to have fired before Await returned")
	}
}

func TestRunAsyncErrorCallback(t *testing.T) {
	rt := effect.NewRuntime(effect.NewGoExecutor())
	var gotErr error

	handle := effect.RunAsync(rt, effect.Fail[stringErr, int](stringErr{msg: "boom"}),
		func(int) { t.Fatal("unexpected success callback") },
		func(err error) { gotErr = err },
	)
	handle.Await()

	if gotErr == nil {
		t.Fatal("expected the error callback to have fired")
	}
}
