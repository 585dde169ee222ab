// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect_test

import (
	"testing"

	effect "code.hybscloud.com/effect"
)

func TestCancellationMonotonicity(t *testing.T) {
	root := effect.Root()
	child := root.Child()

	if root.IsCancelled() || child.IsCancelled() {
		t.Fatal("freshly created contexts must not be cancelled")
	}

	root.Cancel()
	if !root.IsCancelled() {
		t.Fatal("root must observe its own cancellation")
	}
	if !child.IsCancelled() {
		t.Fatal("an existing child must observe its ancestor's cancellation")
	}

	grandchild := child.Child()
	if !grandchild.IsCancelled() {
		t.Fatal("a context derived after cancellation must observe it immediately")
	}

	// Idempotent: cancelling again must not panic or change the outcome.
	root.Cancel()
	if !root.IsCancelled() {
		t.Fatal("cancellation must remain sticky")
	}
}

func TestCancellationNeverPropagatesUpward(t *testing.T) {
	root := effect.Root()
	child := root.Child()

	child.Cancel()
	if root.IsCancelled() {
		t.Fatal("a child's cancellation must never affect its parent")
	}
}

func TestResolveHandlerWalksAncestry(t *testing.T) {
	root := effect.Root()
	if _, ok := root.ResolveHandler(); ok {
		t.Fatal("a root context with no handler must resolve to false")
	}

	h := effect.HandlerFunc(func(effect.Capability) (effect.Erased, effect.Outcome) {
		return nil, effect.Rejected
	})
	withHandler := root.WithHandler(h)
	grandchild := withHandler.Child()

	resolved, ok := grandchild.ResolveHandler()
	if !ok {
		t.Fatal("a descendant must resolve the nearest installed ancestor handler")
	}
	if _, outcome := resolved.Dispatch(nil); outcome != effect.Rejected {
		t.Fatal("resolved handler must be the one installed, not a copy")
	}
}
