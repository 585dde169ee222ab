// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// ExecutionContext is an immutable tree node carrying cancellation state
// and the currently-active capability handler (§4.C). It is safe to share
// among its descendants; the only mutable parts are the cancellation flag
// and the child list, both concurrency-safe.
type ExecutionContext struct {
	parent   *ExecutionContext
	handler  CapabilityHandler
	mu       sync.Mutex
	cancelled bool
	children []*ExecutionContext
}

// Root creates a fresh root execution context with no parent and no
// installed handler.
func Root() *ExecutionContext {
	return &ExecutionContext{}
}

// Child derives a new context pointing at ctx, inheriting its handler.
func (ctx *ExecutionContext) Child() *ExecutionContext {
	child := &ExecutionContext{parent: ctx, handler: ctx.handler}
	ctx.addChild(child)
	return child
}

// WithHandler derives a new child of ctx, like Child, but with h installed
// as its capability handler instead of ctx's.
func (ctx *ExecutionContext) WithHandler(h CapabilityHandler) *ExecutionContext {
	child := &ExecutionContext{parent: ctx, handler: h}
	ctx.addChild(child)
	return child
}

func (ctx *ExecutionContext) addChild(child *ExecutionContext) {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.children = append(ctx.children, child)
}

// IsCancelled reports whether ctx or any ancestor has been cancelled.
func (ctx *ExecutionContext) IsCancelled() bool {
	for c := ctx; c != nil; c = c.parent {
		c.mu.Lock()
		cancelled := c.cancelled
		c.mu.Unlock()
		if cancelled {
			return true
		}
	}
	return false
}

// Cancel idempotently cancels ctx and transitively cancels its
// descendants. Ancestors are never affected by a descendant's
// cancellation.
func (ctx *ExecutionContext) Cancel() {
	ctx.mu.Lock()
	if ctx.cancelled {
		ctx.mu.Unlock()
		return
	}
	ctx.cancelled = true
	children := ctx.children
	ctx.mu.Unlock()

	for _, child := range children {
		child.Cancel()
	}
}

// ErrNoHandler is the distinguished error a performed capability fails with
// when ResolveHandler finds no handler in the context's ancestry, or when
// every handler in the resolved chain rejects the capability.
var ErrNoHandler = &Failure{Kind: KindHandlerMissing, Cause: "no handler bound"}

// ResolveHandler walks up the parent chain looking for an installed
// capability handler. Returns (nil, false) if none is found.
func (ctx *ExecutionContext) ResolveHandler() (CapabilityHandler, bool) {
	for c := ctx; c != nil; c = c.parent {
		if c.handler != nil {
			return c.handler, true
		}
	}
	return nil, false
}
