// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// evalNode is the stack-safe trampoline (§4.E): a loop, not recursion,
// maintaining current/value/error registers and an explicit conts stack.
// Native stack depth is bounded by a constant independent of the effect
// tree's depth — every descent into a child effect becomes a `current =`
// assignment plus a frame push, the same "flatten the chain, switch on
// the concrete node, reassign current/frame" shape as the teacher's
// evalFrames, generalized from one success register to the value/error
// pair §4.E requires.
//
// The only native recursion here is the re-entry into evalNode performed
// by executeScoped and executeGenerate, bounded by the program's lexical
// scope/generator nesting — the documented exception in §4.E.
func evalNode(rt *Runtime, ctx *ExecutionContext, start effectNode) (Erased, Erased) {
	current := start
	var value, errReg Erased
	var hasValue, hasErr bool
	conts := make([]ContFrame, 0, 8)

	for {
		// Cancellation checkpoint: observed between any two effect nodes —
		// i.e. only when about to dispatch on a fresh node, never while
		// mid-unwind, so a checkpoint can't clobber an error already being
		// propagated this same iteration.
		if current != nil {
			if ctx.IsCancelled() {
				errReg = cancelledFailure
				hasErr = true
				current = nil
			}
		}

		if hasErr {
			if len(conts) == 0 {
				return nil, errReg
			}
			frame := conts[len(conts)-1]
			conts = conts[:len(conts)-1]
			switch f := frame.(type) {
			case MapErrorCont:
				if !isCancelled(errReg) {
					errReg = f.F(errReg)
				}
				continue
			case FoldCont:
				if isCancelled(errReg) {
					continue
				}
				current = f.OnErr(errReg)
				hasErr = false
				continue
			case SeqCont:
				continue
			}
		}

		if hasValue && current == nil {
			if len(conts) == 0 {
				return value, nil
			}
			frame := conts[len(conts)-1]
			conts = conts[:len(conts)-1]
			switch f := frame.(type) {
			case SeqCont:
				current = f.K(value)
				hasValue = false
				continue
			case FoldCont:
				current = f.OnOk(value)
				hasValue = false
				continue
			case MapErrorCont:
				continue
			}
		}

		switch n := current.(type) {
		case pureNode:
			value = n.value
			hasValue = true
			current = nil
		case failNode:
			errReg = n.err
			hasErr = true
			current = nil
		case suspendNode:
			v, e, ok := n.thunk()
			if ok {
				value = v
				hasValue = true
			} else {
				errReg = e
				hasErr = true
			}
			current = nil
		case flatMapNode:
			conts = append(conts, SeqCont{K: n.k})
			current = n.source
		case foldNode:
			conts = append(conts, FoldCont{OnErr: n.onErr, OnOk: n.onOk})
			current = n.source
		case mapErrorNode:
			conts = append(conts, MapErrorCont{F: n.f})
			current = n.source
		case forkNode:
			v, e, ok := n.spawn(rt, ctx)
			if ok {
				value = v
				hasValue = true
			} else {
				errReg = e
				hasErr = true
			}
			current = nil
		case scopedNode:
			v, e, ok := executeScoped(rt, ctx, n)
			if ok {
				value = v
				hasValue = true
			} else {
				errReg = e
				hasErr = true
			}
			current = nil
		case generateNode:
			v, e, ok := executeGenerate(rt, ctx, n)
			if ok {
				value = v
				hasValue = true
			} else {
				errReg = e
				hasErr = true
			}
			current = nil
		case performNode:
			v, e, ok := performCapability(ctx, n.cap)
			if ok {
				value = v
				hasValue = true
			} else {
				errReg = e
				hasErr = true
			}
			current = nil
		default:
			panic("effect: unknown effect node type")
		}
	}
}

// performCapability resolves the handler bound in ctx (or its ancestors)
// and dispatches cap through it, translating the three-outcome Dispatch
// into the trampoline's (value, err, ok) shape.
func performCapability(ctx *ExecutionContext, cap Capability) (Erased, Erased, bool) {
	handler, found := ctx.ResolveHandler()
	if !found {
		return nil, ErrNoHandler, false
	}
	v, outcome := handler.Dispatch(cap)
	switch outcome {
	case Resumed:
		return v, nil, true
	case Failed:
		return nil, &Failure{Kind: KindHandlerFailure, Cause: v}, false
	default: // Rejected: no handler in the chain accepted the capability
		return nil, ErrNoHandler, false
	}
}
