// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Capability is the marker for opaque, typed effect requests. Capabilities
// are data — they carry no behavior of their own; a CapabilityHandler
// interprets them. Any value can be lifted via FromCapability.
type Capability = any

// Outcome classifies what a CapabilityHandler.Dispatch did with a request.
type Outcome uint8

const (
	// Resumed means the handler produced a result for the capability.
	Resumed Outcome = iota
	// Rejected means "this is not my capability" — try the next handler
	// in a fallback chain. This is the explicit rejection signal §4.D
	// requires instead of piggy-backing on a failed type assertion.
	Rejected
	// Failed means the handler recognized the capability but failed while
	// interpreting it.
	Failed
)

// CapabilityHandler interprets capability values into results. Handlers
// must be safe for concurrent use: multiple forked effects may invoke the
// same handler concurrently (§5).
type CapabilityHandler interface {
	// Dispatch interprets cap. On Resumed, value holds the capability's
	// result. On Rejected, value is ignored — the caller should try a
	// fallback handler. On Failed, value holds the error the handler
	// raised while interpreting cap.
	Dispatch(cap Capability) (value Erased, outcome Outcome)
}

// HandlerFunc adapts a plain dispatch function into a CapabilityHandler.
type HandlerFunc func(cap Capability) (Erased, Outcome)

// Dispatch implements CapabilityHandler.
func (f HandlerFunc) Dispatch(cap Capability) (Erased, Outcome) {
	return f(cap)
}

// fallbackHandler tries first, and if first rejects a capability,
// delegates to second.
type fallbackHandler struct {
	first  CapabilityHandler
	second CapabilityHandler
}

// Dispatch implements CapabilityHandler.
func (h *fallbackHandler) Dispatch(cap Capability) (Erased, Outcome) {
	v, outcome := h.first.Dispatch(cap)
	if outcome != Rejected {
		return v, outcome
	}
	return h.second.Dispatch(cap)
}

// OrElseHandler returns a composite handler that tries first, falling
// back to second when first rejects the capability.
func OrElseHandler(first, second CapabilityHandler) CapabilityHandler {
	return &fallbackHandler{first: first, second: second}
}

// Compose builds an n-ary fallback chain in declaration order: the
// composite tries each handler in turn, moving to the next on rejection.
func Compose(handlers ...CapabilityHandler) CapabilityHandler {
	if len(handlers) == 0 {
		return HandlerFunc(func(Capability) (Erased, Outcome) { return nil, Rejected })
	}
	composite := handlers[len(handlers)-1]
	for i := len(handlers) - 2; i >= 0; i-- {
		composite = OrElseHandler(handlers[i], composite)
	}
	return composite
}
