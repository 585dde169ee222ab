// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// ContFrame is the marker interface for the three continuation-frame
// kinds the trampoline pushes/pops (§4.B). Frames are never observable to
// users — they exist only inside evalNode's conts stack.
type ContFrame interface {
	contFrame()
}

// SeqCont captures a FlatMap continuation. Applied on success; discarded
// (without running) during error unwinding.
type SeqCont struct {
	K func(Erased) effectNode
}

func (SeqCont) contFrame() {}

// FoldCont catches both branches of a Fold. OnOk runs on success, OnErr on
// error — except cancellation, which bypasses OnErr entirely (§7).
type FoldCont struct {
	OnErr func(Erased) effectNode
	OnOk  func(Erased) effectNode
}

func (FoldCont) contFrame() {}

// MapErrorCont transforms the error of a MapError. Applied only on error;
// discarded (without touching the value) on success. Cancellation bypasses
// it entirely (§7).
type MapErrorCont struct {
	F func(Erased) Erased
}

func (MapErrorCont) contFrame() {}
