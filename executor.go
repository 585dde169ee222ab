// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

// Executor accepts a parameterless task and runs it on a lightweight
// thread (§6). The runtime assumes an executor can accommodate at least as
// many concurrent tasks as the effect program can fork at its peak.
type Executor interface {
	Spawn(task func())
}

// GoExecutor is the default Executor: one goroutine per task, unbounded.
// It is the simplest faithful implementation of §6's Executor contract —
// the same goroutine-per-unit-of-work shape as
// tailored-agentic-units-kernel's orchestrate/workflows worker fan-out,
// scaled here from a fixed pool to one goroutine per spawned task since
// this runtime has no notion of a bounded worker count of its own.
type GoExecutor struct{}

// NewGoExecutor constructs a GoExecutor.
func NewGoExecutor() *GoExecutor { return &GoExecutor{} }

// Spawn implements Executor by starting task on a new goroutine.
func (GoExecutor) Spawn(task func()) {
	go task()
}
