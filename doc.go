// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides a first-class, lazily-evaluated effect runtime
// for Go: immutable effect descriptions, a stack-safe trampoline
// interpreter, structured concurrency via fibers and scopes, and
// pluggable interpretation of side effects through capability handlers.
//
// # Design Philosophy
//
// effect provides:
//   - A closed algebra of effect nodes, built and composed without ever
//     running anything — evaluation happens only under Run/RunAsync.
//   - A trampoline interpreter that evaluates arbitrarily deep
//     compositions (millions of FlatMaps) in constant native stack.
//   - Structured concurrency: every fiber forked with ForkIn is owned by a
//     lexical EffectScope that guarantees its termination before the scope
//     exits. A fiber started with plain Fork belongs to no scope.
//   - Swappable capability handlers, so side effects (logging, clocks,
//     state, anything) can be interpreted differently in tests than in
//     production without mocking frameworks.
//
// # Core Algebra
//
//   - [Succeed], [Fail], [Suspend]: lift a value, error, or side-effecting
//     thunk into an Effect.
//   - [Map], [FlatMap], [Then]: pure sequencing combinators.
//   - [CatchAll], [OrElse], [MapError], [Attempt]: error-channel combinators.
//   - [Fork], [ForkIn]: spawn an effect onto a new fiber.
//   - [Scoped]: run a body under a fresh EffectScope that owns its forks.
//   - [Generate]: run an imperative generator function against an
//     installed capability handler.
//   - [FromCapability]: lift an opaque capability request into an Effect.
//
// # Execution
//
//   - [Runtime]: owns an [Executor] and drives the trampoline.
//   - [Run], [RunWithHandler]: synchronous execution.
//   - [RunAsync]: asynchronous execution with a [CancellationHandle].
//   - [Fiber]: a handle onto a concurrently running effect (Join/Interrupt).
//   - [EffectScope]: the lexical container tracking forked fibers.
//
// # Capabilities
//
//   - [Capability]: marker constraint for opaque, typed effect requests.
//   - [CapabilityHandler]: interprets capabilities; composes via
//     [OrElseHandler], [Compose].
//
// # Error Taxonomy
//
//   - [Failure]: the top-level error surfaced by Run/Fiber.Join/RunAsync.
//   - [Either]: success/failure result type used by [Attempt].
package effect
