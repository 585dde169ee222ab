// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"errors"
	"fmt"
)

// Kind classifies the top-level errors a Run/Fiber.Join/RunAsync can
// surface, per the error taxonomy (§7).
type Kind uint8

const (
	// KindDomain wraps a user Fail(e) or Suspend-reported domain error.
	KindDomain Kind = iota
	// KindCancelled marks a structural, non-recoverable cancellation.
	KindCancelled
	// KindHandlerMissing marks PerformCapability with no bound/accepting handler.
	KindHandlerMissing
	// KindHandlerFailure marks a handler that failed while interpreting a capability.
	KindHandlerFailure
	// KindThunkUnexpected marks a Suspend thunk error outside its declared E.
	KindThunkUnexpected
	// KindScopeCancelled marks EffectScope.Fork called after cancellation.
	KindScopeCancelled
)

func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindCancelled:
		return "cancelled"
	case KindHandlerMissing:
		return "handler-missing"
	case KindHandlerFailure:
		return "handler-failure"
	case KindThunkUnexpected:
		return "thunk-unexpected"
	case KindScopeCancelled:
		return "scope-cancelled"
	default:
		return "unknown"
	}
}

// Failure is the top-level, type-erased error surfaced whenever an
// effect's inner error type is widened away — Fork's fiber result, a
// PerformCapability dispatch failure, or a cancellation. Cause holds the
// original value (a domain error, a wrapped handler error, or nil for
// cancellation).
type Failure struct {
	Kind  Kind
	Cause any
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Cause == nil {
		return fmt.Sprintf("effect: %s", f.Kind)
	}
	return fmt.Sprintf("effect: %s: %v", f.Kind, f.Cause)
}

// Unwrap supports errors.Is/errors.As against the wrapped cause, when the
// cause itself is an error.
func (f *Failure) Unwrap() error {
	if err, ok := f.Cause.(error); ok {
		return err
	}
	return nil
}

// Is reports whether target is ErrCancelled and f is a cancellation.
func (f *Failure) Is(target error) bool {
	if target == ErrCancelled {
		return f.Kind == KindCancelled
	}
	return false
}

// ErrCancelled is the sentinel compared against via errors.Is(err, ErrCancelled).
var ErrCancelled = errors.New("effect: cancelled")

// cancelledFailure is the single shared Failure value used for every
// cancellation; cancellation is structural and carries no payload, so a
// shared value avoids an allocation on every checkpoint trip.
var cancelledFailure = &Failure{Kind: KindCancelled}

// isCancelled reports whether an erased error value is the cancellation
// signal. Fold/MapError must special-case this: cancellation passes
// through both unchanged (§7).
func isCancelled(err Erased) bool {
	f, ok := err.(*Failure)
	return ok && f.Kind == KindCancelled
}

// DomainError wraps a typed domain error E so synchronous Run can return a
// plain Go error while preserving E for errors.As.
type DomainError[E any] struct {
	Err E
}

// Error implements the error interface.
func (d *DomainError[E]) Error() string {
	return fmt.Sprintf("effect: domain error: %v", d.Err)
}

// Unwrap supports errors.Is/errors.As when E itself implements error.
func (d *DomainError[E]) Unwrap() error {
	if err, ok := any(d.Err).(error); ok {
		return err
	}
	return nil
}

// toError converts an erased terminal error value into a plain Go error:
// a *Failure is returned as-is, anything else is the domain error E,
// wrapped in *DomainError[E].
func toError[E any](err Erased) error {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Failure); ok {
		return f
	}
	return &DomainError[E]{Err: err.(E)}
}

// Either represents a value that is either Left (error/failure) or Right
// (success). Attempt's result type.
type Either[E, A any] struct {
	isRight bool
	left    E
	right   A
}

// Left creates a Left (error) value.
func Left[E, A any](e E) Either[E, A] {
	return Either[E, A]{isRight: false, left: e}
}

// Right creates a Right (success) value.
func Right[E, A any](a A) Either[E, A] {
	return Either[E, A]{isRight: true, right: a}
}

// IsRight reports whether this is a Right value.
func (e Either[E, A]) IsRight() bool { return e.isRight }

// IsLeft reports whether this is a Left value.
func (e Either[E, A]) IsLeft() bool { return !e.isRight }

// GetRight returns the Right value and true, or zero and false.
func (e Either[E, A]) GetRight() (A, bool) {
	if e.isRight {
		return e.right, true
	}
	var zero A
	return zero, false
}

// GetLeft returns the Left value and true, or zero and false.
func (e Either[E, A]) GetLeft() (E, bool) {
	if !e.isRight {
		return e.left, true
	}
	var zero E
	return zero, false
}

// MatchEither pattern-matches on e, calling onLeft or onRight.
func MatchEither[E, A, T any](e Either[E, A], onLeft func(E) T, onRight func(A) T) T {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}
