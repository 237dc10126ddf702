// Package fault provides structured failure reporting for the anima core.
//
// The core has exactly two failure categories and neither is recoverable:
// contract violations (a caller broke a documented precondition) and
// internal-consistency failures (the core's own invariants no longer hold).
// Both are reported through a pluggable handler and then panic. There are no
// error return values anywhere in the core; callers are expected to check
// handle validity before mutating, which makes every remaining failure a
// programming error.
package fault

import (
	"fmt"
	"time"
)

// Kind identifies the category of a fault.
type Kind int

const (
	// KindContract indicates a caller violated a documented precondition:
	// an invalid handle passed to a mutator, capacity exceeded on create,
	// an out-of-range bit-field, or a malformed duration/repeat combination.
	KindContract Kind = iota
	// KindConsistency indicates the core observed a state its own invariants
	// rule out, such as an unreachable phase-transition pair during a
	// batched advance.
	KindConsistency
)

func (k Kind) String() string {
	switch k {
	case KindContract:
		return "contract"
	case KindConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// Error represents a fatal fault in the anima core.
type Error struct {
	// Op is the operation that failed (e.g., "animation.Animator.Play").
	Op string
	// Kind categorizes the fault.
	Kind Kind
	// Msg describes what went wrong.
	Msg string
	// StackTrace contains the call stack at the time of the fault.
	StackTrace string
	// Timestamp is when the fault occurred.
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Op, e.Kind, e.Msg)
}

// Contract reports a contract violation and panics.
//
// Contract violations are programmer errors, never expected runtime
// conditions; they must not be silently tolerated or auto-corrected.
func Contract(op, format string, args ...any) {
	fail(&Error{
		Op:         op,
		Kind:       KindContract,
		Msg:        fmt.Sprintf(format, args...),
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
}

// Consistency reports an internal-consistency failure and panics.
//
// A consistency fault means either a caller mutated state without going
// through the sanctioned API, or the core itself has a logic bug. It is
// never surfaced to end users as a recoverable condition.
func Consistency(op, format string, args ...any) {
	fail(&Error{
		Op:         op,
		Kind:       KindConsistency,
		Msg:        fmt.Sprintf(format, args...),
		StackTrace: CaptureStack(),
		Timestamp:  time.Now(),
	})
}

func fail(err *Error) {
	Report(err)
	panic(err)
}
