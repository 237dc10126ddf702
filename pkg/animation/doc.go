// Package animation implements the declarative timing core: generation-
// checked animation handles and a phase/factor state machine derived purely
// from recorded timestamps.
//
// # Model
//
// An [Animator] owns a slot table of [Record] values and hands out
// [handle.Animation] handles to them. A record stores four timestamps
// (duration, started, paused, stopped), a repeat count, and playback flags;
// its current [Phase] (Scheduled, Playing, Paused, Stopped) and its
// interpolation factor in [0, 1] are computed on demand by [PhaseAt] and
// [FactorAt]. Because nothing is stored, the state is identical whether time
// advances one tick at a time or jumps far into the future.
//
// # Ticking
//
// Once per tick the owner calls [Animator.Update] with a monotonically
// non-decreasing time. Update walks every live slot, compares the phase at
// the previous time with the phase at the new time, and fills the bit masks
// and factor array in [Buffers] (active, started, stopped, remove) so the
// caller can react to an O(n) scan's worth of transitions without per-item
// dispatch. A [Registry] groups animators under container handles and
// drives optional collaborator [Driver] hooks.
//
// # Errors
//
// There are no recoverable errors. Stale handles are detected by
// [Animator.Valid]; passing one to a mutator anyway, or violating a
// documented precondition, fails fast through the fault package.
//
// The package is single-threaded: an animator has exactly one owner and no
// operation blocks or suspends.
package animation
