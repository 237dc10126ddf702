package animation

import (
	"time"

	"github.com/go-drift/anima/pkg/arena"
	"github.com/go-drift/anima/pkg/fault"
	"github.com/go-drift/anima/pkg/handle"
)

// Animator owns a slot table of animation records and hands out
// generation-checked handles to them.
//
// An animator is single-threaded: it is exclusively mutated by its owner,
// and every operation runs to completion before returning. Handles are
// freely copyable values; a caller holding one across a Remove/Create cycle
// on the same slot observes it as invalid, never as someone else's record.
//
// All mutators require a valid handle and fail fast otherwise; check
// [Animator.Valid] first when a handle may be stale. That check-then-call
// pattern is the only sanctioned way to handle potentially stale handles;
// there are no recoverable errors in this API.
type Animator struct {
	table        *arena.Table[Record]
	lastTime     time.Duration
	needsAdvance bool
}

// NewAnimator returns an empty animator.
func NewAnimator() *Animator {
	return &Animator{
		table:    arena.New[Record](handle.ItemIDBits, handle.ItemGenBits),
		lastTime: negInfinity,
	}
}

// Create allocates an animation that starts at the given time, runs for
// duration per repeat, and repeats repeatCount times (0 means forever).
//
// duration must be >= 0, and a zero-duration animation must have
// repeatCount 1: a zero-length animation cannot meaningfully repeat.
// Violations fail fast.
func (a *Animator) Create(start, duration time.Duration, repeatCount uint32, flags Flags) handle.Animation {
	if duration < 0 {
		fault.Contract("animation.Animator.Create", "negative duration %v", duration)
	}
	if duration == 0 && repeatCount != 1 {
		fault.Contract("animation.Animator.Create",
			"zero duration requires repeat count 1, got %d", repeatCount)
	}
	id, gen := a.table.Create(Record{
		Duration:    duration,
		Started:     start,
		Paused:      Infinity,
		Stopped:     Infinity,
		RepeatCount: repeatCount,
		Flags:       flags,
	})
	return handle.MakeAnimation(id, gen)
}

// Remove frees the animation's slot. The handle must be valid. The record
// is stamped with the freed sentinel before its generation advances, and
// the slot joins the tail of the freelist (or is retired if the generation
// wrapped to 0).
func (a *Animator) Remove(h handle.Animation) {
	if !a.Valid(h) {
		fault.Contract("animation.Animator.Remove", "invalid handle %#x", uint32(h))
	}
	a.table.Remove(handle.AnimationID(h), handle.AnimationGeneration(h), func(rec *Record) {
		*rec = Record{Duration: durationFreed}
	})
}

// Valid reports whether h still refers to the live record it was issued
// for. It is safe to call with any handle, including Null and long-stale
// ones, and never mutates the animator.
func (a *Animator) Valid(h handle.Animation) bool {
	if h.IsNull() {
		return false
	}
	id := handle.AnimationID(h)
	if !a.table.Valid(id, handle.AnimationGeneration(h)) {
		return false
	}
	if a.table.Get(id).freed() {
		// The freed sentinel and the generation check must agree; a live
		// generation over a scrubbed record means the table was corrupted.
		fault.Consistency("animation.Animator.Valid",
			"slot %d generation matches but record is scrubbed", id)
	}
	return true
}

// record returns the live record for h, failing fast on a stale handle.
func (a *Animator) record(op string, h handle.Animation) *Record {
	if !a.Valid(h) {
		fault.Contract(op, "invalid handle %#x", uint32(h))
	}
	return a.table.Get(handle.AnimationID(h))
}

// Play starts or resumes the animation at the given time.
//
// If a pause is actually in progress at that moment, the start time shifts
// forward by exactly the time spent paused, so playback resumes where it
// left off. In every other situation (never paused, pause already voided by
// a stop, pause in the future, or play time past the stop) the animation
// restarts from scratch at t. Either way the pause and stop marks reset to
// Infinity.
func (a *Animator) Play(h handle.Animation, t time.Duration) {
	rec := a.record("animation.Animator.Play", h)
	noPause := rec.Paused >= rec.Stopped ||
		rec.Started >= rec.Paused ||
		rec.Paused >= t ||
		t >= rec.Stopped
	if noPause {
		rec.Started = t
	} else {
		rec.Started += t - rec.Paused
	}
	rec.Paused = Infinity
	rec.Stopped = Infinity
}

// Pause marks the animation paused as of the given time. Only the pause
// timestamp changes; the phase is derived, never stored.
func (a *Animator) Pause(h handle.Animation, t time.Duration) {
	rec := a.record("animation.Animator.Pause", h)
	rec.Paused = t
}

// Stop marks the animation stopped as of the given time. Only the stop
// timestamp changes.
func (a *Animator) Stop(h handle.Animation, t time.Duration) {
	rec := a.record("animation.Animator.Stop", h)
	rec.Stopped = t
}

// SetRepeatCount changes the repeat count (0 means forever). It is a pure
// data change: it never moves the animation between phases by itself. The
// zero-duration constraint is re-checked.
func (a *Animator) SetRepeatCount(h handle.Animation, repeatCount uint32) {
	rec := a.record("animation.Animator.SetRepeatCount", h)
	if rec.Duration == 0 && repeatCount != 1 {
		fault.Contract("animation.Animator.SetRepeatCount",
			"zero duration requires repeat count 1, got %d", repeatCount)
	}
	rec.RepeatCount = repeatCount
}

// SetFlags replaces the playback flags. A pure data change, not a
// scheduling event.
func (a *Animator) SetFlags(h handle.Animation, flags Flags) {
	rec := a.record("animation.Animator.SetFlags", h)
	rec.Flags = flags
}

// Flags returns the animation's playback flags.
func (a *Animator) Flags(h handle.Animation) Flags {
	return a.record("animation.Animator.Flags", h).Flags
}

// Duration returns the animation's per-repeat duration, fixed at creation.
func (a *Animator) Duration(h handle.Animation) time.Duration {
	return a.record("animation.Animator.Duration", h).Duration
}

// Record returns a copy of the animation's timing record.
func (a *Animator) Record(h handle.Animation) Record {
	return *a.record("animation.Animator.Record", h)
}

// Phase derives the animation's phase at the given time.
func (a *Animator) Phase(h handle.Animation, now time.Duration) Phase {
	return PhaseAt(*a.record("animation.Animator.Phase", h), now)
}

// Factor derives the animation's interpolation factor at the given time.
func (a *Animator) Factor(h handle.Animation, now time.Duration) float64 {
	rec := *a.record("animation.Animator.Factor", h)
	return FactorAt(rec, now, PhaseAt(rec, now))
}

// Attach records the external node this animation belongs to. The core
// never interprets the node beyond the generation comparison in Clean;
// pass handle.NullNode to detach.
func (a *Animator) Attach(h handle.Animation, node handle.Node) {
	rec := a.record("animation.Animator.Attach", h)
	rec.node = node
}

// Attachment returns the node this animation is attached to, or
// handle.NullNode.
func (a *Animator) Attachment(h handle.Animation) handle.Node {
	return a.record("animation.Animator.Attachment", h).node
}

// Clean removes every animation whose attached node no longer exists.
//
// nodeGenerations is the node domain's generation table indexed by node id
// (see arena.Table.Generations); an attachment is stale when its node id is
// out of range or its generation no longer matches. Unattached animations
// are untouched. Returns the number of animations removed.
func (a *Animator) Clean(nodeGenerations []uint32) int {
	removed := 0
	for id := uint32(0); id < uint32(a.table.Len()); id++ {
		if a.table.Free(id) {
			continue
		}
		rec := a.table.Get(id)
		if rec.freed() || rec.node.IsNull() {
			continue
		}
		nodeID := handle.NodeID(rec.node)
		if nodeID < uint32(len(nodeGenerations)) &&
			nodeGenerations[nodeID] == handle.NodeGeneration(rec.node) {
			continue
		}
		a.table.Remove(id, a.table.Generation(id), func(r *Record) {
			*r = Record{Duration: durationFreed}
		})
		removed++
	}
	return removed
}

// Capacity returns the animator's slot count, including freed slots.
// Output views passed to Update must be sized to exactly this.
func (a *Animator) Capacity() int { return a.table.Len() }

// UsedCount returns the number of live animations.
func (a *Animator) UsedCount() int { return a.table.Used() }

// Generations returns a snapshot of every slot's generation indexed by id,
// for diagnostic and cross-domain recycling use by external code.
func (a *Animator) Generations() []uint32 { return a.table.Generations() }

// Time returns the time recorded by the last Update call.
func (a *Animator) Time() time.Duration { return a.lastTime }

// NeedsAdvance reports whether the last Update left any animation in a
// non-Stopped phase, meaning a future Update still has work to observe.
// Update itself is callable every tick regardless.
func (a *Animator) NeedsAdvance() bool { return a.needsAdvance }
