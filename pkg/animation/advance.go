package animation

import (
	"time"

	"github.com/go-drift/anima/pkg/bitset"
	"github.com/go-drift/anima/pkg/fault"
)

// Buffers holds the output views of a batched advance, indexed by slot id.
//
// Update owns the sizing: on every call it resizes and clears all views to
// the animator's current capacity. Callers never pre-size the views, so a
// reused set cannot go stale when the capacity grows between ticks.
type Buffers struct {
	// Active marks slots whose animation did anything this tick: kept
	// playing, changed phase, or stopped.
	Active *bitset.Bits
	// Started marks slots that left Scheduled this tick.
	Started *bitset.Bits
	// Stopped marks slots that entered Stopped this tick.
	Stopped *bitset.Bits
	// Remove marks stopped slots without KeepOncePlayed; the caller is
	// expected to Remove them.
	Remove *bitset.Bits
	// Factors holds the interpolation factor of every slot touched by
	// Active; other entries are stale.
	Factors []float64
}

// NewBuffers returns an empty set of advance buffers.
func NewBuffers() *Buffers {
	return &Buffers{
		Active:  bitset.Make(0),
		Started: bitset.Make(0),
		Stopped: bitset.Make(0),
		Remove:  bitset.Make(0),
	}
}

// size resizes and clears every view to n slots.
func (b *Buffers) size(n int) {
	b.Active.Resize(n)
	b.Started.Resize(n)
	b.Stopped.Resize(n)
	b.Remove.Resize(n)
	if cap(b.Factors) >= n {
		b.Factors = b.Factors[:n]
	} else {
		b.Factors = make([]float64, n)
	}
}

// Update advances the animator to time t and reports every phase transition
// since the previous Update in the buffers.
//
// t must be monotonically non-decreasing across calls; going backward is a
// contract violation, not a recoverable condition. Update is unconditional:
// calling it every tick with nothing animating is valid and produces
// all-zero outputs.
//
// For each live slot the phase at the previously recorded time is compared
// with the phase at t. Of the sixteen ordered phase pairs only seven do
// reportable work, three are silent self-loops, and the remaining six are
// unreachable under a monotonic clock; observing one means timing fields
// were mutated behind the API's back and fails fast as an internal error.
//
// The return values say whether any slot did reportable work this tick
// (advanced) and whether any slot was flagged for removal (clean). After
// Update returns, NeedsAdvance reports whether any slot ended the tick in a
// non-Stopped phase.
func (a *Animator) Update(t time.Duration, out *Buffers) (advanced, clean bool) {
	if t < a.lastTime {
		fault.Contract("animation.Animator.Update",
			"time went backward: %v after %v", t, a.lastTime)
	}
	if out == nil {
		fault.Contract("animation.Animator.Update", "nil buffers")
	}
	n := a.table.Len()
	out.size(n)

	needs := false
	for id := uint32(0); id < uint32(n); id++ {
		if a.table.Free(id) {
			continue
		}
		rec := a.table.Get(id)
		if rec.freed() {
			continue
		}

		before := PhaseAt(*rec, a.lastTime)
		after := PhaseAt(*rec, t)
		checkTransition(before, after)

		if before != after || after == PhasePlaying {
			out.Active.Set(int(id))
			if before == PhaseScheduled {
				out.Started.Set(int(id))
			}
			if after == PhaseStopped {
				out.Stopped.Set(int(id))
			}
			out.Factors[id] = FactorAt(*rec, t, after)
			advanced = true
		}

		// Removal eligibility and future work are independent of whether a
		// transition happened this tick.
		if after == PhaseStopped {
			if rec.Flags&KeepOncePlayed == 0 {
				out.Remove.Set(int(id))
				clean = true
			}
		} else {
			needs = true
		}
	}

	a.lastTime = t
	a.needsAdvance = needs
	return advanced, clean
}

// checkTransition fails fast on phase pairs a monotonic clock cannot
// produce.
func checkTransition(before, after Phase) {
	legal := false
	switch before {
	case PhaseScheduled:
		legal = true
	case PhasePlaying:
		legal = after != PhaseScheduled
	case PhasePaused:
		legal = after == PhasePaused || after == PhaseStopped
	case PhaseStopped:
		legal = after == PhaseStopped
	}
	if !legal {
		fault.Consistency("animation.Animator.Update",
			"unreachable phase transition %v -> %v", before, after)
	}
}
