package animation

import (
	"fmt"
	"time"
)

// Phase is the derived playback state of a record at a point in time.
//
// The reachable transitions under a monotonically advancing clock are:
//
//	Scheduled ──► Playing ──► Paused
//	    │            │           │
//	    └────────────┴───────────┴──► Stopped
//
// plus the self-loops. Stopped is terminal; anything that appears to leave
// it means timing fields were mutated outside the Play/Pause/Stop API.
type Phase int

const (
	// PhaseScheduled means the record's start time is still in the future.
	PhaseScheduled Phase = iota
	// PhasePlaying means the record is between start and stop with time
	// advancing through it.
	PhasePlaying
	// PhasePaused means a pause timestamp froze the record mid-flight.
	PhasePaused
	// PhaseStopped means the record ran out of repeats, was explicitly
	// stopped, or was stopped at-or-before its own start.
	PhaseStopped
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseScheduled:
		return "scheduled"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// PhaseAt derives the phase of rec at the given time. It is a pure function:
// identical inputs always produce identical outputs, and nothing is cached.
func PhaseAt(rec Record, now time.Duration) Phase {
	// An explicit stop at or before the record's own start is immediately
	// terminal, whatever the clock says.
	if rec.Stopped <= rec.Started {
		return PhaseStopped
	}
	if rec.Started > now {
		return PhaseScheduled
	}
	if rec.Stopped <= now {
		return PhaseStopped
	}

	// started <= now < stopped. A pause freezes the clock for the repeat-
	// exhaustion test as well: a paused record cannot run out of repeats.
	effective := rec.Paused
	if now < effective {
		effective = now
	}
	if rec.RepeatCount != 0 &&
		satAdd(rec.Started, satMul(rec.Duration, rec.RepeatCount)) <= effective {
		return PhaseStopped
	}
	if rec.Paused > now {
		return PhasePlaying
	}
	return PhasePaused
}

// FactorAt derives the interpolation factor in [0, 1] of rec at the given
// time and phase. The phase must be the one PhaseAt reports for the same
// inputs; passing a stale phase is a caller bug.
//
//   - Scheduled records sit at 0.
//   - Playing records are sampled at now; paused records are sampled at the
//     pause instant, frozen.
//   - Stopped records rest at exactly 0.0 or 1.0, decided analytically from
//     the flags and whichever of the implicit and explicit stop times came
//     first, so a stopped reversed animation lands on 0.0 and never a
//     rounding-adjacent value.
func FactorAt(rec Record, now time.Duration, phase Phase) float64 {
	switch phase {
	case PhaseScheduled:
		return 0
	case PhasePlaying:
		return playingFactor(rec, now)
	case PhasePaused:
		return playingFactor(rec, rec.Paused)
	default:
		return restingFactor(rec)
	}
}

// playingFactor samples the factor of a running record at time t. A sample
// time before the start (a pause timestamp set ahead of Started) clamps to
// the start instant so the factor stays in [0, 1].
func playingFactor(rec Record, t time.Duration) float64 {
	d := rec.Duration
	if d <= 0 {
		return 0
	}
	played := t - rec.Started
	if played < 0 {
		played = 0
	}
	repeats := played / d // completed full repeats

	// The division happens in double precision, above the nanosecond
	// fixed-point resolution of the stored times, so multi-decade durations
	// do not show visible quantization.
	raw := float64(played%d) / float64(d)
	if rec.Flags&Reverse != 0 {
		raw = 1 - raw
	}
	if rec.Flags&ReverseEveryOther != 0 && repeats&1 == 1 {
		raw = 1 - raw
	}
	return raw
}

// restingFactor computes the exact resting value of a stopped record.
func restingFactor(rec Record) float64 {
	if rec.Stopped <= rec.Started {
		// Never ran: no repeat parity exists to flip, rest at 0.
		return 0
	}
	d := rec.Duration

	// A zero-duration record is one instantaneously exhausted repeat.
	var finalRepeat int64
	switch {
	case d <= 0:
		finalRepeat = 0
	case rec.RepeatCount != 0 &&
		satAdd(rec.Started, satMul(d, rec.RepeatCount)) <= rec.Stopped:
		// Implicit exhaustion came first: the last configured repeat governs.
		finalRepeat = int64(rec.RepeatCount) - 1
	default:
		// Explicit stop came first: the repeat the stop landed in governs.
		// The ceiling division deliberately counts a stop at an exact repeat
		// boundary started+k*duration against the just-finished repeat k-1.
		// The intermediate sums saturate so a stop near the Infinity sentinel
		// cannot wrap negative.
		end := satAdd(rec.Stopped, d-1)
		if rec.Started < 0 {
			end = satAdd(end, -rec.Started)
		} else {
			end -= rec.Started
		}
		repeats := int64(end / d)
		if repeats <= 0 {
			return 0
		}
		finalRepeat = repeats - 1
	}

	val := 1.0
	if rec.Flags&Reverse != 0 {
		val = 0
	}
	if rec.Flags&ReverseEveryOther != 0 && finalRepeat&1 == 1 {
		val = 1 - val
	}
	return val
}
