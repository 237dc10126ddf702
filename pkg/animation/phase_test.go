package animation

import (
	"math"
	"testing"
	"time"
)

// approx compares factors that went through a 1-x flip, which perturbs the
// low bits of non-dyadic fractions. Boundary tests still compare exactly.
func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

// rec builds a freshly created record: paused and stopped at Infinity.
func rec(start, duration time.Duration, repeat uint32, flags Flags) Record {
	return Record{
		Duration:    duration,
		Started:     start,
		Paused:      Infinity,
		Stopped:     Infinity,
		RepeatCount: repeat,
		Flags:       flags,
	}
}

func TestPhaseLifecycle(t *testing.T) {
	r := rec(0, 100, 1, 0)
	tests := []struct {
		now  time.Duration
		want Phase
	}{
		{-1, PhaseScheduled},
		{0, PhasePlaying},
		{50, PhasePlaying},
		{99, PhasePlaying},
		{100, PhaseStopped}, // repeats exhausted exactly at started+duration
		{1000, PhaseStopped},
	}
	for _, tt := range tests {
		if got := PhaseAt(r, tt.now); got != tt.want {
			t.Errorf("PhaseAt(now=%d) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestPhaseDeterminism(t *testing.T) {
	r := rec(10, 50, 3, Reverse)
	r.Paused = 40
	for _, now := range []time.Duration{0, 10, 39, 40, 41, 200} {
		p1, p2 := PhaseAt(r, now), PhaseAt(r, now)
		if p1 != p2 {
			t.Fatalf("PhaseAt not deterministic at now=%d: %v then %v", now, p1, p2)
		}
		f1, f2 := FactorAt(r, now, p1), FactorAt(r, now, p2)
		if f1 != f2 {
			t.Fatalf("FactorAt not deterministic at now=%d: %v then %v", now, f1, f2)
		}
	}
}

func TestStopAtOrBeforeStartIsTerminal(t *testing.T) {
	r := rec(100, 50, 1, 0)
	r.Stopped = 100
	for _, now := range []time.Duration{0, 100, 500} {
		if got := PhaseAt(r, now); got != PhaseStopped {
			t.Errorf("PhaseAt(now=%d) = %v, want stopped", now, got)
		}
	}
	if got := FactorAt(r, 500, PhaseStopped); got != 0 {
		t.Errorf("never-played record should rest at 0, got %v", got)
	}
}

func TestExplicitStopTimePassed(t *testing.T) {
	r := rec(0, 100, 0, 0)
	r.Stopped = 60
	if got := PhaseAt(r, 59); got != PhasePlaying {
		t.Errorf("phase just before stop = %v, want playing", got)
	}
	if got := PhaseAt(r, 60); got != PhaseStopped {
		t.Errorf("phase at stop = %v, want stopped", got)
	}
}

func TestZeroDurationSingleShot(t *testing.T) {
	r := rec(5, 0, 1, 0)
	if got := PhaseAt(r, 4); got != PhaseScheduled {
		t.Errorf("phase before start = %v, want scheduled", got)
	}
	if got := PhaseAt(r, 5); got != PhaseStopped {
		t.Errorf("zero-duration phase at start = %v, want stopped", got)
	}
	if got := FactorAt(r, 5, PhaseStopped); got != 1 {
		t.Errorf("zero-duration resting factor = %v, want 1", got)
	}

	r.Flags = Reverse
	if got := FactorAt(r, 5, PhaseStopped); got != 0 {
		t.Errorf("reversed zero-duration resting factor = %v, want 0", got)
	}
}

func TestInfiniteRepeatNeverExhausts(t *testing.T) {
	r := rec(0, 10, 0, 0)
	if got := PhaseAt(r, 1<<40); got != PhasePlaying {
		t.Errorf("infinite repeat phase = %v, want playing", got)
	}
}

func TestFactorBoundaries(t *testing.T) {
	r := rec(0, 100, 1, 0)
	if got := FactorAt(r, 0, PhaseAt(r, 0)); got != 0 {
		t.Errorf("factor at start = %v, want exactly 0", got)
	}
	if got := FactorAt(r, 100, PhaseAt(r, 100)); got != 1 {
		t.Errorf("factor at start+duration = %v, want exactly 1", got)
	}
	if got := FactorAt(r, -5, PhaseAt(r, -5)); got != 0 {
		t.Errorf("scheduled factor = %v, want 0", got)
	}
}

func TestPlayingFactorMidway(t *testing.T) {
	r := rec(0, 100, 1, 0)
	if got := FactorAt(r, 50, PhasePlaying); got != 0.5 {
		t.Errorf("factor at midpoint = %v, want 0.5", got)
	}
}

func TestPausedFactorFrozen(t *testing.T) {
	r := rec(0, 10, 0, 0)
	r.Paused = 25
	p := PhaseAt(r, 100)
	if p != PhasePaused {
		t.Fatalf("phase = %v, want paused", p)
	}
	frozen := FactorAt(r, 100, p)
	atPause := playingFactor(r, 25)
	if frozen != atPause {
		t.Errorf("paused factor = %v, want factor at pause instant %v", frozen, atPause)
	}
	if frozen != 0.5 {
		t.Errorf("paused factor = %v, want 0.5", frozen)
	}
}

func TestPauseBeforeStartClampsFactor(t *testing.T) {
	// A pause timestamp ahead of the start freezes the sample time before
	// the animation ever ran; the factor clamps to the start instant
	// instead of going negative.
	r := rec(100, 100, 0, 0)
	r.Paused = 50
	p := PhaseAt(r, 150)
	if p != PhasePaused {
		t.Fatalf("phase = %v, want paused", p)
	}
	if got := FactorAt(r, 150, p); got != 0 {
		t.Errorf("factor = %v, want 0", got)
	}

	// Reversed playback rests the clamped sample at the repeat's far end.
	r.Flags = Reverse
	if got := FactorAt(r, 150, p); got != 1 {
		t.Errorf("reversed factor = %v, want 1", got)
	}
}

func TestPauseFreezesRepeatExhaustion(t *testing.T) {
	// Paused at 5 of a 10ns x2 animation: even far in the future the
	// repeats have not run out, because the effective clock is frozen.
	r := rec(0, 10, 2, 0)
	r.Paused = 5
	if got := PhaseAt(r, 1000); got != PhasePaused {
		t.Errorf("phase = %v, want paused (exhaustion clock frozen)", got)
	}
}

func TestReverseFlag(t *testing.T) {
	r := rec(0, 100, 0, Reverse)
	if got := FactorAt(r, 25, PhasePlaying); got != 0.75 {
		t.Errorf("reversed factor at 1/4 = %v, want 0.75", got)
	}
}

func TestReverseEveryOtherParity(t *testing.T) {
	r := rec(0, 10, 0, ReverseEveryOther)
	tests := []struct {
		now  time.Duration
		want float64
	}{
		{2, 0.2},  // repeat 0, forward
		{12, 0.8}, // repeat 1, reversed
		{22, 0.2}, // repeat 2, forward again
	}
	for _, tt := range tests {
		if got := FactorAt(r, tt.now, PhasePlaying); !approx(got, tt.want) {
			t.Errorf("ping-pong factor at %d = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestBothReverseFlagsStack(t *testing.T) {
	// Reverse and ReverseEveryOther are independent bit flips: on an odd
	// repeat they cancel out.
	r := rec(0, 10, 0, Reverse|ReverseEveryOther)
	if got := FactorAt(r, 2, PhasePlaying); !approx(got, 0.8) {
		t.Errorf("repeat 0 factor = %v, want 0.8", got)
	}
	if got := FactorAt(r, 12, PhasePlaying); !approx(got, 0.2) {
		t.Errorf("repeat 1 factor = %v, want 0.2", got)
	}
}

func TestRestingParityImplicitExhaustion(t *testing.T) {
	// Three repeats of a ping-pong: the last repeat (index 2) is forward,
	// so the animation rests at 1.
	r := rec(0, 10, 3, ReverseEveryOther)
	if got := FactorAt(r, 100, PhaseStopped); got != 1 {
		t.Errorf("resting factor after 3 ping-pong repeats = %v, want 1", got)
	}
	// Two repeats: last repeat (index 1) is reversed, resting at 0.
	r.RepeatCount = 2
	if got := FactorAt(r, 100, PhaseStopped); got != 0 {
		t.Errorf("resting factor after 2 ping-pong repeats = %v, want 0", got)
	}
}

func TestRestingParityExplicitStopCeiling(t *testing.T) {
	// The governing repeat of an explicit stop comes from the ceiling
	// division (stopped + duration - 1 - started) / duration; a stop landing
	// exactly on a repeat boundary counts against the just-finished repeat.
	tests := []struct {
		stopped time.Duration
		want    float64
	}{
		{5, 1},  // mid repeat 0 (forward) -> heads to 1
		{10, 1}, // boundary: repeat 0 governs -> 1
		{15, 0}, // mid repeat 1 (reversed) -> heads to 0
		{20, 0}, // boundary: repeat 1 governs -> 0
		{25, 1}, // mid repeat 2 -> 1
		{30, 1}, // boundary: repeat 2 governs -> 1
	}
	for _, tt := range tests {
		r := rec(0, 10, 0, ReverseEveryOther)
		r.Stopped = tt.stopped
		if got := FactorAt(r, 1000, PhaseStopped); got != tt.want {
			t.Errorf("resting factor with stop at %d = %v, want %v", tt.stopped, got, tt.want)
		}
	}
}

func TestRestingEarlierStopGoverns(t *testing.T) {
	// Explicit stop at 20 precedes implicit exhaustion at 30: repeat 1
	// governs, resting at 0. With the stop pushed past exhaustion, the last
	// configured repeat (index 2) governs instead.
	r := rec(0, 10, 3, ReverseEveryOther)
	r.Stopped = 20
	if got := FactorAt(r, 1000, PhaseStopped); got != 0 {
		t.Errorf("explicit-stop resting factor = %v, want 0", got)
	}
	r.Stopped = 35
	if got := FactorAt(r, 1000, PhaseStopped); got != 1 {
		t.Errorf("exhaustion resting factor = %v, want 1", got)
	}
}

func TestRestingStopNearInfinityDoesNotWrap(t *testing.T) {
	// An explicit stop just below the Infinity sentinel on an infinite-
	// repeat record: the ceiling sum saturates instead of wrapping
	// negative, so the record rests at 1, not at a bogus 0.
	r := rec(0, 10, 0, 0)
	r.Stopped = Infinity - 2
	if got := FactorAt(r, Infinity-1, PhaseStopped); got != 1 {
		t.Errorf("resting factor = %v, want 1", got)
	}
}

func TestRestingReversedLandsOnExactZero(t *testing.T) {
	r := rec(0, 3, 0, Reverse) // 3ns duration: 1/3 is not exact in binary
	r.Stopped = 7
	if got := FactorAt(r, 1000, PhaseStopped); got != 0 {
		t.Errorf("stopped reversed animation rests at %v, want exactly 0", got)
	}
}

func TestFactorPrecisionLongDuration(t *testing.T) {
	// Multi-decade duration: the factor division happens in float64, above
	// the fixed-point resolution of the stored times.
	d := 20 * 365 * 24 * time.Hour
	r := rec(0, d, 1, 0)
	got := FactorAt(r, d/2, PhasePlaying)
	if got != 0.5 {
		t.Errorf("factor at half of a 20-year duration = %v, want 0.5", got)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseScheduled, "scheduled"},
		{PhasePlaying, "playing"},
		{PhasePaused, "paused"},
		{PhaseStopped, "stopped"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase.String() = %q, want %q", got, tt.want)
		}
	}
}
