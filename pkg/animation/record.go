package animation

import (
	"math"
	"time"

	"github.com/go-drift/anima/pkg/handle"
)

// Infinity is the "never" timestamp. A freshly created record has
// Paused = Stopped = Infinity: it has not been paused and will not stop on
// its own until its repeats run out.
const Infinity = time.Duration(math.MaxInt64)

// durationFreed marks a record whose slot has been freed. It is planted the
// instant the slot is removed so that a stale generation match observed
// mid-scan can never be mistaken for a live record. No live record carries a
// negative duration, let alone the most negative one.
const durationFreed = time.Duration(math.MinInt64)

// negInfinity is the "before everything" timestamp used as the previous
// observation time of an animator that has never been advanced.
const negInfinity = time.Duration(math.MinInt64)

// Flags are per-record playback options.
type Flags uint8

const (
	// KeepOncePlayed keeps the record alive after it stops. Without it the
	// batched advance flags a stopped record for removal.
	KeepOncePlayed Flags = 1 << iota
	// Reverse plays each repeat backward, from factor 1 to 0.
	Reverse
	// ReverseEveryOther flips the direction of every odd-numbered repeat,
	// producing a ping-pong motion. Its effect stacks with Reverse; the two
	// are independent bit tests, not mutually exclusive modes.
	ReverseEveryOther
)

// Record holds the timing state of one animation.
//
// The current phase and interpolation factor are never stored; they are
// derived from the four timestamps, the repeat count, and the flags by
// [PhaseAt] and [FactorAt]. Play, pause, and stop are therefore nothing but
// timestamp edits, and a time jump far into the future computes the same
// state a tick-by-tick advance would.
//
// Timestamps are durations since the caller's timeline epoch. Duration is
// fixed for the record's life and is always >= 0 while the record is live.
// RepeatCount 0 means repeat forever.
type Record struct {
	Duration    time.Duration
	Started     time.Duration
	Paused      time.Duration
	Stopped     time.Duration
	RepeatCount uint32
	Flags       Flags

	// node is the external node this animation is attached to, if any.
	// The core never interprets it beyond generation comparison in Clean.
	node handle.Node
}

// freed reports whether the record carries the freed-slot sentinel.
func (r *Record) freed() bool { return r.Duration == durationFreed }

// satMul returns d*n, saturating at Infinity instead of wrapping. Multi-
// decade durations with large repeat counts degrade to "never exhausts".
func satMul(d time.Duration, n uint32) time.Duration {
	if d == 0 || n == 0 {
		return 0
	}
	if d > Infinity/time.Duration(n) {
		return Infinity
	}
	return d * time.Duration(n)
}

// satAdd returns a+b for non-negative b, saturating at Infinity.
func satAdd(a, b time.Duration) time.Duration {
	if a > 0 && b > Infinity-a {
		return Infinity
	}
	return a + b
}
