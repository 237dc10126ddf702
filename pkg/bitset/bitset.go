// Package bitset provides the word-packed bit masks used by the batched
// animation advance: one bit per slot id for the active, started, stopped,
// and remove outputs.
package bitset

import "math/bits"

// Bits is a fixed-length bit set indexed from 0.
type Bits struct {
	words []uint64
	n     int
}

// Make returns a bit set holding n bits, all clear.
func Make(n int) *Bits {
	return &Bits{words: make([]uint64, (n+63)/64), n: n}
}

// Len returns the number of bits the set holds.
func (b *Bits) Len() int { return b.n }

// Resize grows or shrinks the set to n bits, clearing everything.
func (b *Bits) Resize(n int) {
	words := (n + 63) / 64
	if cap(b.words) >= words {
		b.words = b.words[:words]
	} else {
		b.words = make([]uint64, words)
	}
	b.n = n
	b.ClearAll()
}

// Set sets bit i.
func (b *Bits) Set(i int) {
	b.words[i>>6] |= 1 << uint(i&63)
}

// Clear clears bit i.
func (b *Bits) Clear(i int) {
	b.words[i>>6] &^= 1 << uint(i&63)
}

// Has reports whether bit i is set.
func (b *Bits) Has(i int) bool {
	return b.words[i>>6]&(1<<uint(i&63)) != 0
}

// ClearAll clears every bit.
func (b *Bits) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// Count returns the number of set bits.
func (b *Bits) Count() int {
	total := 0
	for _, w := range b.words {
		total += bits.OnesCount64(w)
	}
	return total
}

// Any reports whether any bit is set.
func (b *Bits) Any() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}
