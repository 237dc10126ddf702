// Package arena implements the generation-checked slot table that backs every
// dynamically allocated resource kind in the toolkit (layer data, animations,
// and the containers that own them).
//
// A table is an append-only-growing array of slots addressed by stable
// integer ids. Freed slots are threaded onto a FIFO freelist by index and
// reused oldest-freed-first, which slows generation exhaustion compared to
// LIFO reuse. Every reuse increments the slot's generation, so a handle
// carrying a stale generation is reliably detected as invalid. A generation
// that wraps to 0 permanently retires its slot: generation 0 is reserved for
// the Null/expired meaning and must never alias a live slot.
//
// The table deliberately stores payloads by index rather than by pointer.
// Handle stability across unrelated insertions and removals is the entire
// point; do not replace the freelist with a linked structure.
//
// Tables are single-threaded: the owning manager is the only mutator and all
// operations run to completion before returning.
package arena

import "github.com/go-drift/anima/pkg/fault"

// none is the freelist sentinel index.
const none = ^uint32(0)

// slot is one table entry. The generation and free marker sit outside the
// payload so validity can be checked without knowing whether the slot is
// live; the payload of a free slot is whatever the scrub callback left there.
type slot[P any] struct {
	generation uint32
	free       bool
	next       uint32 // next freelist index, none when used or at the tail
	payload    P
}

// Table is a growable arena of generation-checked slots holding payloads of
// type P.
type Table[P any] struct {
	slots     []slot[P]
	firstFree uint32
	lastFree  uint32
	maxSlots  uint32
	genMask   uint32
}

// New creates an empty table whose ids fit in idBits and whose generations
// wrap at 2^genBits. The widths must match the handle kind the caller packs
// ids and generations into.
func New[P any](idBits, genBits uint) *Table[P] {
	if idBits == 0 || idBits > 20 || genBits == 0 || genBits > 12 {
		fault.Contract("arena.New", "unsupported bit widths id=%d gen=%d", idBits, genBits)
	}
	return &Table[P]{
		firstFree: none,
		lastFree:  none,
		maxSlots:  1 << idBits,
		genMask:   1<<genBits - 1,
	}
}

// Create allocates a slot, stores init in it, and returns the slot's id and
// generation. Freed slots are reused FIFO with the generation that was
// already advanced by Remove; otherwise a new slot is appended with
// generation 1, so a live generation is never 0.
//
// Exceeding the table's capacity ceiling is a contract violation: the caller
// is expected to bound how many resources it creates.
func (t *Table[P]) Create(init P) (id, gen uint32) {
	if t.firstFree != none {
		id = t.firstFree
		s := &t.slots[id]
		t.firstFree = s.next
		if t.firstFree == none {
			t.lastFree = none
		}
		s.free = false
		s.next = none
		s.payload = init
		return id, s.generation
	}

	if uint32(len(t.slots)) >= t.maxSlots {
		fault.Contract("arena.Table.Create", "capacity exhausted (%d slots)", t.maxSlots)
	}
	t.slots = append(t.slots, slot[P]{generation: 1, next: none, payload: init})
	return uint32(len(t.slots) - 1), 1
}

// Remove frees the slot the handle refers to. The handle must be valid.
//
// If scrub is non-nil it runs against the payload while the slot is still
// live, before the generation advances; the animation table uses it to plant
// the freed-duration sentinel so a mid-scan generation match cannot be
// mistaken for validity. The payload is otherwise left in place.
//
// The generation increments modulo the table's generation width. If it wraps
// to 0 the slot is retired instead of re-enqueued: no handle with generation
// 0 may ever validate, so the slot can never be reused.
func (t *Table[P]) Remove(id, gen uint32, scrub func(*P)) {
	if !t.Valid(id, gen) {
		fault.Contract("arena.Table.Remove", "invalid handle id=%d gen=%d", id, gen)
	}
	s := &t.slots[id]
	if scrub != nil {
		scrub(&s.payload)
	}
	s.generation = (s.generation + 1) & t.genMask
	s.free = true
	s.next = none
	if s.generation == 0 {
		// Wrapped: permanently dead. Reusing it could alias generation 0,
		// which is reserved for Null/expired.
		return
	}
	if t.lastFree == none {
		t.firstFree = id
	} else {
		t.slots[t.lastFree].next = id
	}
	t.lastFree = id
}

// Valid reports whether (id, gen) still refers to the live slot it was
// issued for. It never mutates the table and is safe to call any number of
// times with the same answer until the next mutation.
func (t *Table[P]) Valid(id, gen uint32) bool {
	if gen == 0 {
		return false
	}
	if id >= uint32(len(t.slots)) {
		return false
	}
	s := &t.slots[id]
	if s.generation == 0 && !s.free {
		fault.Consistency("arena.Table.Valid", "slot %d has generation 0 but is not free", id)
	}
	return !s.free && s.generation == gen
}

// Len returns the table's capacity: the number of slots ever created,
// including freed and retired ones.
func (t *Table[P]) Len() int {
	return len(t.slots)
}

// Used returns the number of slots not on the freelist. The freelist is
// walked; it is assumed short relative to capacity, and this is a
// diagnostic-grade call.
func (t *Table[P]) Used() int {
	freeLen := 0
	for i := t.firstFree; i != none; i = t.slots[i].next {
		freeLen++
	}
	return len(t.slots) - freeLen
}

// Generation returns the stored generation of the given slot id.
func (t *Table[P]) Generation(id uint32) uint32 {
	if id >= uint32(len(t.slots)) {
		fault.Contract("arena.Table.Generation", "id %d out of range (%d slots)", id, len(t.slots))
	}
	return t.slots[id].generation
}

// Generations returns a snapshot of every slot's generation, indexed by id.
// External code uses these tables to detect cross-domain staleness (see the
// Clean sweeps in the layer and animation packages).
func (t *Table[P]) Generations() []uint32 {
	gens := make([]uint32, len(t.slots))
	for i := range t.slots {
		gens[i] = t.slots[i].generation
	}
	return gens
}

// Get returns the payload of the given slot id without any validity check.
// It is the owning manager's accessor: callers must have validated the
// handle first, or be scanning slots they know exist.
func (t *Table[P]) Get(id uint32) *P {
	if id >= uint32(len(t.slots)) {
		fault.Contract("arena.Table.Get", "id %d out of range (%d slots)", id, len(t.slots))
	}
	return &t.slots[id].payload
}

// Free reports whether the slot is currently free (on the freelist or
// retired). Scans use it to skip dead slots without a handle.
func (t *Table[P]) Free(id uint32) bool {
	if id >= uint32(len(t.slots)) {
		fault.Contract("arena.Table.Free", "id %d out of range (%d slots)", id, len(t.slots))
	}
	return t.slots[id].free
}
