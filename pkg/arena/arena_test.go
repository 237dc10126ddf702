package arena

import "testing"

func TestCreateStartsAtGenerationOne(t *testing.T) {
	tbl := New[int](20, 12)
	id, gen := tbl.Create(7)
	if id != 0 {
		t.Errorf("first id = %d, want 0", id)
	}
	if gen != 1 {
		t.Errorf("first generation = %d, want 1 (0 is reserved for null)", gen)
	}
	if *tbl.Get(id) != 7 {
		t.Errorf("payload = %d, want 7", *tbl.Get(id))
	}
}

func TestIDsAreAppendOnlyStable(t *testing.T) {
	tbl := New[string](20, 12)
	for i := 0; i < 5; i++ {
		id, _ := tbl.Create("x")
		if id != uint32(i) {
			t.Errorf("create %d returned id %d", i, id)
		}
	}
	if tbl.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tbl.Len())
	}
}

func TestGenerationMonotonicity(t *testing.T) {
	tbl := New[int](20, 12)
	id, gen := tbl.Create(1)
	tbl.Remove(id, gen, nil)
	id2, gen2 := tbl.Create(2)
	if id2 != id {
		t.Fatalf("expected slot reuse, got id %d (was %d)", id2, id)
	}
	if gen2 <= gen {
		t.Errorf("reused generation %d should exceed %d", gen2, gen)
	}
	if tbl.Valid(id, gen) {
		t.Error("old handle must be invalid against the reused slot")
	}
	if !tbl.Valid(id2, gen2) {
		t.Error("new handle must be valid")
	}
}

func TestFreelistIsFIFO(t *testing.T) {
	tbl := New[int](20, 12)
	var ids [4]uint32
	var gens [4]uint32
	for i := range ids {
		ids[i], gens[i] = tbl.Create(i)
	}
	// Free in order 2, 0, 3: reuse must come back in the same order.
	tbl.Remove(ids[2], gens[2], nil)
	tbl.Remove(ids[0], gens[0], nil)
	tbl.Remove(ids[3], gens[3], nil)

	for _, want := range []uint32{2, 0, 3} {
		id, _ := tbl.Create(0)
		if id != want {
			t.Errorf("reused id %d, want %d (FIFO order)", id, want)
		}
	}
}

func TestValidIsIdempotent(t *testing.T) {
	tbl := New[int](20, 12)
	id, gen := tbl.Create(1)
	for i := 0; i < 3; i++ {
		if !tbl.Valid(id, gen) {
			t.Fatal("Valid flapped on a live handle")
		}
	}
	tbl.Remove(id, gen, nil)
	for i := 0; i < 3; i++ {
		if tbl.Valid(id, gen) {
			t.Fatal("Valid flapped on a stale handle")
		}
	}
}

func TestValidRejectsNullAndOutOfRange(t *testing.T) {
	tbl := New[int](20, 12)
	if tbl.Valid(0, 0) {
		t.Error("generation 0 must never validate")
	}
	if tbl.Valid(99, 1) {
		t.Error("out-of-range id must not validate")
	}
}

func TestWraparoundRetiresSlot(t *testing.T) {
	// genBits=2 wraps the generation after 4 states; the slot dies when the
	// increment lands on 0.
	tbl := New[int](8, 2)
	id0, gen := tbl.Create(0)

	seen := []uint32{gen}
	for {
		tbl.Remove(id0, gen, nil)
		id, g := tbl.Create(0)
		if id != id0 {
			// Slot was retired; the create appended a fresh slot.
			if g != 1 {
				t.Errorf("fresh slot generation = %d, want 1", g)
			}
			break
		}
		gen = g
		seen = append(seen, gen)
		if len(seen) > 8 {
			t.Fatal("slot never retired after generation wraparound")
		}
	}

	// Every generation ever issued for the dead slot must now be invalid,
	// including a forged generation 0.
	for g := uint32(0); g <= 3; g++ {
		if tbl.Valid(id0, g) {
			t.Errorf("retired slot validated with generation %d", g)
		}
	}
	if !tbl.Free(id0) {
		t.Error("retired slot should read as free")
	}
}

func TestCapacityCeiling(t *testing.T) {
	tbl := New[int](2, 8) // 4 slots
	for i := 0; i < 4; i++ {
		tbl.Create(i)
	}
	defer func() {
		if recover() == nil {
			t.Error("create past capacity should panic")
		}
	}()
	tbl.Create(4)
}

func TestCapacityReusesFreedSlots(t *testing.T) {
	tbl := New[int](2, 8)
	var gens [4]uint32
	for i := 0; i < 4; i++ {
		_, gens[i] = tbl.Create(i)
	}
	tbl.Remove(1, gens[1], nil)
	id, _ := tbl.Create(9) // must not panic: freelist is non-empty
	if id != 1 {
		t.Errorf("reused id = %d, want 1", id)
	}
}

func TestUsedWalksFreelist(t *testing.T) {
	tbl := New[int](20, 12)
	var gens [6]uint32
	for i := 0; i < 6; i++ {
		_, gens[i] = tbl.Create(i)
	}
	if got := tbl.Used(); got != 6 {
		t.Errorf("Used() = %d, want 6", got)
	}
	tbl.Remove(1, gens[1], nil)
	tbl.Remove(4, gens[4], nil)
	if got := tbl.Used(); got != 4 {
		t.Errorf("Used() = %d, want 4", got)
	}
	if got := tbl.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6 (capacity is append-only)", got)
	}
}

func TestRemoveInvalidHandlePanics(t *testing.T) {
	tbl := New[int](20, 12)
	id, gen := tbl.Create(1)
	tbl.Remove(id, gen, nil)
	defer func() {
		if recover() == nil {
			t.Error("double remove should panic")
		}
	}()
	tbl.Remove(id, gen, nil)
}

func TestScrubRunsWhilePayloadLive(t *testing.T) {
	tbl := New[int](20, 12)
	id, gen := tbl.Create(42)
	var seen int
	tbl.Remove(id, gen, func(p *int) {
		seen = *p
		*p = -1
	})
	if seen != 42 {
		t.Errorf("scrub saw %d, want 42", seen)
	}
	// The scrubbed value persists while the slot is free (the animation
	// table relies on this for its freed sentinel).
	if *tbl.Get(id) != -1 {
		t.Errorf("freed payload = %d, want -1", *tbl.Get(id))
	}
}

func TestGenerationsSnapshot(t *testing.T) {
	tbl := New[int](20, 12)
	id0, gen0 := tbl.Create(0)
	tbl.Create(1)
	tbl.Remove(id0, gen0, nil)

	gens := tbl.Generations()
	if len(gens) != 2 {
		t.Fatalf("len(Generations()) = %d, want 2", len(gens))
	}
	if gens[0] != gen0+1 {
		t.Errorf("gens[0] = %d, want %d", gens[0], gen0+1)
	}
	if gens[1] != 1 {
		t.Errorf("gens[1] = %d, want 1", gens[1])
	}

	// Snapshot, not a live view.
	gens[1] = 99
	if tbl.Generation(1) != 1 {
		t.Error("mutating the snapshot must not affect the table")
	}
}
