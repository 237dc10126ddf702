package animation

import (
	"time"

	"github.com/go-drift/anima/pkg/arena"
	"github.com/go-drift/anima/pkg/fault"
	"github.com/go-drift/anima/pkg/handle"
)

// Capability flags describe which optional hooks a Driver implements.
// The registry only invokes the hooks a driver declares.
type Capability uint8

const (
	// CapAdvance means the driver wants per-animator advance results.
	CapAdvance Capability = 1 << iota
	// CapClean means the driver performs removal of slots flagged by the
	// Remove mask.
	CapClean
)

// Driver is the collaborator hook interface for the per-tick loop. The
// surrounding toolkit (out of scope here) implements it per animator kind;
// the core itself needs no dynamic dispatch.
type Driver interface {
	// Capabilities reports which hooks the driver implements.
	Capabilities() Capability
	// Advance is called after an animator's Update reported work, with the
	// animator's handle and the filled output buffers.
	Advance(h handle.Animator, a *Animator, out *Buffers)
	// Clean is called after Advance when the Remove mask is non-empty.
	// A typical implementation removes every flagged animation.
	Clean(h handle.Animator, a *Animator, out *Buffers)
}

// Registry owns the animators themselves, handing out generation-checked
// container handles so qualified animation references can be validated
// without a back-pointer.
type Registry struct {
	table *arena.Table[*Animator]
	buf   *Buffers
}

// NewRegistry returns an empty animator registry.
func NewRegistry() *Registry {
	return &Registry{
		table: arena.New[*Animator](handle.ContainerIDBits, handle.ContainerGenBits),
		buf:   NewBuffers(),
	}
}

// Create allocates a new animator and returns its handle alongside it.
func (r *Registry) Create() (handle.Animator, *Animator) {
	a := NewAnimator()
	id, gen := r.table.Create(a)
	return handle.MakeAnimator(id, gen), a
}

// Remove frees the animator and everything in it. The handle must be valid.
func (r *Registry) Remove(h handle.Animator) {
	if !r.Valid(h) {
		fault.Contract("animation.Registry.Remove", "invalid handle %#x", uint16(h))
	}
	r.table.Remove(handle.AnimatorID(h), handle.AnimatorGeneration(h), func(a **Animator) {
		*a = nil
	})
}

// Valid reports whether h still refers to a live animator.
func (r *Registry) Valid(h handle.Animator) bool {
	if h.IsNull() {
		return false
	}
	return r.table.Valid(handle.AnimatorID(h), handle.AnimatorGeneration(h))
}

// Get returns the animator for a valid handle, failing fast otherwise.
func (r *Registry) Get(h handle.Animator) *Animator {
	if !r.Valid(h) {
		fault.Contract("animation.Registry.Get", "invalid handle %#x", uint16(h))
	}
	return *r.table.Get(handle.AnimatorID(h))
}

// Capacity returns the registry's slot count, including freed slots.
func (r *Registry) Capacity() int { return r.table.Len() }

// UsedCount returns the number of live animators.
func (r *Registry) UsedCount() int { return r.table.Used() }

// Generations returns a snapshot of every slot's generation indexed by id.
func (r *Registry) Generations() []uint32 { return r.table.Generations() }

// Qualify packs an animator handle and one of its animation handles into a
// single cross-container reference.
func (r *Registry) Qualify(h handle.Animator, an handle.Animation) handle.AnimatorAnimation {
	return handle.QualifyAnimation(h, an)
}

// ValidAnimation reports whether a qualified handle refers to a live
// animation in a live animator. Both halves are checked through their
// tables.
func (r *Registry) ValidAnimation(q handle.AnimatorAnimation) bool {
	ah, an := handle.SplitAnimation(q)
	if !r.Valid(ah) {
		return false
	}
	return (*r.table.Get(handle.AnimatorID(ah))).Valid(an)
}

// Resolve returns the animator and local animation handle behind a
// qualified handle. The handle must be valid.
func (r *Registry) Resolve(q handle.AnimatorAnimation) (*Animator, handle.Animation) {
	if !r.ValidAnimation(q) {
		fault.Contract("animation.Registry.Resolve", "invalid handle %#x", uint64(q))
	}
	ah, an := handle.SplitAnimation(q)
	return *r.table.Get(handle.AnimatorID(ah)), an
}

// Tick advances every live animator to time t and dispatches the driver's
// declared hooks. It is the bulk entry point the frame loop calls once per
// tick; driver may be nil when no collaborator work is needed.
func (r *Registry) Tick(t time.Duration, driver Driver) {
	var caps Capability
	if driver != nil {
		caps = driver.Capabilities()
	}
	for id := uint32(0); id < uint32(r.table.Len()); id++ {
		if r.table.Free(id) {
			continue
		}
		a := *r.table.Get(id)
		advanced, clean := a.Update(t, r.buf)
		if driver == nil {
			continue
		}
		h := handle.MakeAnimator(id, r.table.Generation(id))
		if advanced && caps&CapAdvance != 0 {
			driver.Advance(h, a, r.buf)
		}
		if clean && caps&CapClean != 0 {
			driver.Clean(h, a, r.buf)
		}
	}
}
