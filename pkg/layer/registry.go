package layer

import (
	"github.com/go-drift/anima/pkg/arena"
	"github.com/go-drift/anima/pkg/fault"
	"github.com/go-drift/anima/pkg/handle"
)

// Registry owns the layers themselves under generation-checked container
// handles, so qualified layer-data references can be validated without a
// back-pointer from data to layer.
type Registry struct {
	table *arena.Table[*Layer]
}

// NewRegistry returns an empty layer registry.
func NewRegistry() *Registry {
	return &Registry{
		table: arena.New[*Layer](handle.ContainerIDBits, handle.ContainerGenBits),
	}
}

// Create allocates a new layer and returns its handle alongside it.
func (r *Registry) Create() (handle.Layer, *Layer) {
	l := New()
	id, gen := r.table.Create(l)
	return handle.MakeLayer(id, gen), l
}

// Remove frees the layer and everything in it. The handle must be valid.
func (r *Registry) Remove(h handle.Layer) {
	if !r.Valid(h) {
		fault.Contract("layer.Registry.Remove", "invalid handle %#x", uint16(h))
	}
	r.table.Remove(handle.LayerID(h), handle.LayerGeneration(h), func(l **Layer) {
		*l = nil
	})
}

// Valid reports whether h still refers to a live layer.
func (r *Registry) Valid(h handle.Layer) bool {
	if h.IsNull() {
		return false
	}
	return r.table.Valid(handle.LayerID(h), handle.LayerGeneration(h))
}

// Get returns the layer for a valid handle, failing fast otherwise.
func (r *Registry) Get(h handle.Layer) *Layer {
	if !r.Valid(h) {
		fault.Contract("layer.Registry.Get", "invalid handle %#x", uint16(h))
	}
	return *r.table.Get(handle.LayerID(h))
}

// Capacity returns the registry's slot count, including freed slots.
func (r *Registry) Capacity() int { return r.table.Len() }

// UsedCount returns the number of live layers.
func (r *Registry) UsedCount() int { return r.table.Used() }

// Generations returns a snapshot of every slot's generation indexed by id.
func (r *Registry) Generations() []uint32 { return r.table.Generations() }

// Qualify packs a layer handle and one of its data handles into a single
// cross-container reference.
func (r *Registry) Qualify(h handle.Layer, d handle.Data) handle.LayerData {
	return handle.QualifyData(h, d)
}

// ValidData reports whether a qualified handle refers to live data in a
// live layer.
func (r *Registry) ValidData(q handle.LayerData) bool {
	lh, d := handle.SplitData(q)
	if !r.Valid(lh) {
		return false
	}
	return (*r.table.Get(handle.LayerID(lh))).Valid(d)
}

// Resolve returns the layer and local data handle behind a qualified
// handle. The handle must be valid.
func (r *Registry) Resolve(q handle.LayerData) (*Layer, handle.Data) {
	if !r.ValidData(q) {
		fault.Contract("layer.Registry.Resolve", "invalid handle %#x", uint64(q))
	}
	lh, d := handle.SplitData(q)
	return *r.table.Get(handle.LayerID(lh)), d
}
