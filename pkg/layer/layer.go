// Package layer implements the layer-data side of the handle core: the same
// generation-checked slot pattern as the animation package, holding the
// geometry, opacity, and clip buffers a compositing collaborator supplies.
//
// The core stores these buffers verbatim and never interprets them; layout,
// painting, and compositing happen in the surrounding toolkit, which reads
// them back through validated handles.
package layer

import (
	"github.com/go-drift/anima/pkg/arena"
	"github.com/go-drift/anima/pkg/fault"
	"github.com/go-drift/anima/pkg/handle"
)

// Data is the payload of one layer-data slot. All fields are opaque to the
// core: Geometry is whatever vertex or bounds layout the renderer uses,
// Clip is a rectangle in the renderer's coordinate space.
type Data struct {
	Geometry []float32
	Opacity  float32
	Clip     [4]float32
}

// entry pairs the payload with its freed marker. Geometry of a freed slot
// is released; the marker keeps mid-scan generation matches honest, same
// as the animation table's duration sentinel.
type entry struct {
	data  Data
	freed bool
}

// Layer owns a slot table of layer data and hands out generation-checked
// handles to it. Like the animator, a layer is single-threaded and all
// mutators fail fast on stale handles; check [Layer.Valid] first.
type Layer struct {
	table *arena.Table[entry]

	// nodes is the per-slot attachment side array, grown in lockstep with
	// the table.
	nodes []handle.Node
}

// New returns an empty layer.
func New() *Layer {
	return &Layer{
		table: arena.New[entry](handle.ItemIDBits, handle.ItemGenBits),
	}
}

// Create allocates a slot holding d and returns its handle.
func (l *Layer) Create(d Data) handle.Data {
	id, gen := l.table.Create(entry{data: d})
	if int(id) < len(l.nodes) {
		l.nodes[id] = handle.NullNode
	} else {
		l.nodes = append(l.nodes, handle.NullNode)
	}
	if len(l.nodes) != l.table.Len() {
		fault.Consistency("layer.Layer.Create",
			"side array length %d out of sync with table %d", len(l.nodes), l.table.Len())
	}
	return handle.MakeData(id, gen)
}

// Remove frees the slot the handle refers to. The handle must be valid.
func (l *Layer) Remove(h handle.Data) {
	if !l.Valid(h) {
		fault.Contract("layer.Layer.Remove", "invalid handle %#x", uint32(h))
	}
	id := handle.DataID(h)
	l.table.Remove(id, handle.DataGeneration(h), func(e *entry) {
		*e = entry{freed: true}
	})
	l.nodes[id] = handle.NullNode
}

// Valid reports whether h still refers to the live slot it was issued for.
func (l *Layer) Valid(h handle.Data) bool {
	if h.IsNull() {
		return false
	}
	id := handle.DataID(h)
	if !l.table.Valid(id, handle.DataGeneration(h)) {
		return false
	}
	if l.table.Get(id).freed {
		fault.Consistency("layer.Layer.Valid",
			"slot %d generation matches but entry is scrubbed", id)
	}
	return true
}

// entryFor returns the live entry for h, failing fast on a stale handle.
func (l *Layer) entryFor(op string, h handle.Data) *entry {
	if !l.Valid(h) {
		fault.Contract(op, "invalid handle %#x", uint32(h))
	}
	return l.table.Get(handle.DataID(h))
}

// Data returns a copy of the slot's payload.
func (l *Layer) Data(h handle.Data) Data {
	return l.entryFor("layer.Layer.Data", h).data
}

// SetGeometry replaces the slot's geometry buffer. The layer keeps the
// slice as given; the caller must not mutate it afterward.
func (l *Layer) SetGeometry(h handle.Data, geometry []float32) {
	l.entryFor("layer.Layer.SetGeometry", h).data.Geometry = geometry
}

// SetOpacity replaces the slot's opacity.
func (l *Layer) SetOpacity(h handle.Data, opacity float32) {
	l.entryFor("layer.Layer.SetOpacity", h).data.Opacity = opacity
}

// SetClip replaces the slot's clip rectangle.
func (l *Layer) SetClip(h handle.Data, clip [4]float32) {
	l.entryFor("layer.Layer.SetClip", h).data.Clip = clip
}

// Attach records the external node this data belongs to; pass
// handle.NullNode to detach.
func (l *Layer) Attach(h handle.Data, node handle.Node) {
	l.entryFor("layer.Layer.Attach", h)
	l.nodes[handle.DataID(h)] = node
}

// Attachment returns the node this data is attached to, or handle.NullNode.
func (l *Layer) Attachment(h handle.Data) handle.Node {
	l.entryFor("layer.Layer.Attachment", h)
	return l.nodes[handle.DataID(h)]
}

// Clean removes every slot whose attached node no longer exists, given the
// node domain's generation table indexed by node id. Unattached slots are
// untouched. Returns the number of slots removed.
func (l *Layer) Clean(nodeGenerations []uint32) int {
	removed := 0
	for id := uint32(0); id < uint32(l.table.Len()); id++ {
		if l.table.Free(id) {
			continue
		}
		node := l.nodes[id]
		if node.IsNull() {
			continue
		}
		nodeID := handle.NodeID(node)
		if nodeID < uint32(len(nodeGenerations)) &&
			nodeGenerations[nodeID] == handle.NodeGeneration(node) {
			continue
		}
		l.table.Remove(id, l.table.Generation(id), func(e *entry) {
			*e = entry{freed: true}
		})
		l.nodes[id] = handle.NullNode
		removed++
	}
	return removed
}

// Capacity returns the layer's slot count, including freed slots.
func (l *Layer) Capacity() int { return l.table.Len() }

// UsedCount returns the number of live slots.
func (l *Layer) UsedCount() int { return l.table.Used() }

// Generations returns a snapshot of every slot's generation indexed by id.
func (l *Layer) Generations() []uint32 { return l.table.Generations() }
