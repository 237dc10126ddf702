// Package handle defines the bit-packed handle types used to reference
// dynamically allocated resources (layers, layer data, animators, animations)
// without holding a direct reference.
//
// A handle packs an id (an index into a slot table) and a generation (a
// wrap-around counter incremented every time the slot is reused). A handle is
// only a claim; validity must always be re-checked through the owning table
// and never cached, which is what makes stale handles safe to hold.
//
// Two handle flavors exist. Container handles (Layer, Animator) identify the
// owning table itself and pack 8 id bits with 8 generation bits. Item handles
// (Data, Animation) identify one entry inside a container and pack 20 id bits
// with 12 generation bits. A qualified handle (LayerData, AnimatorAnimation)
// concatenates a container handle with an item handle so a cross-container
// reference can be validated without a back-pointer.
//
// Generation 0 is reserved: it is never issued for a live slot, so the zero
// value of every handle type is Null and a slot whose generation wraps to 0
// is permanently retired.
//
// Each resource kind gets its own opaque integer type so that accidentally
// comparing, say, a Data handle against an Animation handle is a compile-time
// error. Encode and decode are free functions with the bit-width constants
// spelled out below, keeping the bit-layout contract auditable in one place.
package handle

import "github.com/go-drift/anima/pkg/fault"

// Bit widths of the two handle flavors. These are a wire/debug-format
// contract with the surrounding toolkit and must not change.
const (
	// ContainerIDBits is the id width of container handles (Layer, Animator).
	ContainerIDBits = 8
	// ContainerGenBits is the generation width of container handles.
	ContainerGenBits = 8
	// ItemIDBits is the id width of item handles (Data, Animation).
	ItemIDBits = 20
	// ItemGenBits is the generation width of item handles.
	ItemGenBits = 12
)

// Derived limits. A table can hold at most MaxContainerSlots or MaxItemSlots
// entries because ids must stay representable.
const (
	MaxContainerSlots = 1 << ContainerIDBits
	MaxItemSlots      = 1 << ItemIDBits

	containerGenMask = 1<<ContainerGenBits - 1
	itemGenMask      = 1<<ItemGenBits - 1
)

// Layer is a container handle identifying one layer table.
type Layer uint16

// Animator is a container handle identifying one animator table.
type Animator uint16

// Data is a local item handle identifying one layer-data entry within a layer.
type Data uint32

// Animation is a local item handle identifying one animation within an animator.
type Animation uint32

// Node is an item handle in the external node-tree domain. The core never
// owns a node table; it only stores node handles as attachments and compares
// their generations against a caller-supplied generation table during Clean
// sweeps.
type Node uint32

// LayerData is a qualified handle: a Layer and a Data packed together.
type LayerData uint64

// AnimatorAnimation is a qualified handle: an Animator and an Animation
// packed together.
type AnimatorAnimation uint64

// Null values. Generation 0 is never issued, so the zero value of every
// handle type denotes "no resource".
const (
	NullLayer             Layer             = 0
	NullAnimator          Animator          = 0
	NullData              Data              = 0
	NullAnimation         Animation         = 0
	NullNode              Node              = 0
	NullLayerData         LayerData         = 0
	NullAnimatorAnimation AnimatorAnimation = 0
)

// IsNull reports whether the handle carries generation 0, which no live
// slot ever does.
func (h Layer) IsNull() bool             { return uint16(h)&containerGenMask == 0 }
func (h Animator) IsNull() bool          { return uint16(h)&containerGenMask == 0 }
func (h Data) IsNull() bool              { return uint32(h)&itemGenMask == 0 }
func (h Animation) IsNull() bool         { return uint32(h)&itemGenMask == 0 }
func (h Node) IsNull() bool              { return uint32(h)&itemGenMask == 0 }
func (h LayerData) IsNull() bool         { return uint64(h)&itemGenMask == 0 }
func (h AnimatorAnimation) IsNull() bool { return uint64(h)&itemGenMask == 0 }

// composeContainer packs an 8-bit id and 8-bit generation. Out-of-range
// values are a programming error, not a recoverable condition.
func composeContainer(op string, id, gen uint32) uint16 {
	if id >= MaxContainerSlots {
		fault.Contract(op, "id %d exceeds %d-bit field", id, ContainerIDBits)
	}
	if gen > containerGenMask {
		fault.Contract(op, "generation %d exceeds %d-bit field", gen, ContainerGenBits)
	}
	return uint16(id<<ContainerGenBits | gen)
}

// composeItem packs a 20-bit id and 12-bit generation.
func composeItem(op string, id, gen uint32) uint32 {
	if id >= MaxItemSlots {
		fault.Contract(op, "id %d exceeds %d-bit field", id, ItemIDBits)
	}
	if gen > itemGenMask {
		fault.Contract(op, "generation %d exceeds %d-bit field", gen, ItemGenBits)
	}
	return id<<ItemGenBits | gen
}

// MakeLayer composes a layer handle from an id and a generation.
func MakeLayer(id, gen uint32) Layer {
	return Layer(composeContainer("handle.MakeLayer", id, gen))
}

// MakeAnimator composes an animator handle from an id and a generation.
func MakeAnimator(id, gen uint32) Animator {
	return Animator(composeContainer("handle.MakeAnimator", id, gen))
}

// MakeData composes a layer-data handle from an id and a generation.
func MakeData(id, gen uint32) Data {
	return Data(composeItem("handle.MakeData", id, gen))
}

// MakeAnimation composes an animation handle from an id and a generation.
func MakeAnimation(id, gen uint32) Animation {
	return Animation(composeItem("handle.MakeAnimation", id, gen))
}

// LayerID extracts the slot index of a layer handle.
func LayerID(h Layer) uint32 { return uint32(h) >> ContainerGenBits }

// LayerGeneration extracts the generation of a layer handle.
func LayerGeneration(h Layer) uint32 { return uint32(h) & containerGenMask }

// AnimatorID extracts the slot index of an animator handle.
func AnimatorID(h Animator) uint32 { return uint32(h) >> ContainerGenBits }

// AnimatorGeneration extracts the generation of an animator handle.
func AnimatorGeneration(h Animator) uint32 { return uint32(h) & containerGenMask }

// DataID extracts the slot index of a layer-data handle.
func DataID(h Data) uint32 { return uint32(h) >> ItemGenBits }

// DataGeneration extracts the generation of a layer-data handle.
func DataGeneration(h Data) uint32 { return uint32(h) & itemGenMask }

// AnimationID extracts the slot index of an animation handle.
func AnimationID(h Animation) uint32 { return uint32(h) >> ItemGenBits }

// AnimationGeneration extracts the generation of an animation handle.
func AnimationGeneration(h Animation) uint32 { return uint32(h) & itemGenMask }

// MakeNode composes a node handle from an id and a generation.
func MakeNode(id, gen uint32) Node {
	return Node(composeItem("handle.MakeNode", id, gen))
}

// NodeID extracts the slot index of a node handle.
func NodeID(h Node) uint32 { return uint32(h) >> ItemGenBits }

// NodeGeneration extracts the generation of a node handle.
func NodeGeneration(h Node) uint32 { return uint32(h) & itemGenMask }

// Qualified handles place the container handle in bits 32..47 and the item
// handle in bits 0..31: containerId<<40 | containerGen<<32 | itemId<<12 |
// itemGen. The top 16 bits are zero.
const itemWidth = ItemIDBits + ItemGenBits

// QualifyData concatenates a layer handle and a data handle.
func QualifyData(l Layer, d Data) LayerData {
	return LayerData(uint64(l)<<itemWidth | uint64(d))
}

// SplitData decomposes a qualified layer-data handle. It is the exact
// inverse of QualifyData.
func SplitData(q LayerData) (Layer, Data) {
	return Layer(q >> itemWidth), Data(q & (1<<itemWidth - 1))
}

// QualifyAnimation concatenates an animator handle and an animation handle.
func QualifyAnimation(a Animator, an Animation) AnimatorAnimation {
	return AnimatorAnimation(uint64(a)<<itemWidth | uint64(an))
}

// SplitAnimation decomposes a qualified animator-animation handle. It is the
// exact inverse of QualifyAnimation.
func SplitAnimation(q AnimatorAnimation) (Animator, Animation) {
	return Animator(q >> itemWidth), Animation(q & (1<<itemWidth - 1))
}
