// Package components defines ECS components for the particle scene.
//
// Each particle layer is one entity. Particle data lives in flat float32
// slices (structure of arrays) owned by that entity's components, so the
// per-frame systems run over contiguous memory with no per-particle objects.
package components

import "github.com/pthm-cable/heartstorm/sprite"

// LayerKind identifies a particle layer.
type LayerKind uint8

const (
	LayerCore LayerKind = iota
	LayerShard
	LayerPetal
	LayerFirefly
	LayerShootingStar
	LayerRoseStorm
	LayerRain
	NumLayers
)

// IsHeart reports whether the layer belongs to the beating heart group.
func (k LayerKind) IsHeart() bool {
	return k <= LayerPetal
}

// Layer names the entity's layer.
type Layer struct {
	Kind LayerKind
	Name string
}

// Buffers holds the renderer-facing arrays of a layer. Positions and Colors
// carry 3 floats per particle; Sizes and BaseSizes carry 1. All slices are
// allocated once at generation and written in place afterwards.
type Buffers struct {
	Positions []float32
	Colors    []float32
	Sizes     []float32
	BaseSizes []float32
}

// Len returns the particle count.
func (b *Buffers) Len() int {
	return len(b.Positions) / 3
}

// HeartField marks a heart layer. Base is the immutable anchor of every
// particle (3 floats each), SpreadMultiplier scales the explode offset.
type HeartField struct {
	Base             []float32
	SpreadMultiplier float32
}

// Kinematics holds per-particle parameters drawn at spawn. Unused arrays are
// nil; a recycle may redraw them but never changes their length.
type Kinematics struct {
	Speed  []float32
	Phase  []float32
	Angle  []float32
	Radius []float32
	Offset []float32
}

// BlendMode selects how a layer is composited.
type BlendMode uint8

const (
	BlendAdditive BlendMode = iota
	BlendNormal
)

// Material holds per-layer rendering hints.
type Material struct {
	Sprite    sprite.Kind
	Blend     BlendMode
	Opacity   float32
	Tint      [3]float32 // uniform color; ignored when the layer has per-particle colors
	PointSize float32    // uniform size; ignored when the layer has per-particle sizes
}

// Recycler counts particles reset to their spawn volume.
type Recycler struct {
	Total    uint64
	LastTick int // recycles in the most recent update
}
