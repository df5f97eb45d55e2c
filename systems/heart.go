package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/heartstorm/config"
)

// HeartParams are the per-frame inputs shared by every particle of a heart
// layer. Phases are pre-wrapped so the hot loop stays in float32.
type HeartParams struct {
	Offset     float32 // radial push along each particle's base direction
	NoisePhase float32
	NoiseAmp   float32
	TurbPhase  float32
	TurbAmp    float32 // zero when the hand is closed
	TurbK      float32
}

// NewHeartParams derives the frame inputs for a layer with the given spread
// multiplier.
func NewHeartParams(cfg config.BeatConfig, anim AnimState, t float64, open bool, spreadMultiplier float32) HeartParams {
	p := HeartParams{
		Offset:     float32(anim.Beat*cfg.BeatOffset) + float32(anim.Spread)*spreadMultiplier,
		NoisePhase: wrapPhase(t * cfg.NoiseFreq),
		NoiseAmp:   float32(cfg.NoiseAmp),
		TurbPhase:  wrapPhase(t),
		TurbK:      float32(cfg.TurbulenceK),
	}
	if open {
		p.TurbAmp = float32(cfg.TurbulenceAmp)
	}
	return p
}

// UpdateHeart rewrites positions [i0, i1) from their base anchors: each
// particle is pushed along its own base direction (zero at the origin), then
// jittered by low-frequency noise and, while open, turbulence on x and y.
// Disjoint ranges may run concurrently.
func UpdateHeart(pos, base []float32, i0, i1 int, p HeartParams) {
	for i := i0; i < i1; i++ {
		ix := i * 3
		b := mgl32.Vec3{base[ix], base[ix+1], base[ix+2]}

		var n mgl32.Vec3
		if l := b.Len(); l > 0 {
			n = b.Mul(1 / l)
		}
		out := b.Add(n.Mul(p.Offset))

		noise := fastSin(p.NoisePhase+float32(i)) * p.NoiseAmp
		var turb float32
		if p.TurbAmp != 0 {
			turb = fastSin(p.TurbPhase+b[0]*p.TurbK) * p.TurbAmp
		}

		pos[ix] = out[0] + noise + turb
		pos[ix+1] = out[1] + noise + turb
		pos[ix+2] = out[2] + noise
	}
}
