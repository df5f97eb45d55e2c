package systems

import (
	"math"

	"github.com/pthm-cable/heartstorm/config"
)

// Easing converts per-frame rates, tuned at a reference frame rate, into
// elapsed-time form so motion speed does not depend on the render cadence.
//
// A smoothing factor k applied once per reference frame becomes
// 1-(1-k)^(dt*fps); a per-frame velocity v becomes v*dt*fps; a per-frame
// multiplier m becomes m^(dt*fps). With FrameLocked the reference values are
// applied once per call and dt is ignored.
type Easing struct {
	RefFPS      float64
	FrameLocked bool
}

// NewEasing builds an Easing from config.
func NewEasing(cfg config.EasingConfig) Easing {
	fps := cfg.ReferenceFPS
	if fps <= 0 {
		fps = 60
	}
	return Easing{RefFPS: fps, FrameLocked: cfg.FrameLocked}
}

// Steps returns how many reference frames dt spans.
func (e Easing) Steps(dt float64) float64 {
	if e.FrameLocked {
		return 1
	}
	return dt * e.RefFPS
}

// Factor returns the smoothing weight to apply for a step of dt.
func (e Easing) Factor(k, dt float64) float64 {
	if e.FrameLocked {
		return k
	}
	return 1 - math.Pow(1-k, dt*e.RefFPS)
}

// Approach moves cur toward target with rate k.
func (e Easing) Approach(cur, target, k, dt float64) float64 {
	return cur + (target-cur)*e.Factor(k, dt)
}

// Scale returns the multiplier m compounded over dt.
func (e Easing) Scale(m, dt float64) float64 {
	if e.FrameLocked {
		return m
	}
	return math.Pow(m, dt*e.RefFPS)
}
