package systems

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/gesture"
)

// Mode is the heart's animation mode.
type Mode uint8

const (
	ModeBreathing Mode = iota // open hand: idle breathing, heart exploded outward
	ModeBeating               // closed hand: sharp heartbeat pulses, heart contracted
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeBeating {
		return "beating"
	}
	return "breathing"
}

// AnimState is the shared heart-group animation state after one step.
type AnimState struct {
	Mode      Mode
	RotationX float64 // eased pitch
	RotationY float64 // eased yaw, without auto-spin
	Spin      float64 // auto-spin yaw
	Jump      float64 // eased group scale
	Explode   float64 // eased 0..1 expansion
	Beat      float64 // instantaneous pulse value
	Spread    float64 // Explode * spread, before the per-layer multiplier
}

// Yaw returns the total heart-group yaw.
func (s AnimState) Yaw() float64 {
	return s.RotationY + s.Spin
}

// LogValue implements slog.LogValuer.
func (s AnimState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("mode", s.Mode.String()),
		slog.Float64("rot_x", s.RotationX),
		slog.Float64("rot_y", s.RotationY),
		slog.Float64("jump", s.Jump),
		slog.Float64("explode", s.Explode),
	)
}

// Animator steps the heart-group state machine. The mode follows the hand
// (open or closed); rotation, jump scale and explode ease toward the targets
// the mode implies.
type Animator struct {
	beat     config.BeatConfig
	rates    config.EasingConfig
	easing   Easing
	autoSpin float64
	state    AnimState
}

// NewAnimator creates an animator at rest: unrotated, unit scale, contracted.
func NewAnimator(cfg *config.Config) *Animator {
	return &Animator{
		beat:     cfg.Beat,
		rates:    cfg.Easing,
		easing:   NewEasing(cfg.Easing),
		autoSpin: cfg.Simulation.AutoSpin,
		state:    AnimState{Jump: 1},
	}
}

// State returns the state after the last Step.
func (a *Animator) State() AnimState {
	return a.state
}

// Step advances the state to elapsed time t, dt after the previous step.
func (a *Animator) Step(t, dt float64, g gesture.State) AnimState {
	s := &a.state
	e := a.easing

	s.RotationY = e.Approach(s.RotationY, g.RotationTargetY, a.rates.Rotation, dt)
	s.RotationX = e.Approach(s.RotationX, g.RotationTargetX, a.rates.Rotation, dt)
	s.Spin = t * a.autoSpin

	jumpTarget := 1.0
	if g.IsOpen {
		s.Mode = ModeBreathing
		s.Beat = math.Sin(t) * a.beat.BreathAmp
	} else {
		s.Mode = ModeBeating
		s.Beat = Pulse(t, a.beat.Frequency, a.beat.Power) * a.beat.Amplitude
		jumpTarget = 1 - s.Beat*a.beat.JumpDepth
	}
	s.Jump = e.Approach(s.Jump, jumpTarget, a.rates.Jump, dt)

	explodeTarget := 0.0
	if g.IsOpen {
		explodeTarget = 1
	}
	s.Explode = e.Approach(s.Explode, explodeTarget, a.rates.Explode, dt)
	s.Spread = s.Explode * a.beat.Spread

	return *s
}

// Pulse returns sin(freq*t)^power. An odd power keeps the sign and turns the
// sine into short sharp peaks separated by near-zero rests.
func Pulse(t, freq float64, power int) float64 {
	s := math.Sin(t * freq)
	p := 1.0
	for i := 0; i < power; i++ {
		p *= s
	}
	return p
}
