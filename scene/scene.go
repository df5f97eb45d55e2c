// Package scene owns the particle world and advances it one frame at a time.
package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"github.com/tanema/gween"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/field"
	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/systems"
	"github.com/pthm-cable/heartstorm/telemetry"
)

// Options configures scene construction.
type Options struct {
	Seed          uint64 // overrides config; 0 = config seed, then time-based
	LogStats      bool
	Output        *telemetry.OutputManager
	TrackerStats  func() gesture.TrackerStats
	StatsCallback func(telemetry.WindowStats)
	EventCallback func(telemetry.Event)
}

// Scene holds the complete particle state.
type Scene struct {
	cfg   *config.Config
	world *ecs.World
	seed  uint64

	// Entity mappers per layer family
	heartMapper *ecs.Map4[
		components.Layer,
		components.Buffers,
		components.HeartField,
		components.Material,
	]
	ambientMapper *ecs.Map5[
		components.Layer,
		components.Buffers,
		components.Kinematics,
		components.Material,
		components.Recycler,
	]

	heartFilter   *ecs.Filter3[components.Layer, components.Buffers, components.HeartField]
	ambientFilter *ecs.Filter4[components.Layer, components.Buffers, components.Kinematics, components.Recycler]
	viewFilter    *ecs.Filter3[components.Layer, components.Buffers, components.Material]
	materialMap   *ecs.Map[components.Material]

	entities [components.NumLayers]ecs.Entity

	sampler   *field.Sampler
	animator  *systems.Animator
	roseStorm *systems.RoseStorm
	meteors   *systems.ShootingStars
	fireflies *systems.Fireflies
	rain      *systems.Rain
	parallel  *parallelState

	// Rose storm visibility
	roseActive bool
	roseFade   *gween.Tween

	// State
	t       float64
	frame   int64
	anim    systems.AnimState
	gesture gesture.State
	views   []LayerView

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	output        *telemetry.OutputManager
	trackerStats  func() gesture.TrackerStats
	statsCallback func(telemetry.WindowStats)
	eventCallback func(telemetry.Event)
	logStats      bool
	transitions   []telemetry.EventType
	events        []telemetry.Event
}

// New generates every layer and returns a scene at t = 0.
func New(cfg *config.Config, opts Options) (*Scene, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	world := ecs.NewWorld()
	easing := systems.NewEasing(cfg.Easing)

	s := &Scene{
		cfg:   cfg,
		world: world,
		seed:  seed,
		heartMapper: ecs.NewMap4[
			components.Layer,
			components.Buffers,
			components.HeartField,
			components.Material,
		](world),
		ambientMapper: ecs.NewMap5[
			components.Layer,
			components.Buffers,
			components.Kinematics,
			components.Material,
			components.Recycler,
		](world),
		heartFilter:   ecs.NewFilter3[components.Layer, components.Buffers, components.HeartField](world),
		ambientFilter: ecs.NewFilter4[components.Layer, components.Buffers, components.Kinematics, components.Recycler](world),
		viewFilter:    ecs.NewFilter3[components.Layer, components.Buffers, components.Material](world),
		materialMap:   ecs.NewMap[components.Material](world),

		sampler:   field.NewSampler(seed),
		animator:  systems.NewAnimator(cfg),
		roseStorm: systems.NewRoseStorm(cfg.RoseStorm, easing),
		meteors:   systems.NewShootingStars(cfg.Meteor, easing),
		fireflies: systems.NewFireflies(cfg.Firefly, easing),
		rain:      systems.NewRain(cfg.Rain, easing),
		parallel:  newParallelState(cfg.Parallel.Workers, cfg.Parallel.Threshold),

		gesture: gesture.DefaultState(),

		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, opts.Output.RunID()),
		output:        opts.Output,
		trackerStats:  opts.TrackerStats,
		statsCallback: opts.StatsCallback,
		eventCallback: opts.EventCallback,
		logStats:      opts.LogStats,
	}
	s.anim = s.animator.State()

	if err := s.spawnLayers(); err != nil {
		return nil, err
	}
	return s, nil
}

// Update advances the scene by dt seconds under gesture snapshot g.
// Steps longer than Simulation.MaxDT are clamped; negative or NaN steps
// count as zero.
func (s *Scene) Update(dt float64, g gesture.State) {
	clamped := false
	if !(dt > 0) {
		dt = 0
	}
	if limit := s.cfg.Simulation.MaxDT; limit > 0 && dt > limit {
		dt = limit
		clamped = true
	}
	s.t += dt
	s.frame++
	prev := s.gesture
	s.gesture = g

	s.perf.StartFrame()

	s.perf.StartPhase(telemetry.PhaseAnimation)
	s.anim = s.animator.Step(s.t, dt, g)

	s.perf.StartPhase(telemetry.PhaseHeart)
	s.updateHearts(g.IsOpen)

	s.updateAmbient(dt, g.IsTrigger)

	s.perf.StartPhase(telemetry.PhaseMaterial)
	s.updateMaterials(dt, g.IsTrigger)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.collector.RecordFrame(dt, clamped, g)
	s.recordEvents(prev, g)
	s.flushTelemetry()

	s.perf.EndFrame()
}

// updateHearts rewrites every heart layer from its base anchors.
func (s *Scene) updateHearts(open bool) {
	query := s.heartFilter.Query()
	for query.Next() {
		_, buf, hf := query.Get()
		job := heartJob{
			pos:    buf.Positions,
			base:   hf.Base,
			params: systems.NewHeartParams(s.cfg.Beat, s.anim, s.t, open, hf.SpreadMultiplier),
		}
		s.parallel.updateHeart(&job)
	}
}

// updateAmbient advances the ambient layers. They share the sampler, so they
// run on the caller.
func (s *Scene) updateAmbient(dt float64, trigger bool) {
	query := s.ambientFilter.Query()
	for query.Next() {
		layer, buf, kin, rec := query.Get()

		var n int
		switch layer.Kind {
		case components.LayerRoseStorm:
			s.perf.StartPhase(telemetry.PhaseRoseStorm)
			n = s.roseStorm.Update(buf, kin, s.t, dt, trigger, s.sampler)
		case components.LayerShootingStar:
			s.perf.StartPhase(telemetry.PhaseShootingStar)
			n = s.meteors.Update(buf, kin, dt, s.sampler)
		case components.LayerFirefly:
			s.perf.StartPhase(telemetry.PhaseFirefly)
			n = s.fireflies.Update(buf, kin, s.t, dt, s.sampler)
		case components.LayerRain:
			s.perf.StartPhase(telemetry.PhaseRain)
			n = s.rain.Update(buf, kin, dt, s.sampler)
		}

		rec.LastTick = n
		rec.Total += uint64(n)
		s.collector.RecordRecycled(layer.Kind, n)
	}
}

// Time returns the elapsed scene time in seconds.
func (s *Scene) Time() float64 {
	return s.t
}

// Frame returns the number of updates so far.
func (s *Scene) Frame() int64 {
	return s.frame
}

// Seed returns the seed the layers were generated from.
func (s *Scene) Seed() uint64 {
	return s.seed
}

// Anim returns the heart-group animation state after the last update.
func (s *Scene) Anim() systems.AnimState {
	return s.anim
}

// Gesture returns the snapshot applied in the last update.
func (s *Scene) Gesture() gesture.State {
	return s.gesture
}

// Perf returns the frame timing collector.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

// HeartTransform returns the heart group's model matrix: pitch, then yaw
// including auto-spin, then the uniform jump scale.
func (s *Scene) HeartTransform() mgl32.Mat4 {
	a := s.anim
	j := float32(a.Jump)
	return mgl32.HomogRotate3DX(float32(a.RotationX)).
		Mul4(mgl32.HomogRotate3DY(float32(math.Mod(a.Yaw(), 2*math.Pi)))).
		Mul4(mgl32.Scale3D(j, j, j))
}

// Unload stops the worker pool.
func (s *Scene) Unload() {
	if s.parallel != nil {
		s.parallel.stopWorkers()
	}
}
