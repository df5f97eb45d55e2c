package systems

import (
	"math"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/field"
)

// RoseStorm drives the petal storm. While triggered, petals spiral toward the
// viewer and recycle past the near plane; otherwise they retreat and disperse.
// The mode is read fresh every frame, so a trigger change applies to every
// petal on the next update with no per-petal memory of the previous mode.
type RoseStorm struct {
	cfg    config.RoseStormConfig
	easing Easing
}

// NewRoseStorm creates the rose storm system.
func NewRoseStorm(cfg config.RoseStormConfig, e Easing) *RoseStorm {
	return &RoseStorm{cfg: cfg, easing: e}
}

// Update advances every petal and returns how many were recycled.
func (r *RoseStorm) Update(buf *components.Buffers, kin *components.Kinematics, t, dt float64, active bool, s *field.Sampler) int {
	if active {
		return r.advance(buf, kin, t, dt, s)
	}
	r.retreat(buf, dt)
	return 0
}

func (r *RoseStorm) advance(buf *components.Buffers, kin *components.Kinematics, t, dt float64, s *field.Sampler) int {
	cfg := &r.cfg
	steps := r.easing.Steps(dt)
	wobble := t * cfg.WobbleFreq
	p := buf.Positions
	recycled := 0

	for i := range kin.Speed {
		ix := i * 3
		speed := float64(kin.Speed[i])
		z := float64(p[ix+2]) + speed*steps

		angle := float64(kin.Angle[i]) + t*(1+speed*cfg.SpinGain) + z*cfg.DepthTwist
		radius := float64(kin.Radius[i]) + math.Sin(wobble+float64(kin.Offset[i])*cfg.WobblePhase)*cfg.WobbleAmp
		sin, cos := math.Sincos(angle)
		p[ix] = float32(cos * radius)
		p[ix+1] = float32(sin * radius)

		if z > cfg.NearPlane {
			z = s.Range(cfg.ResetZ)
			kin.Angle[i] = float32(s.Uniform(0, 2*math.Pi))
			recycled++
		}
		p[ix+2] = float32(z)
	}
	return recycled
}

func (r *RoseStorm) retreat(buf *components.Buffers, dt float64) {
	cfg := &r.cfg
	dz := float32(cfg.RetreatSpeed * r.easing.Steps(dt))
	m := float32(r.easing.Scale(cfg.Disperse, dt))
	lim := float32(cfg.DisperseLimit)
	far := float32(cfg.FarPlane)
	p := buf.Positions

	for ix := 0; ix+2 < len(p); ix += 3 {
		p[ix] = clampf(p[ix]*m, -lim, lim)
		p[ix+1] = clampf(p[ix+1]*m, -lim, lim)
		z := p[ix+2] - dz
		if z < far {
			z = far
		}
		p[ix+2] = z
	}
}

// ShootingStars moves meteors along a fixed diagonal and respawns them in the
// upper right once they leave the visible region.
type ShootingStars struct {
	cfg    config.MeteorConfig
	easing Easing
}

// NewShootingStars creates the shooting star system.
func NewShootingStars(cfg config.MeteorConfig, e Easing) *ShootingStars {
	return &ShootingStars{cfg: cfg, easing: e}
}

// Update advances every meteor and returns how many were recycled.
func (m *ShootingStars) Update(buf *components.Buffers, kin *components.Kinematics, dt float64, s *field.Sampler) int {
	cfg := &m.cfg
	steps := float32(m.easing.Steps(dt))
	vx, vy := float32(cfg.Velocity[0])*steps, float32(cfg.Velocity[1])*steps
	minX, minY := float32(cfg.MinX), float32(cfg.MinY)
	p := buf.Positions
	recycled := 0

	for i, v := range kin.Speed {
		ix := i * 3
		p[ix] += vx * v
		p[ix+1] += vy * v

		if p[ix+1] < minY || p[ix] < minX {
			x, y, z := s.InBox(cfg.Respawn)
			p[ix], p[ix+1], p[ix+2] = float32(x), float32(y), float32(z)
			kin.Speed[i] = float32(s.Range(cfg.Speed))
			recycled++
		}
	}
	return recycled
}

// Fireflies drift toward the viewer with a slow orbital wobble and blink.
// They ignore gestures.
type Fireflies struct {
	cfg    config.FireflyConfig
	easing Easing
}

// NewFireflies creates the firefly system.
func NewFireflies(cfg config.FireflyConfig, e Easing) *Fireflies {
	return &Fireflies{cfg: cfg, easing: e}
}

// Update advances every firefly, refreshes blink sizes and returns how many
// were recycled.
func (f *Fireflies) Update(buf *components.Buffers, kin *components.Kinematics, t, dt float64, s *field.Sampler) int {
	cfg := &f.cfg
	steps := float32(f.easing.Steps(dt))
	amp := float32(cfg.WobbleAmp) * steps
	wobble := wrapPhase(t * cfg.WobbleFreq)
	blink := wrapPhase(t * cfg.BlinkFreq)
	depth := float32(cfg.BlinkDepth)
	recycleZ, resetZ := float32(cfg.RecycleZ), float32(cfg.ResetZ)
	p := buf.Positions
	recycled := 0

	for i, speed := range kin.Speed {
		ix := i * 3
		phase := kin.Phase[i]
		p[ix+2] += speed * steps
		p[ix] += fastSin(wobble+phase+math.Pi/2) * amp
		p[ix+1] += fastSin(wobble+phase) * amp

		if p[ix+2] > recycleZ {
			p[ix+2] = resetZ
			p[ix] = float32(s.Uniform(cfg.Spawn.Min[0], cfg.Spawn.Max[0]))
			p[ix+1] = float32(s.Uniform(cfg.Spawn.Min[1], cfg.Spawn.Max[1]))
			recycled++
		}

		buf.Sizes[i] = buf.BaseSizes[i] * (1 - depth + depth*fastSin(blink+phase))
	}
	return recycled
}

// Rain falls straight down and re-enters at the top of its column band.
type Rain struct {
	cfg    config.RainConfig
	easing Easing
}

// NewRain creates the rain system.
func NewRain(cfg config.RainConfig, e Easing) *Rain {
	return &Rain{cfg: cfg, easing: e}
}

// Update advances every streak and returns how many were recycled.
func (r *Rain) Update(buf *components.Buffers, kin *components.Kinematics, dt float64, s *field.Sampler) int {
	cfg := &r.cfg
	steps := float32(r.easing.Steps(dt))
	floor, top := float32(cfg.FloorY), float32(cfg.TopY)
	p := buf.Positions
	recycled := 0

	for i, v := range kin.Speed {
		ix := i * 3
		p[ix+1] -= v * steps
		if p[ix+1] < floor {
			p[ix+1] = top
			p[ix] = float32(s.Uniform(cfg.Spawn.Min[0], cfg.Spawn.Max[0]))
			recycled++
		}
	}
	return recycled
}
