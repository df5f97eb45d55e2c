package field

import (
	"math"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
)

// AmbientLayer is one generated ambient population. Colors are nil: ambient
// layers use a uniform material tint.
type AmbientLayer struct {
	Buffers    components.Buffers
	Kinematics components.Kinematics
}

func newAmbient(n int) AmbientLayer {
	return AmbientLayer{Buffers: components.Buffers{Positions: make([]float32, 3*n)}}
}

func (l *AmbientLayer) place(i int, x, y, z float64) {
	ix := i * 3
	l.Buffers.Positions[ix] = float32(x)
	l.Buffers.Positions[ix+1] = float32(y)
	l.Buffers.Positions[ix+2] = float32(z)
}

// GenerateFireflies scatters fireflies through a shallow depth band. Each gets
// a drift speed and a phase shared by its wobble and blink.
func GenerateFireflies(cfg config.FireflyConfig, s *Sampler) AmbientLayer {
	n := cfg.Count
	l := newAmbient(n)
	l.Buffers.Sizes = make([]float32, n)
	l.Buffers.BaseSizes = make([]float32, n)
	l.Kinematics.Speed = make([]float32, n)
	l.Kinematics.Phase = make([]float32, n)

	for i := 0; i < n; i++ {
		x, y, z := s.InBox(cfg.Spawn)
		l.place(i, x, y, z)
		l.Kinematics.Speed[i] = float32(s.Range(cfg.Speed))
		l.Kinematics.Phase[i] = float32(s.Range(cfg.Phase))
		l.Buffers.Sizes[i] = 1
		l.Buffers.BaseSizes[i] = float32(cfg.BaseSize)
	}
	return l
}

// GenerateShootingStars spawns meteors biased toward the top right, each with
// its own speed along the shared diagonal.
func GenerateShootingStars(cfg config.MeteorConfig, s *Sampler) AmbientLayer {
	n := cfg.Count
	l := newAmbient(n)
	l.Kinematics.Speed = make([]float32, n)
	l.Kinematics.Phase = make([]float32, n)

	for i := 0; i < n; i++ {
		x, y, z := s.InBox(cfg.Spawn)
		l.place(i, x, y, z)
		l.Kinematics.Speed[i] = float32(s.Range(cfg.Speed))
		l.Kinematics.Phase[i] = float32(s.Range(cfg.Phase))
	}
	return l
}

// GenerateRoseStorm scatters petals far behind the heart. Each petal keeps a
// spiral angle, radius, approach speed and wobble offset; a BloomChance
// fraction are drawn as larger blooms.
func GenerateRoseStorm(cfg config.RoseStormConfig, s *Sampler) AmbientLayer {
	n := cfg.Count
	l := newAmbient(n)
	l.Buffers.Sizes = make([]float32, n)
	l.Kinematics.Angle = make([]float32, n)
	l.Kinematics.Radius = make([]float32, n)
	l.Kinematics.Speed = make([]float32, n)
	l.Kinematics.Offset = make([]float32, n)

	for i := 0; i < n; i++ {
		x, y, z := s.InBox(cfg.Spawn)
		l.place(i, x, y, z)
		l.Kinematics.Angle[i] = float32(s.Uniform(0, 2*math.Pi))
		l.Kinematics.Radius[i] = float32(s.Range(cfg.Radius))
		l.Kinematics.Speed[i] = float32(s.Range(cfg.Speed))
		l.Kinematics.Offset[i] = float32(s.Unit())

		if s.Chance(cfg.BloomChance) {
			l.Buffers.Sizes[i] = float32(s.Range(cfg.BloomSize))
		} else {
			l.Buffers.Sizes[i] = float32(s.Range(cfg.PetalSize))
		}
	}
	return l
}

// GenerateRain scatters rain streaks above the visible volume.
func GenerateRain(cfg config.RainConfig, s *Sampler) AmbientLayer {
	n := cfg.Count
	l := newAmbient(n)
	l.Kinematics.Speed = make([]float32, n)

	for i := 0; i < n; i++ {
		x, y, z := s.InBox(cfg.Spawn)
		l.place(i, x, y, z)
		l.Kinematics.Speed[i] = float32(s.Range(cfg.Speed))
	}
	return l
}
