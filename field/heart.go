package field

import (
	"math"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
)

// HeartLayer is one generated heart population.
type HeartLayer struct {
	Buffers components.Buffers
	Field   components.HeartField
}

// HeartCurve returns the planar heart outline at parameter t in [0, 2π).
// The top notch sits at t = 0, the bottom point at t = π, and the lobes peak
// near t = π/2 and 3π/2.
func HeartCurve(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x, y
}

// DepthTaper scales the depth jitter at curve parameter t: 0 at the top notch,
// 1 at the bottom point, linear in between.
func DepthTaper(t float64) float64 {
	return 1 - math.Abs(t-math.Pi)/math.Pi
}

// GenerateHeart builds a heart layer of exactly cfg.Count particles.
//
// Each particle picks a curve parameter t and a radial factor U^Exponent,
// then scales its curve point from the origin. The depth jitter vanishes at
// the top notch (t = 0) and is widest at the bottom point (t = π). Exponents
// below 1 push particles toward the outline, giving a shell with volumetric
// falloff instead of a thin contour.
func GenerateHeart(cfg config.HeartLayerConfig, inner, outer [3]float32, s *Sampler) HeartLayer {
	n := cfg.Count
	l := HeartLayer{
		Buffers: components.Buffers{
			Positions: make([]float32, 3*n),
			Colors:    make([]float32, 3*n),
			Sizes:     make([]float32, n),
			BaseSizes: make([]float32, n),
		},
		Field: components.HeartField{
			Base:             make([]float32, 3*n),
			SpreadMultiplier: float32(cfg.SpreadMultiplier),
		},
	}

	angle := s.Stream(0, 2*math.Pi)
	depth := s.Stream(-cfg.DepthRange, cfg.DepthRange)
	variance := s.Stream(0, cfg.SizeVariance)

	for i := 0; i < n; i++ {
		t := angle.Rand()
		r := math.Pow(s.Unit(), cfg.Exponent) * cfg.RadiusScale

		x, y := HeartCurve(t)
		z := depth.Rand() * DepthTaper(t)

		x *= cfg.Compress[0] * r
		y *= cfg.Compress[1] * r
		z *= cfg.Compress[2] * r

		ix := i * 3
		l.Field.Base[ix] = float32(x)
		l.Field.Base[ix+1] = float32(y)
		l.Field.Base[ix+2] = float32(z)
		copy(l.Buffers.Positions[ix:ix+3], l.Field.Base[ix:ix+3])

		mix := float32(1)
		if cfg.ColorRadius > 0 {
			mix = float32(math.Min(math.Sqrt(x*x+y*y+z*z)/cfg.ColorRadius, 1))
		}
		for c := 0; c < 3; c++ {
			l.Buffers.Colors[ix+c] = inner[c] + (outer[c]-inner[c])*mix
		}

		size := float32(cfg.SizeBase + variance.Rand())
		l.Buffers.Sizes[i] = size
		l.Buffers.BaseSizes[i] = size
	}
	return l
}
