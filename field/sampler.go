// Package field generates the particle populations: the three heart layers
// and the four ambient layers. Generation runs once at startup; every array
// it allocates is reused in place for the life of the scene.
package field

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pthm-cable/heartstorm/config"
)

// Sampler is the seeded randomness source shared by generation and recycling.
// It is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler seeded with seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Rand exposes the underlying generator.
func (s *Sampler) Rand() *rand.Rand {
	return s.rng
}

// Unit returns a value in [0, 1).
func (s *Sampler) Unit() float64 {
	return s.rng.Float64()
}

// Uniform returns a value in [lo, hi).
func (s *Sampler) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rng.Float64()
}

// Range draws from r.
func (s *Sampler) Range(r config.Range) float64 {
	return s.Uniform(r.Min, r.Max)
}

// InBox draws a point uniformly from b.
func (s *Sampler) InBox(b config.Box) (x, y, z float64) {
	x = s.Uniform(b.Min[0], b.Max[0])
	y = s.Uniform(b.Min[1], b.Max[1])
	z = s.Uniform(b.Min[2], b.Max[2])
	return x, y, z
}

// Stream returns a uniform distribution on [lo, hi) drawing from this
// sampler, for bulk generation loops.
func (s *Sampler) Stream(lo, hi float64) distuv.Uniform {
	return distuv.Uniform{Min: lo, Max: hi, Src: s.rng}
}

// Chance returns true with probability p.
func (s *Sampler) Chance(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.rng}.Rand() == 1
}
