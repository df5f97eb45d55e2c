package field

import (
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/heartstorm/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Heart.Core.Count = 2000
	cfg.Heart.Shard.Count = 2000
	cfg.Heart.Petal.Count = 2000
	return cfg
}

func TestHeartCurve(t *testing.T) {
	tests := []struct {
		t      float64
		wx, wy float64
	}{
		{0, 0, 5},            // top notch: 13 - 5 - 2 - 1
		{math.Pi / 2, 16, 4}, // right lobe
		{math.Pi, 0, -17},    // bottom point: -13 - 5 + 2 - 1
		{3 * math.Pi / 2, -16, 4},
	}
	for _, tt := range tests {
		x, y := HeartCurve(tt.t)
		if math.Abs(x-tt.wx) > 1e-9 || math.Abs(y-tt.wy) > 1e-9 {
			t.Errorf("HeartCurve(%v) = (%v, %v), want (%v, %v)", tt.t, x, y, tt.wx, tt.wy)
		}
	}
}

func TestDepthTaper(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{0, 0},             // top notch: flat
		{math.Pi / 2, 0.5}, // lobes
		{math.Pi, 1},       // bottom point: deepest
		{3 * math.Pi / 2, 0.5},
		{2 * math.Pi, 0},
	}
	for _, tt := range tests {
		if got := DepthTaper(tt.t); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DepthTaper(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestGenerateHeartCounts(t *testing.T) {
	cfg := testConfig()
	layers := []config.HeartLayerConfig{cfg.Heart.Core, cfg.Heart.Shard, cfg.Heart.Petal}
	for _, lc := range layers {
		l := GenerateHeart(lc, cfg.Color(lc.InnerColor), cfg.Color(lc.OuterColor), NewSampler(1))
		if l.Buffers.Len() != lc.Count {
			t.Errorf("Len = %d, want %d", l.Buffers.Len(), lc.Count)
		}
		if len(l.Field.Base) != 3*lc.Count || len(l.Buffers.Colors) != 3*lc.Count ||
			len(l.Buffers.Sizes) != lc.Count || len(l.Buffers.BaseSizes) != lc.Count {
			t.Errorf("buffer lengths inconsistent for count %d", lc.Count)
		}
		if !slices.Equal(l.Field.Base, l.Buffers.Positions) {
			t.Error("positions should start at base")
		}
	}
}

func TestGenerateHeartBounds(t *testing.T) {
	cfg := testConfig()
	lc := cfg.Heart.Shard
	inner, outer := cfg.Color(lc.InnerColor), cfg.Color(lc.OuterColor)
	l := GenerateHeart(lc, inner, outer, NewSampler(7))

	// |curve| <= ~17.1, so |p| <= 17.1 * RadiusScale plus depth.
	limit := float32(18*lc.RadiusScale + lc.DepthRange*lc.RadiusScale)
	for i := 0; i < l.Buffers.Len(); i++ {
		for c := 0; c < 3; c++ {
			v := l.Field.Base[i*3+c]
			if math.IsNaN(float64(v)) || v > limit || v < -limit {
				t.Fatalf("particle %d axis %d = %v out of bounds", i, c, v)
			}
			col := l.Buffers.Colors[i*3+c]
			lo, hi := min(inner[c], outer[c]), max(inner[c], outer[c])
			if col < lo-1e-6 || col > hi+1e-6 {
				t.Fatalf("particle %d color %d = %v outside [%v,%v]", i, c, col, lo, hi)
			}
		}
		s := l.Buffers.Sizes[i]
		if s < float32(lc.SizeBase) || s > float32(lc.SizeBase+lc.SizeVariance) {
			t.Fatalf("particle %d size %v outside base+variance", i, s)
		}
	}
}

func TestGenerateHeartCoreIsCompressed(t *testing.T) {
	cfg := testConfig()
	core := GenerateHeart(cfg.Heart.Core, [3]float32{}, [3]float32{}, NewSampler(3))
	shard := GenerateHeart(cfg.Heart.Shard, [3]float32{}, [3]float32{}, NewSampler(3))

	extent := func(l HeartLayer) float64 {
		var m float64
		for i := 0; i < l.Buffers.Len(); i++ {
			x, y := float64(l.Field.Base[i*3]), float64(l.Field.Base[i*3+1])
			m = math.Max(m, math.Hypot(x, y))
		}
		return m
	}
	if c, s := extent(core), extent(shard); !(c < s) {
		t.Errorf("core extent %v should be inside shard extent %v", c, s)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig()
	a := GenerateHeart(cfg.Heart.Petal, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, NewSampler(42))
	b := GenerateHeart(cfg.Heart.Petal, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, NewSampler(42))
	if !slices.Equal(a.Field.Base, b.Field.Base) || !slices.Equal(a.Buffers.Sizes, b.Buffers.Sizes) {
		t.Error("same seed produced different hearts")
	}

	c := GenerateHeart(cfg.Heart.Petal, [3]float32{1, 0, 0}, [3]float32{0, 1, 0}, NewSampler(43))
	if slices.Equal(a.Field.Base, c.Field.Base) {
		t.Error("different seeds produced identical hearts")
	}

	ra := GenerateRoseStorm(cfg.RoseStorm, NewSampler(9))
	rb := GenerateRoseStorm(cfg.RoseStorm, NewSampler(9))
	if !slices.Equal(ra.Buffers.Positions, rb.Buffers.Positions) || !slices.Equal(ra.Kinematics.Angle, rb.Kinematics.Angle) {
		t.Error("same seed produced different rose storms")
	}
}

func inBox(b config.Box, p []float32) bool {
	for c := 0; c < 3; c++ {
		if float64(p[c]) < b.Min[c]-1e-3 || float64(p[c]) > b.Max[c]+1e-3 {
			return false
		}
	}
	return true
}

func TestGenerateAmbientSpawnVolumes(t *testing.T) {
	cfg := testConfig()
	s := NewSampler(5)

	tests := []struct {
		name  string
		layer AmbientLayer
		count int
		box   config.Box
	}{
		{"firefly", GenerateFireflies(cfg.Firefly, s), cfg.Firefly.Count, cfg.Firefly.Spawn},
		{"shooting_star", GenerateShootingStars(cfg.Meteor, s), cfg.Meteor.Count, cfg.Meteor.Spawn},
		{"rose_storm", GenerateRoseStorm(cfg.RoseStorm, s), cfg.RoseStorm.Count, cfg.RoseStorm.Spawn},
		{"rain", GenerateRain(cfg.Rain, s), cfg.Rain.Count, cfg.Rain.Spawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.layer.Buffers.Len() != tt.count {
				t.Fatalf("Len = %d, want %d", tt.layer.Buffers.Len(), tt.count)
			}
			if len(tt.layer.Kinematics.Speed) != tt.count {
				t.Fatalf("speeds = %d, want %d", len(tt.layer.Kinematics.Speed), tt.count)
			}
			for i := 0; i < tt.count; i++ {
				if !inBox(tt.box, tt.layer.Buffers.Positions[i*3:i*3+3]) {
					t.Fatalf("particle %d at %v outside spawn box", i, tt.layer.Buffers.Positions[i*3:i*3+3])
				}
			}
		})
	}
}

func TestGenerateRoseStormSizes(t *testing.T) {
	cfg := testConfig()
	l := GenerateRoseStorm(cfg.RoseStorm, NewSampler(11))

	blooms := 0
	for i, sz := range l.Buffers.Sizes {
		isBloom := float64(sz) >= cfg.RoseStorm.BloomSize.Min
		isPetal := float64(sz) >= cfg.RoseStorm.PetalSize.Min && float64(sz) <= cfg.RoseStorm.PetalSize.Max
		if !isBloom && !isPetal {
			t.Fatalf("petal %d size %v in neither range", i, sz)
		}
		if isBloom {
			blooms++
		}
		r := float64(l.Kinematics.Radius[i])
		if r < cfg.RoseStorm.Radius.Min || r > cfg.RoseStorm.Radius.Max {
			t.Fatalf("petal %d radius %v out of range", i, r)
		}
	}

	frac := float64(blooms) / float64(len(l.Buffers.Sizes))
	if math.Abs(frac-cfg.RoseStorm.BloomChance) > 0.03 {
		t.Errorf("bloom fraction %.3f, want about %.2f", frac, cfg.RoseStorm.BloomChance)
	}
}

func TestSamplerChance(t *testing.T) {
	s := NewSampler(1)
	for i := 0; i < 100; i++ {
		if s.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !s.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}
