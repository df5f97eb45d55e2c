package scene

import (
	"fmt"
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/field"
	"github.com/pthm-cable/heartstorm/sprite"
)

// LayerView exposes one layer to a renderer. The slices alias the live
// buffers and are rewritten in place by every Update; Colors is nil for
// layers drawn with a uniform tint and Sizes is nil for layers drawn at a
// uniform point size.
type LayerView struct {
	Kind      components.LayerKind
	Name      string
	Positions []float32
	Colors    []float32
	Sizes     []float32
	Material  components.Material
	Heart     bool // drawn under HeartTransform
}

// Len returns the particle count.
func (v LayerView) Len() int {
	return len(v.Positions) / 3
}

// spawnLayers generates every layer in a fixed order and creates its entity.
func (s *Scene) spawnLayers() error {
	cfg := s.cfg

	hearts := []struct {
		kind components.LayerKind
		cfg  config.HeartLayerConfig
	}{
		{components.LayerCore, cfg.Heart.Core},
		{components.LayerShard, cfg.Heart.Shard},
		{components.LayerPetal, cfg.Heart.Petal},
	}
	for _, h := range hearts {
		mat, err := heartMaterial(h.cfg)
		if err != nil {
			return fmt.Errorf("%s layer: %w", h.kind, err)
		}
		l := field.GenerateHeart(h.cfg, cfg.Color(h.cfg.InnerColor), cfg.Color(h.cfg.OuterColor), s.sampler)
		layer := components.Layer{Kind: h.kind, Name: h.kind.String()}
		s.entities[h.kind] = s.heartMapper.NewEntity(&layer, &l.Buffers, &l.Field, &mat)
	}

	s.spawnAmbient(components.LayerFirefly, field.GenerateFireflies(cfg.Firefly, s.sampler), components.Material{
		Sprite:    sprite.Glow,
		Blend:     components.BlendAdditive,
		Opacity:   float32(cfg.Firefly.Opacity),
		Tint:      cfg.Color(cfg.Firefly.Color),
		PointSize: float32(cfg.Firefly.BaseSize),
	})
	s.spawnAmbient(components.LayerShootingStar, field.GenerateShootingStars(cfg.Meteor, s.sampler), components.Material{
		Sprite:    sprite.Meteor,
		Blend:     components.BlendAdditive,
		Opacity:   float32(cfg.Meteor.Opacity),
		Tint:      cfg.Color(cfg.Meteor.Color),
		PointSize: float32(cfg.Meteor.Size),
	})
	// Hidden until the first trigger.
	s.spawnAmbient(components.LayerRoseStorm, field.GenerateRoseStorm(cfg.RoseStorm, s.sampler), components.Material{
		Sprite:    sprite.Petal,
		Blend:     components.BlendNormal,
		Opacity:   0,
		Tint:      cfg.Color(cfg.RoseStorm.Color),
		PointSize: float32(cfg.RoseStorm.PetalSize.Max),
	})
	s.spawnAmbient(components.LayerRain, field.GenerateRain(cfg.Rain, s.sampler), components.Material{
		Sprite:    sprite.Shard,
		Blend:     components.BlendAdditive,
		Opacity:   float32(cfg.Rain.Opacity),
		Tint:      cfg.Color(cfg.Rain.Color),
		PointSize: float32(cfg.Rain.Size),
	})
	return nil
}

func (s *Scene) spawnAmbient(kind components.LayerKind, l field.AmbientLayer, mat components.Material) {
	layer := components.Layer{Kind: kind, Name: kind.String()}
	rec := components.Recycler{}
	s.entities[kind] = s.ambientMapper.NewEntity(&layer, &l.Buffers, &l.Kinematics, &mat, &rec)
}

func heartMaterial(c config.HeartLayerConfig) (components.Material, error) {
	k, err := sprite.ParseKind(c.Sprite)
	if err != nil {
		return components.Material{}, err
	}
	return components.Material{
		Sprite:    k,
		Blend:     components.BlendAdditive,
		Opacity:   float32(c.Opacity),
		Tint:      [3]float32{1, 1, 1},
		PointSize: float32(c.SizeBase),
	}, nil
}

// updateMaterials fades the rose storm in while triggered and out otherwise.
// A trigger change restarts the fade from the current opacity.
func (s *Scene) updateMaterials(dt float64, trigger bool) {
	mat := s.materialMap.Get(s.entities[components.LayerRoseStorm])
	if mat == nil {
		return
	}

	if trigger != s.roseActive {
		s.roseActive = trigger
		var target float32
		if trigger {
			target = 1
		}
		if fade := s.cfg.Easing.RoseFade; fade > 0 {
			s.roseFade = gween.New(mat.Opacity, target, float32(fade), ease.OutQuad)
		} else {
			mat.Opacity = target
			s.roseFade = nil
		}
	}

	if s.roseFade != nil {
		v, done := s.roseFade.Update(float32(dt))
		mat.Opacity = v
		if done {
			s.roseFade = nil
		}
	}
}

// Layers returns a view of every layer in draw order (heart layers first,
// then ambient layers by kind). The returned slice is reused by the next call.
func (s *Scene) Layers() []LayerView {
	s.views = s.views[:0]

	query := s.viewFilter.Query()
	for query.Next() {
		layer, buf, mat := query.Get()
		v := LayerView{
			Kind:      layer.Kind,
			Name:      layer.Name,
			Positions: buf.Positions,
			Colors:    buf.Colors,
			Sizes:     buf.Sizes,
			Material:  *mat,
			Heart:     layer.Kind.IsHeart(),
		}
		s.views = append(s.views, v)
	}

	slices.SortFunc(s.views, func(a, b LayerView) int {
		return int(a.Kind) - int(b.Kind)
	})
	return s.views
}

// Counts returns the particle count of every layer, indexed by kind.
func (s *Scene) Counts() [components.NumLayers]int {
	var counts [components.NumLayers]int
	query := s.viewFilter.Query()
	for query.Next() {
		layer, buf, _ := query.Get()
		counts[layer.Kind] = buf.Len()
	}
	return counts
}

// Recycled returns the total particles recycled per layer since creation.
func (s *Scene) Recycled() [components.NumLayers]uint64 {
	var out [components.NumLayers]uint64
	query := s.ambientFilter.Query()
	for query.Next() {
		layer, _, _, rec := query.Get()
		out[layer.Kind] = rec.Total
	}
	return out
}
