// Package sprite generates the small white point-sprite images the renderer
// tints per layer. Images are rasterized once per kind and cached.
package sprite

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/vector"
)

// Size is the edge length of every sprite in pixels.
const Size = 64

// Kind identifies a sprite shape.
type Kind uint8

const (
	Shard  Kind = iota // eight-point diamond star
	Glow               // soft radial falloff
	Spark              // bright dot with a faint cross
	Petal              // asymmetric rose petal
	Meteor             // tapered diagonal streak with a bright head
	numKinds
)

// Kinds returns every sprite kind.
func Kinds() []Kind {
	return []Kind{Shard, Glow, Spark, Petal, Meteor}
}

var kindNames = [numKinds]string{"shard", "glow", "spark", "petal", "meteor"}

// String returns the kind name.
func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("sprite(%d)", uint8(k))
}

// ParseKind parses a sprite name as used in config files.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sprite %q", s)
}

// Provider rasterizes and caches sprites. Returned images are shared and
// must be treated as read-only.
type Provider struct {
	mu    sync.Mutex
	cache map[Kind]*image.RGBA
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{cache: make(map[Kind]*image.RGBA, numKinds)}
}

// Get returns the sprite for k, rasterizing it on first use.
// Unknown kinds fall back to Glow.
func (p *Provider) Get(k Kind) *image.RGBA {
	if k >= numKinds {
		k = Glow
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if img, ok := p.cache[k]; ok {
		return img
	}
	img := render(k)
	p.cache[k] = img
	return img
}

func render(k Kind) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	switch k {
	case Shard:
		drawShard(dst)
	case Glow:
		drawGlow(dst)
	case Spark:
		drawSpark(dst)
	case Petal:
		drawPetal(dst)
	case Meteor:
		drawMeteor(dst)
	}
	return dst
}

var (
	white     = image.NewUniform(color.White)
	halfWhite = image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 128})
)

func newRasterizer() *vector.Rasterizer {
	return vector.NewRasterizer(Size, Size)
}

func fill(dst *image.RGBA, r *vector.Rasterizer, src image.Image) {
	r.Draw(dst, dst.Bounds(), src, image.Point{})
}

// circle appends a closed circle approximated by four cubic arcs.
func circle(r *vector.Rasterizer, cx, cy, rad float32) {
	const k = 0.5522847
	c := rad * k
	r.MoveTo(cx+rad, cy)
	r.CubeTo(cx+rad, cy+c, cx+c, cy+rad, cx, cy+rad)
	r.CubeTo(cx-c, cy+rad, cx-rad, cy+c, cx-rad, cy)
	r.CubeTo(cx-rad, cy-c, cx-c, cy-rad, cx, cy-rad)
	r.CubeTo(cx+c, cy-rad, cx+rad, cy-c, cx+rad, cy)
	r.ClosePath()
}

func drawShard(dst *image.RGBA) {
	r := newRasterizer()
	r.MoveTo(32, 2)
	r.LineTo(40, 24)
	r.LineTo(62, 32)
	r.LineTo(40, 40)
	r.LineTo(32, 62)
	r.LineTo(24, 40)
	r.LineTo(2, 32)
	r.LineTo(24, 24)
	r.ClosePath()
	fill(dst, r, white)
}

func drawGlow(dst *image.RGBA) {
	g := &radialGradient{cx: 32, cy: 32, r: 32, stops: []stop{{0, 1}, {0.4, 0.2}, {1, 0}}}
	draw.Draw(dst, dst.Bounds(), g, image.Point{}, draw.Src)
}

func drawSpark(dst *image.RGBA) {
	r := newRasterizer()
	circle(r, 32, 32, 4)
	fill(dst, r, white)

	draw.Draw(dst, image.Rect(28, 0, 36, Size), halfWhite, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(0, 28, Size, 36), halfWhite, image.Point{}, draw.Over)
}

func drawPetal(dst *image.RGBA) {
	r := newRasterizer()
	r.MoveTo(32, 60)
	r.CubeTo(10, 50, 0, 20, 25, 10)
	r.CubeTo(40, 5, 50, 15, 32, 25) // fold
	r.CubeTo(45, 10, 64, 15, 55, 35)
	r.CubeTo(50, 50, 40, 55, 32, 60)
	r.ClosePath()

	// Alpha falls off toward the lower right for a little depth.
	g := &linearGradient{x0: 10, y0: 10, x1: 50, y1: 50, stops: []stop{{0, 0.9}, {1, 0.5}}}
	fill(dst, r, g)
}

func drawMeteor(dst *image.RGBA) {
	r := newRasterizer()
	r.MoveTo(60, 4)
	r.QuadTo(64, 0, 56, 12)
	r.LineTo(4, 60)
	r.LineTo(12, 56)
	r.ClosePath()
	tail := &linearGradient{x0: 60, y0: 4, x1: 4, y1: 60, stops: []stop{{0, 1}, {0.1, 0.9}, {1, 0}}}
	fill(dst, r, tail)

	r.Reset(Size, Size)
	circle(r, 58, 6, 4)
	fill(dst, r, white)
}

// stop is a gradient stop: position in [0,1] and alpha.
type stop struct {
	at, alpha float64
}

func sampleStops(stops []stop, t float64) float64 {
	if t <= stops[0].at {
		return stops[0].alpha
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].at {
			a, b := stops[i-1], stops[i]
			f := (t - a.at) / (b.at - a.at)
			return a.alpha + (b.alpha-a.alpha)*f
		}
	}
	return stops[len(stops)-1].alpha
}

func whiteAlpha(a float64) color.Color {
	return color.NRGBA{R: 255, G: 255, B: 255, A: uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))}
}

// radialGradient is a white image whose alpha depends on distance from (cx, cy).
type radialGradient struct {
	cx, cy, r float64
	stops     []stop
}

func (g *radialGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *radialGradient) Bounds() image.Rectangle { return image.Rect(0, 0, Size, Size) }
func (g *radialGradient) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy)
	return whiteAlpha(sampleStops(g.stops, d/g.r))
}

// linearGradient is a white image whose alpha varies along (x0,y0)->(x1,y1).
type linearGradient struct {
	x0, y0, x1, y1 float64
	stops          []stop
}

func (g *linearGradient) ColorModel() color.Model { return color.NRGBAModel }
func (g *linearGradient) Bounds() image.Rectangle { return image.Rect(0, 0, Size, Size) }
func (g *linearGradient) At(x, y int) color.Color {
	dx, dy := g.x1-g.x0, g.y1-g.y0
	t := ((float64(x)+0.5-g.x0)*dx + (float64(y)+0.5-g.y0)*dy) / (dx*dx + dy*dy)
	return whiteAlpha(sampleStops(g.stops, t))
}
