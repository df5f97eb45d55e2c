// Package renderer draws scene layers as camera-facing sprites with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/scene"
	"github.com/pthm-cable/heartstorm/sprite"
)

// Renderer owns the GPU resources for one window: a texture per sprite kind
// and a persistent render target that keeps the motion trails.
type Renderer struct {
	camera      rl.Camera3D
	trail       rl.RenderTexture2D
	textures    map[sprite.Kind]rl.Texture2D
	width       int32
	height      int32
	trailFade   float32
	spriteScale float32
}

// NewRenderer uploads the sprite textures. Must be called after rl.InitWindow.
func NewRenderer(cfg *config.Config, sprites *sprite.Provider) *Renderer {
	r := &Renderer{
		camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, float32(cfg.Screen.CameraZ)),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			float32(cfg.Screen.FOV),
			rl.CameraPerspective,
		),
		textures:    make(map[sprite.Kind]rl.Texture2D, len(sprite.Kinds())),
		trailFade:   float32(cfg.Screen.TrailFade),
		spriteScale: float32(cfg.Screen.SpriteScale),
	}

	for _, k := range sprite.Kinds() {
		img := rl.NewImageFromImage(sprites.Get(k))
		tex := rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		rl.GenTextureMipmaps(&tex)
		rl.SetTextureFilter(tex, rl.FilterBilinear)
		r.textures[k] = tex
	}

	r.resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	return r
}

// resize recreates the trail target for a new window size. Existing trails
// are discarded.
func (r *Renderer) resize(w, h int32) {
	if r.trail.ID != 0 {
		rl.UnloadRenderTexture(r.trail)
	}
	r.width, r.height = w, h
	r.trail = rl.LoadRenderTexture(w, h)

	rl.BeginTextureMode(r.trail)
	rl.ClearBackground(rl.Black)
	rl.EndTextureMode()
}

// TrailFade returns the opacity of the fade plane drawn each frame.
func (r *Renderer) TrailFade() float32 {
	return r.trailFade
}

// SetTrailFade sets the fade plane opacity. 1 disables trails.
func (r *Renderer) SetTrailFade(v float32) {
	r.trailFade = min(max(v, 0), 1)
}

// Draw fades the trail target and draws every layer into it. Heart layers are
// transformed by heart on the CPU so billboards keep facing the camera.
func (r *Renderer) Draw(layers []scene.LayerView, heart mgl32.Mat4) {
	if w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()); w != r.width || h != r.height {
		r.resize(w, h)
	}

	rl.BeginTextureMode(r.trail)
	rl.DrawRectangle(0, 0, r.width, r.height, rl.Fade(rl.Black, r.trailFade))

	rl.BeginMode3D(r.camera)
	rl.DisableDepthMask()
	for i := range layers {
		r.drawLayer(&layers[i], heart)
	}
	rl.EnableDepthMask()
	rl.EndMode3D()

	rl.EndTextureMode()
}

func (r *Renderer) drawLayer(v *scene.LayerView, heart mgl32.Mat4) {
	mat := v.Material
	if mat.Opacity <= 0 {
		return
	}
	tex, ok := r.textures[mat.Sprite]
	if !ok {
		return
	}

	if mat.Blend == components.BlendAdditive {
		rl.BeginBlendMode(rl.BlendAdditive)
	} else {
		rl.BeginBlendMode(rl.BlendAlpha)
	}
	defer rl.EndBlendMode()

	tint := particleColor(mat.Tint[0], mat.Tint[1], mat.Tint[2], mat.Opacity)
	n := v.Len()
	for i := 0; i < n; i++ {
		p := mgl32.Vec3{v.Positions[i*3], v.Positions[i*3+1], v.Positions[i*3+2]}
		if v.Heart {
			p = heart.Mul4x1(p.Vec4(1)).Vec3()
		}

		c := tint
		if v.Colors != nil {
			c = particleColor(v.Colors[i*3], v.Colors[i*3+1], v.Colors[i*3+2], mat.Opacity)
		}

		size := mat.PointSize
		if v.Sizes != nil {
			size = v.Sizes[i]
		}
		if size <= 0 {
			continue
		}

		rl.DrawBillboard(r.camera, tex, rl.NewVector3(p[0], p[1], p[2]), size*r.spriteScale, c)
	}
}

// particleColor converts a normalized color and opacity to a tint.
func particleColor(red, green, blue, alpha float32) color.RGBA {
	return rl.ColorFromNormalized(rl.NewVector4(
		min(max(red, 0), 1),
		min(max(green, 0), 1),
		min(max(blue, 0), 1),
		min(max(alpha, 0), 1),
	))
}

// Present blits the trail target to the screen. Call between
// rl.BeginDrawing and rl.EndDrawing.
func (r *Renderer) Present() {
	rl.ClearBackground(rl.Black)
	// Render textures are stored bottom-up.
	src := rl.NewRectangle(0, 0, float32(r.trail.Texture.Width), -float32(r.trail.Texture.Height))
	rl.DrawTextureRec(r.trail.Texture, src, rl.NewVector2(0, 0), rl.White)
}

// Unload releases the GPU resources.
func (r *Renderer) Unload() {
	for k, tex := range r.textures {
		rl.UnloadTexture(tex)
		delete(r.textures, k)
	}
	if r.trail.ID != 0 {
		rl.UnloadRenderTexture(r.trail)
		r.trail = rl.RenderTexture2D{}
	}
}
