package renderer

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/systems"
	"github.com/pthm-cable/heartstorm/telemetry"
)

// HUDInfo is the per-frame data shown by the HUD.
type HUDInfo struct {
	Gesture  gesture.State
	Anim     systems.AnimState
	Tracker  gesture.TrackerStats
	LastSeen time.Time // zero when no inference has completed
	Perf     telemetry.PerfStats
	Counts   [components.NumLayers]int
	Time     float64
}

// HUD draws the debug overlay and owns the viewer-local controls.
type HUD struct {
	visible  bool
	override gesture.Override
	stale    time.Duration
}

// NewHUD creates a HUD. A tracker result older than stale is flagged.
func NewHUD(visible bool, stale time.Duration) *HUD {
	return &HUD{visible: visible, stale: stale}
}

// Override returns the gesture override selected in the HUD.
func (h *HUD) Override() gesture.Override {
	return h.override
}

// HandleInput processes keyboard shortcuts: H toggles the HUD, Space cycles
// the override.
func (h *HUD) HandleInput() {
	if rl.IsKeyPressed(rl.KeyH) {
		h.visible = !h.visible
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		h.override = h.override.Next()
	}
}

// Draw renders the overlay. Call between rl.BeginDrawing and rl.EndDrawing,
// after Renderer.Present.
func (h *HUD) Draw(r *Renderer, info HUDInfo) {
	if !h.visible {
		rl.DrawText("H: hud", 10, int32(rl.GetScreenHeight())-22, 14, rl.Gray)
		return
	}

	const (
		panelX     = 10
		panelY     = 10
		panelWidth = 300
		lineHeight = 18
	)

	rl.DrawRectangle(panelX-5, panelY-5, panelWidth, 420, rl.Fade(rl.Black, 0.6))

	y := int32(panelY)
	line := func(text string, col rl.Color) {
		rl.DrawText(text, panelX, y, 14, col)
		y += lineHeight
	}

	rl.DrawFPS(panelX+panelWidth-90, panelY)
	line("heartstorm", rl.White)
	line(fmt.Sprintf("t %.1fs", info.Time), rl.LightGray)
	y += 4

	g := info.Gesture
	line(fmt.Sprintf("hand %v  open %v  trigger %v", g.HandDetected, g.IsOpen, g.IsTrigger), rl.LightGray)
	line(fmt.Sprintf("target  x %+.2f  y %+.2f", g.RotationTargetX, g.RotationTargetY), rl.LightGray)

	a := info.Anim
	line(fmt.Sprintf("mode %s  explode %.2f  jump %.2f", a.Mode, a.Explode, a.Jump), rl.LightGray)
	line(fmt.Sprintf("beat %.3f  yaw %+.2f  pitch %+.2f", a.Beat, a.Yaw(), a.RotationX), rl.LightGray)
	y += 4

	ts := info.Tracker
	line(fmt.Sprintf("tracker frames %d  dropped %d", ts.Frames, ts.Dropped), rl.LightGray)
	line(fmt.Sprintf("infer %d  fail %d  invalid %d  degen %d", ts.Inferences, ts.Failures, ts.Invalid, ts.Degenerate), rl.LightGray)
	switch {
	case info.LastSeen.IsZero():
		line("tracker: waiting", rl.Yellow)
	case h.stale > 0 && time.Since(info.LastSeen) > h.stale:
		line(fmt.Sprintf("tracker: stale %.1fs", time.Since(info.LastSeen).Seconds()), rl.Red)
	}
	y += 4

	p := info.Perf
	line(fmt.Sprintf("update avg %s  p95 %s", p.AvgFrame.Round(time.Microsecond), p.P95Frame.Round(time.Microsecond)), rl.LightGray)
	for _, phase := range telemetry.Phases {
		if pct := p.PhasePct[phase]; pct > 0.1 {
			line(fmt.Sprintf("  %-14s %5.1f%%", phase, pct), rl.Gray)
		}
	}
	y += 4

	total := 0
	for k, n := range info.Counts {
		total += n
		line(fmt.Sprintf("  %-14s %6d", components.LayerKind(k), n), rl.Gray)
	}
	line(fmt.Sprintf("particles %d", total), rl.LightGray)
	y += 8

	if gui.Button(rl.NewRectangle(panelX, float32(y), 140, 22), "gesture: "+h.override.String()) {
		h.override = h.override.Next()
	}
	if gui.Button(rl.NewRectangle(panelX+150, float32(y), 130, 22), "hide hud") {
		h.visible = false
	}
	y += 30

	rl.DrawText("trail fade", panelX, y+4, 14, rl.Gray)
	r.SetTrailFade(gui.SliderBar(rl.NewRectangle(panelX+80, float32(y), 150, 20), "", fmt.Sprintf("%.2f", r.TrailFade()), r.TrailFade(), 0.02, 1))
}
