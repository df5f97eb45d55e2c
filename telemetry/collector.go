package telemetry

import (
	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/gesture"
)

// Collector accumulates per-frame events within time windows and produces
// WindowStats.
type Collector struct {
	windowSec float64
	runID     string

	// Current window
	windowStart      float64
	windowStartFrame int64

	frames      int
	hand        int
	open        int
	trigger     int
	onsets      int
	handsLost   int
	recycled    [components.NumLayers]int
	steps       []float64
	clamped     int
	prevTrigger bool
	prevHand    bool

	trackerBase gesture.TrackerStats
}

// NewCollector creates a collector flushing every windowSec seconds of scene
// time. runID tags every produced row.
func NewCollector(windowSec float64, runID string) *Collector {
	if windowSec <= 0 {
		windowSec = 5
	}
	return &Collector{
		windowSec: windowSec,
		runID:     runID,
		steps:     make([]float64, 0, 512),
	}
}

// RecordFrame records one scene update with its applied step.
func (c *Collector) RecordFrame(dt float64, clamped bool, g gesture.State) {
	c.frames++
	c.steps = append(c.steps, dt)
	if clamped {
		c.clamped++
	}
	if g.HandDetected {
		c.hand++
	} else if c.prevHand {
		c.handsLost++
	}
	if g.IsOpen {
		c.open++
	}
	if g.IsTrigger {
		c.trigger++
		if !c.prevTrigger {
			c.onsets++
		}
	}
	c.prevHand = g.HandDetected
	c.prevTrigger = g.IsTrigger
}

// RecordRecycled adds n recycled particles for a layer.
func (c *Collector) RecordRecycled(kind components.LayerKind, n int) {
	if kind < components.NumLayers {
		c.recycled[kind] += n
	}
}

// ShouldFlush returns true once the window has covered windowSec of scene time.
func (c *Collector) ShouldFlush(t float64) bool {
	return t-c.windowStart >= c.windowSec
}

// Flush produces a WindowStats and resets counters for the next window.
// tracker is the tracker's cumulative counters; the window reports the
// difference from the previous flush.
func (c *Collector) Flush(frame int64, t float64, tracker gesture.TrackerStats) WindowStats {
	var handFrac, openFrac, triggerFrac float64
	if c.frames > 0 {
		n := float64(c.frames)
		handFrac = float64(c.hand) / n
		openFrac = float64(c.open) / n
		triggerFrac = float64(c.trigger) / n
	}
	mean, std, p50, p95 := ComputeStepStats(c.steps)
	base := c.trackerBase

	stats := WindowStats{
		RunID:      c.runID,
		StartFrame: c.windowStartFrame,
		EndFrame:   frame,
		SimTimeSec: t,
		Frames:     c.frames,

		HandFrac:    handFrac,
		OpenFrac:    openFrac,
		TriggerFrac: triggerFrac,

		TriggerOnsets: c.onsets,
		HandsLost:     c.handsLost,

		RoseStormRecycled:    c.recycled[components.LayerRoseStorm],
		ShootingStarRecycled: c.recycled[components.LayerShootingStar],
		FireflyRecycled:      c.recycled[components.LayerFirefly],
		RainRecycled:         c.recycled[components.LayerRain],

		DTMean:    mean,
		DTStd:     std,
		DTP50:     p50,
		DTP95:     p95,
		DTClamped: c.clamped,

		TrackerFrames:     tracker.Frames - base.Frames,
		TrackerDropped:    tracker.Dropped - base.Dropped,
		TrackerInferences: tracker.Inferences - base.Inferences,
		TrackerFailures:   tracker.Failures - base.Failures,
		TrackerInvalid:    tracker.Invalid - base.Invalid,
		TrackerDegenerate: tracker.Degenerate - base.Degenerate,
	}

	c.windowStart = t
	c.windowStartFrame = frame
	c.frames, c.hand, c.open, c.trigger = 0, 0, 0, 0
	c.onsets, c.handsLost, c.clamped = 0, 0, 0
	c.recycled = [components.NumLayers]int{}
	c.steps = c.steps[:0]
	c.trackerBase = tracker

	return stats
}

// RunID returns the identifier stamped on every row.
func (c *Collector) RunID() string {
	return c.runID
}
