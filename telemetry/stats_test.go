package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/gesture"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 unsorted", []float64{5, 1, 4, 2, 3}, 0.5, 3.0},
		{"p95", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, 0.95, 19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Quantile(tt.values, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Quantile(%v, %v) = %v, want %v", tt.values, tt.p, got, tt.want)
			}
		})
	}
}

func TestQuantileDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Quantile(values, 0.5)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestComputeStepStats(t *testing.T) {
	mean, std, p50, p95 := ComputeStepStats([]float64{0.01, 0.02, 0.03})
	if math.Abs(mean-0.02) > 1e-12 {
		t.Errorf("mean = %v, want 0.02", mean)
	}
	if math.Abs(std-0.01) > 1e-12 {
		t.Errorf("std = %v, want 0.01", std)
	}
	if p50 != 0.02 || p95 != 0.03 {
		t.Errorf("p50 = %v p95 = %v", p50, p95)
	}

	mean, std, _, _ = ComputeStepStats(nil)
	if mean != 0 || std != 0 {
		t.Error("empty steps should return zeros")
	}
}

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(1.0, "run-1")

	open := gesture.State{HandDetected: true, IsOpen: true}
	fist := gesture.State{HandDetected: true}
	thumbs := gesture.State{HandDetected: true, IsTrigger: true}
	none := gesture.DefaultState()

	seq := []gesture.State{open, fist, thumbs, thumbs, fist, thumbs, none, open}
	tm := 0.0
	for i, g := range seq {
		tm += 0.1
		c.RecordFrame(0.1, i == 0, g)
	}
	c.RecordRecycled(components.LayerRain, 4)
	c.RecordRecycled(components.LayerRain, 1)
	c.RecordRecycled(components.LayerRoseStorm, 7)

	if c.ShouldFlush(tm) {
		t.Fatalf("flush after %.1fs of a 1s window", tm)
	}
	if !c.ShouldFlush(1.0) {
		t.Fatal("window should flush at 1s")
	}

	stats := c.Flush(8, tm, gesture.TrackerStats{Frames: 20, Dropped: 5})

	if stats.RunID != "run-1" || stats.Frames != 8 || stats.EndFrame != 8 {
		t.Errorf("header = %+v", stats)
	}
	if stats.TriggerOnsets != 2 {
		t.Errorf("trigger onsets = %d, want 2", stats.TriggerOnsets)
	}
	if stats.HandsLost != 1 {
		t.Errorf("hands lost = %d, want 1", stats.HandsLost)
	}
	if math.Abs(stats.HandFrac-7.0/8) > 1e-12 || math.Abs(stats.TriggerFrac-3.0/8) > 1e-12 {
		t.Errorf("hand frac = %v trigger frac = %v", stats.HandFrac, stats.TriggerFrac)
	}
	// the no-hand state reports open
	if math.Abs(stats.OpenFrac-3.0/8) > 1e-12 {
		t.Errorf("open frac = %v, want 3/8", stats.OpenFrac)
	}
	if stats.RainRecycled != 5 || stats.RoseStormRecycled != 7 || stats.FireflyRecycled != 0 {
		t.Errorf("recycled = %+v", stats)
	}
	if stats.DTClamped != 1 || math.Abs(stats.DTMean-0.1) > 1e-12 {
		t.Errorf("dt stats = %+v", stats)
	}
	if stats.TrackerFrames != 20 || stats.TrackerDropped != 5 {
		t.Errorf("tracker = %d/%d", stats.TrackerFrames, stats.TrackerDropped)
	}
}

func TestCollectorResetsBetweenWindows(t *testing.T) {
	c := NewCollector(1.0, "run")
	c.RecordFrame(0.5, false, gesture.State{HandDetected: true, IsTrigger: true})
	c.RecordRecycled(components.LayerFirefly, 3)
	c.Flush(1, 1.0, gesture.TrackerStats{Frames: 30, Dropped: 10, Invalid: 1, Degenerate: 4})

	c.RecordFrame(0.5, false, gesture.State{HandDetected: true, IsTrigger: true})
	stats := c.Flush(2, 2.0, gesture.TrackerStats{Frames: 45, Dropped: 12, Invalid: 3, Degenerate: 9})

	if stats.StartFrame != 1 || stats.Frames != 1 {
		t.Errorf("window = %+v", stats)
	}
	// trigger held across the boundary is not a new onset
	if stats.TriggerOnsets != 0 {
		t.Errorf("onsets = %d, want 0", stats.TriggerOnsets)
	}
	if stats.FireflyRecycled != 0 {
		t.Errorf("recycle counters not reset: %d", stats.FireflyRecycled)
	}
	if stats.TrackerFrames != 15 || stats.TrackerDropped != 2 {
		t.Errorf("tracker deltas = %d/%d, want 15/2", stats.TrackerFrames, stats.TrackerDropped)
	}
	if stats.TrackerInvalid != 2 || stats.TrackerDegenerate != 5 {
		t.Errorf("invalid/degenerate deltas = %d/%d, want 2/5", stats.TrackerInvalid, stats.TrackerDegenerate)
	}
	if c.ShouldFlush(2.5) {
		t.Error("new window should start at the flush time")
	}
}
