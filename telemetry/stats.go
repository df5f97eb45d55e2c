package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated scene statistics for one time window.
type WindowStats struct {
	RunID      string  `csv:"run_id"`
	StartFrame int64   `csv:"-"`
	EndFrame   int64   `csv:"frame"`
	SimTimeSec float64 `csv:"sim_time"`
	Frames     int     `csv:"frames"`

	// Fraction of frames in each gesture condition
	HandFrac    float64 `csv:"hand_frac"`
	OpenFrac    float64 `csv:"open_frac"`
	TriggerFrac float64 `csv:"trigger_frac"`

	// Edges during the window
	TriggerOnsets int `csv:"trigger_onsets"`
	HandsLost     int `csv:"hands_lost"`

	// Particles recycled during the window
	RoseStormRecycled    int `csv:"rose_storm_recycled"`
	ShootingStarRecycled int `csv:"shooting_star_recycled"`
	FireflyRecycled      int `csv:"firefly_recycled"`
	RainRecycled         int `csv:"rain_recycled"`

	// Frame step distribution, seconds
	DTMean    float64 `csv:"dt_mean"`
	DTStd     float64 `csv:"dt_std"`
	DTP50     float64 `csv:"dt_p50"`
	DTP95     float64 `csv:"dt_p95"`
	DTClamped int     `csv:"dt_clamped"`

	// Tracker counters accumulated during the window
	TrackerFrames     uint64 `csv:"tracker_frames"`
	TrackerDropped    uint64 `csv:"tracker_dropped"`
	TrackerInferences uint64 `csv:"tracker_inferences"`
	TrackerFailures   uint64 `csv:"tracker_failures"`
	TrackerInvalid    uint64 `csv:"tracker_invalid"`
	TrackerDegenerate uint64 `csv:"tracker_degenerate"`
}

// Quantile returns the empirical p-quantile of values, or 0 when empty.
// values is not modified.
func Quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeStepStats returns mean, standard deviation, median and 95th
// percentile of frame steps.
func ComputeStepStats(values []float64) (mean, std, p50, p95 float64) {
	switch len(values) {
	case 0:
		return 0, 0, 0, 0
	case 1:
		return values[0], 0, values[0], values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return mean, std, p50, p95
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.EndFrame),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Float64("hand_frac", s.HandFrac),
		slog.Float64("open_frac", s.OpenFrac),
		slog.Float64("trigger_frac", s.TriggerFrac),
		slog.Int("trigger_onsets", s.TriggerOnsets),
		slog.Int("hands_lost", s.HandsLost),
		slog.Int("rose_storm_recycled", s.RoseStormRecycled),
		slog.Int("shooting_star_recycled", s.ShootingStarRecycled),
		slog.Int("firefly_recycled", s.FireflyRecycled),
		slog.Int("rain_recycled", s.RainRecycled),
		slog.Float64("dt_mean", s.DTMean),
		slog.Float64("dt_p95", s.DTP95),
		slog.Int("dt_clamped", s.DTClamped),
		slog.Uint64("tracker_frames", s.TrackerFrames),
		slog.Uint64("tracker_dropped", s.TrackerDropped),
		slog.Uint64("tracker_failures", s.TrackerFailures),
		slog.Uint64("tracker_invalid", s.TrackerInvalid),
		slog.Uint64("tracker_degenerate", s.TrackerDegenerate),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
