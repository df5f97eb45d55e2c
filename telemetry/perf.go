package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the frame update.
const (
	PhaseAnimation    = "animation"
	PhaseHeart        = "heart"
	PhaseRoseStorm    = "rose_storm"
	PhaseShootingStar = "shooting_star"
	PhaseFirefly      = "firefly"
	PhaseRain         = "rain"
	PhaseMaterial     = "material"
	PhaseTelemetry    = "telemetry"
)

// Phases lists every phase in frame order.
var Phases = []string{
	PhaseAnimation, PhaseHeart, PhaseRoseStorm, PhaseShootingStar,
	PhaseFirefly, PhaseRain, PhaseMaterial, PhaseTelemetry,
}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks update timings over a rolling window of frames.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	frameStart    time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock presentation interval (viewer only)
	lastPresent     time.Time
	presentInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartFrame begins timing a new update.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame finishes timing the current update and records the sample.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordPresent records the interval between presented frames.
func (p *PerfCollector) RecordPresent() {
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentInterval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrame time.Duration
	StdFrame time.Duration
	P50Frame time.Duration
	P95Frame time.Duration
	MaxFrame time.Duration

	// Phase breakdown
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average frame, in percent

	UpdatesPerSecond float64

	PresentInterval time.Duration
	FPS             float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.presentInterval > 0 {
		fps = float64(time.Second) / float64(p.presentInterval)
	}

	out := PerfStats{
		PhaseAvg:        make(map[string]time.Duration),
		PhasePct:        make(map[string]float64),
		PresentInterval: p.presentInterval,
		FPS:             fps,
	}
	if p.sampleCount == 0 {
		return out
	}

	frames := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	var maxFrame time.Duration
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		frames[i] = float64(s.FrameDuration)
		if s.FrameDuration > maxFrame {
			maxFrame = s.FrameDuration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	mean, std := stat.MeanStdDev(frames, nil)
	if p.sampleCount < 2 {
		std = 0
	}
	out.AvgFrame = time.Duration(mean)
	out.StdFrame = time.Duration(std)
	out.P50Frame = time.Duration(Quantile(frames, 0.5))
	out.P95Frame = time.Duration(Quantile(frames, 0.95))
	out.MaxFrame = maxFrame

	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		out.PhaseAvg[phase] = avg
		if mean > 0 {
			out.PhasePct[phase] = float64(avg) / mean * 100
		}
	}
	if mean > 0 {
		out.UpdatesPerSecond = float64(time.Second) / mean
	}
	return out
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p50_frame_us", s.P50Frame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("updates_per_sec", s.UpdatesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	RunID           string  `csv:"run_id"`
	Frame           int64   `csv:"frame"`
	AvgFrameUS      int64   `csv:"avg_frame_us"`
	StdFrameUS      int64   `csv:"std_frame_us"`
	P50FrameUS      int64   `csv:"p50_frame_us"`
	P95FrameUS      int64   `csv:"p95_frame_us"`
	MaxFrameUS      int64   `csv:"max_frame_us"`
	UpdatesPerSec   float64 `csv:"updates_per_sec"`
	FPS             float64 `csv:"fps"`
	AnimationPct    float64 `csv:"animation_pct"`
	HeartPct        float64 `csv:"heart_pct"`
	RoseStormPct    float64 `csv:"rose_storm_pct"`
	ShootingStarPct float64 `csv:"shooting_star_pct"`
	FireflyPct      float64 `csv:"firefly_pct"`
	RainPct         float64 `csv:"rain_pct"`
	MaterialPct     float64 `csv:"material_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV row.
func (s PerfStats) ToCSV(runID string, frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		RunID:           runID,
		Frame:           frame,
		AvgFrameUS:      s.AvgFrame.Microseconds(),
		StdFrameUS:      s.StdFrame.Microseconds(),
		P50FrameUS:      s.P50Frame.Microseconds(),
		P95FrameUS:      s.P95Frame.Microseconds(),
		MaxFrameUS:      s.MaxFrame.Microseconds(),
		UpdatesPerSec:   s.UpdatesPerSecond,
		FPS:             s.FPS,
		AnimationPct:    s.PhasePct[PhaseAnimation],
		HeartPct:        s.PhasePct[PhaseHeart],
		RoseStormPct:    s.PhasePct[PhaseRoseStorm],
		ShootingStarPct: s.PhasePct[PhaseShootingStar],
		FireflyPct:      s.PhasePct[PhaseFirefly],
		RainPct:         s.PhasePct[PhaseRain],
		MaterialPct:     s.PhasePct[PhaseMaterial],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
