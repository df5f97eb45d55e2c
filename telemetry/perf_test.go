package telemetry

import (
	"strings"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseAnimation)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseHeart)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration")
	}
	if stats.P50Frame <= 0 || stats.P95Frame < stats.P50Frame || stats.MaxFrame < stats.P95Frame {
		t.Errorf("quantiles out of order: p50=%v p95=%v max=%v", stats.P50Frame, stats.P95Frame, stats.MaxFrame)
	}
	if _, ok := stats.PhaseAvg[PhaseAnimation]; !ok {
		t.Error("expected animation phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseHeart]; !ok {
		t.Error("expected heart phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseRain)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrame <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.UpdatesPerSecond <= 0 {
		t.Error("expected positive updates per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseRain)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseRoseStorm)
		time.Sleep(2 * time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseRoseStorm] <= stats.PhasePct[PhaseRain] {
		t.Errorf("expected rose_storm (%v%%) > rain (%v%%)", stats.PhasePct[PhaseRoseStorm], stats.PhasePct[PhaseRain])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgFrame != 0 || stats.StdFrame != 0 {
		t.Error("expected zero timings for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_SingleSampleHasNoSpread(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.StartFrame()
	pc.EndFrame()

	if got := pc.Stats().StdFrame; got != 0 {
		t.Errorf("std of one sample = %v, want 0", got)
	}
}

func TestPerfCollector_PresentTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()
	if stats.PresentInterval < 15*time.Millisecond {
		t.Errorf("expected present interval >= 15ms, got %v", stats.PresentInterval)
	}
	if stats.FPS <= 0 || stats.FPS > 65 {
		t.Errorf("expected FPS in (0, 65] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgFrame: 1500 * time.Microsecond,
		PhasePct: map[string]float64{PhaseHeart: 62.5, PhaseRain: 1.25},
	}
	row := s.ToCSV("run", 600)

	if row.RunID != "run" || row.Frame != 600 || row.AvgFrameUS != 1500 {
		t.Errorf("row header fields = %+v", row)
	}
	if row.HeartPct != 62.5 || row.RainPct != 1.25 || row.FireflyPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}

func TestPerfStatsLogValueSkipsIdlePhases(t *testing.T) {
	s := PerfStats{
		PhasePct: map[string]float64{PhaseHeart: 50, PhaseRain: 0.01},
	}
	v := s.LogValue().String()
	if !strings.Contains(v, "heart_pct") {
		t.Errorf("log value %q missing heart_pct", v)
	}
	if strings.Contains(v, "rain_pct") {
		t.Errorf("log value %q should omit idle rain phase", v)
	}
}
