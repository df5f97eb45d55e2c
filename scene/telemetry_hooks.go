package scene

import (
	"log/slog"

	"github.com/pthm-cable/heartstorm/components"
	"github.com/pthm-cable/heartstorm/gesture"
	"github.com/pthm-cable/heartstorm/telemetry"
)

// flushTelemetry emits the stats window once it has covered its duration.
func (s *Scene) flushTelemetry() {
	if !s.collector.ShouldFlush(s.t) {
		return
	}

	var tracker gesture.TrackerStats
	if s.trackerStats != nil {
		tracker = s.trackerStats()
	}

	stats := s.collector.Flush(s.frame, s.t, tracker)
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		slog.Info("perf", "perf", perfStats)
	}

	if s.output != nil {
		if err := s.output.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := s.output.WritePerf(perfStats, s.frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// recordEvents emits the gesture transitions between two frames.
func (s *Scene) recordEvents(prev, g gesture.State) {
	s.transitions = telemetry.AppendTransitions(s.transitions[:0], prev, g)
	if len(s.transitions) == 0 {
		return
	}

	s.events = s.events[:0]
	for _, typ := range s.transitions {
		ev := telemetry.NewEvent(s.collector.RunID(), s.frame, s.t, typ)
		s.events = append(s.events, ev)
		if s.eventCallback != nil {
			s.eventCallback(ev)
		}
	}

	if err := s.output.WriteEvents(s.events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
}

// Snapshot captures the control state of the current frame.
func (s *Scene) Snapshot() *telemetry.Snapshot {
	counts := s.Counts()
	recycled := s.Recycled()

	snap := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RunID:    s.collector.RunID(),
		Seed:     s.seed,
		Frame:    s.frame,
		Time:     s.t,
		Gesture:  s.gesture,
		Anim:     s.anim,
		Counts:   make(map[string]int, components.NumLayers),
		Recycled: make(map[string]uint64),
	}
	for k := components.LayerKind(0); k < components.NumLayers; k++ {
		snap.Counts[k.String()] = counts[k]
		if !k.IsHeart() {
			snap.Recycled[k.String()] = recycled[k]
		}
	}
	return snap
}
