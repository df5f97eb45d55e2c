package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/heartstorm/landmark"
)

// TrackerStats counts tracker activity since Run started.
type TrackerStats struct {
	Frames     uint64 // frames received from the camera
	Dropped    uint64 // frames discarded because an inference was in flight
	Inferences uint64 // detector calls completed
	Failures   uint64 // detector errors
	Invalid    uint64 // frames rejected by the classifier
	Degenerate uint64 // frames with a collapsed palm
}

// LogValue implements slog.LogValuer.
func (s TrackerStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frames", s.Frames),
		slog.Uint64("dropped", s.Dropped),
		slog.Uint64("inferences", s.Inferences),
		slog.Uint64("failures", s.Failures),
		slog.Uint64("invalid", s.Invalid),
		slog.Uint64("degenerate", s.Degenerate),
	)
}

// Tracker pulls frames from a camera, runs the detector with at most one
// inference in flight, classifies the result and publishes it.
// Frames arriving while an inference is running are dropped, never queued.
type Tracker struct {
	camera     landmark.Camera
	detector   landmark.Detector
	classifier *Classifier
	pub        *Publisher
	logger     *slog.Logger
	maxHands   int

	busy     atomic.Bool
	inflight sync.WaitGroup
	lastSeen atomic.Int64 // unix nanos of the last completed inference

	frames     atomic.Uint64
	dropped    atomic.Uint64
	inferences atomic.Uint64
	failures   atomic.Uint64
	invalid    atomic.Uint64
	degenerate atomic.Uint64
}

// NewTracker wires a tracker. maxHands <= 0 passes every detected hand to the
// classifier (which only looks at the first).
func NewTracker(cam landmark.Camera, det landmark.Detector, cls *Classifier, pub *Publisher, maxHands int, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		camera:     cam,
		detector:   det,
		classifier: cls,
		pub:        pub,
		logger:     logger,
		maxHands:   maxHands,
	}
}

// Run acquires the camera and processes frames until ctx is done or the
// camera stops. The camera is released and in-flight work is joined on every
// exit path.
//
// If the camera cannot be opened, the steady no-hand state is published and
// an error wrapping ErrTrackerUnavailable is returned.
func (t *Tracker) Run(ctx context.Context) error {
	if err := t.camera.Open(ctx); err != nil {
		t.pub.Publish(noHand(t.pub.Load()))
		return fmt.Errorf("%w: %w", ErrTrackerUnavailable, err)
	}
	defer func() {
		if err := t.camera.Close(); err != nil {
			t.logger.Warn("camera close failed", "error", err)
		}
	}()
	defer t.inflight.Wait()

	t.logger.Info("tracker started")
	frames := t.camera.Frames()
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopped", "stats", t.Stats())
			return nil
		case f, ok := <-frames:
			if !ok {
				t.logger.Info("camera stream ended", "stats", t.Stats())
				return nil
			}
			t.frames.Add(1)
			t.submit(ctx, f)
		}
	}
}

// submit starts an inference for f unless one is already running.
func (t *Tracker) submit(ctx context.Context, f landmark.Frame) {
	if !t.busy.CompareAndSwap(false, true) {
		t.dropped.Add(1)
		return
	}
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		defer t.busy.Store(false)
		t.infer(ctx, f)
	}()
}

func (t *Tracker) infer(ctx context.Context, f landmark.Frame) {
	hands, err := t.detector.Detect(ctx, f)
	t.inferences.Add(1)
	t.lastSeen.Store(time.Now().UnixNano())
	if err != nil {
		// The next frame supersedes this one; the published state stays.
		t.failures.Add(1)
		t.logger.Debug("detect failed", "seq", f.Seq, "error", err)
		return
	}
	if t.maxHands > 0 && len(hands) > t.maxHands {
		hands = hands[:t.maxHands]
	}

	// This goroutine is the only writer, so Load returns our own last publish.
	prev := t.pub.Load()
	next, err := t.classifier.Classify(hands, prev)
	switch {
	case errors.Is(err, ErrInvalidFrame):
		t.invalid.Add(1)
		t.logger.Debug("frame discarded", "seq", f.Seq, "error", err)
		return
	case errors.Is(err, ErrDegenerateGeometry):
		t.degenerate.Add(1)
		t.logger.Debug("degenerate palm", "seq", f.Seq, "error", err)
	}

	if next.HandDetected != prev.HandDetected || next.IsTrigger != prev.IsTrigger {
		t.logger.Info("gesture changed", "seq", f.Seq, "state", next)
	}
	t.pub.Publish(next)
}

// LastSeen returns when the last inference completed, or the zero time.
func (t *Tracker) LastSeen() time.Time {
	ns := t.lastSeen.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Stats returns a snapshot of the counters.
func (t *Tracker) Stats() TrackerStats {
	return TrackerStats{
		Frames:     t.frames.Load(),
		Dropped:    t.dropped.Load(),
		Inferences: t.inferences.Load(),
		Failures:   t.failures.Load(),
		Invalid:    t.invalid.Load(),
		Degenerate: t.degenerate.Load(),
	}
}
