// Package gesture turns hand landmarks into control signals for the scene.
//
// The Classifier is a pure function of (hands, previous state). The Tracker
// runs detection off the render loop with at most one inference in flight and
// publishes whole State snapshots through a Publisher, which the scene reads
// once per frame.
package gesture

import (
	"errors"
	"log/slog"
)

var (
	// ErrTrackerUnavailable means no camera could be acquired (missing device,
	// permission denied). The scene keeps running on the steady no-hand state.
	ErrTrackerUnavailable = errors.New("gesture: tracker unavailable")

	// ErrDegenerateGeometry means the palm scale was too small to normalize
	// distances. The returned State is still usable; IsOpen is carried over.
	ErrDegenerateGeometry = errors.New("gesture: degenerate palm geometry")

	// ErrInvalidFrame means the first hand did not carry the full landmark set.
	// The previous State is returned unchanged.
	ErrInvalidFrame = errors.New("gesture: invalid landmark frame")
)

// State is one snapshot of the gesture signals.
type State struct {
	HandDetected    bool
	IsOpen          bool
	IsTrigger       bool
	RotationTargetX float64 // pitch target, radians
	RotationTargetY float64 // yaw target, radians
}

// DefaultState is the state before any frame has been classified.
func DefaultState() State {
	return State{IsOpen: true}
}

// noHand returns the steady state for frames without hands. Rotation targets
// hold their last value.
func noHand(prev State) State {
	return State{
		HandDetected:    false,
		IsOpen:          true,
		IsTrigger:       false,
		RotationTargetX: prev.RotationTargetX,
		RotationTargetY: prev.RotationTargetY,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("hand", s.HandDetected),
		slog.Bool("open", s.IsOpen),
		slog.Bool("trigger", s.IsTrigger),
		slog.Float64("rot_x", s.RotationTargetX),
		slog.Float64("rot_y", s.RotationTargetY),
	)
}
