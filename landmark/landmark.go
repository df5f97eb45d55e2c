// Package landmark defines the hand-tracking boundary: landmark points, the
// camera and detector contracts, and concrete sources (recorded landmark
// replays and synthetic poses).
package landmark

import (
	"context"
	"math"
	"time"
)

// NumLandmarks is the number of keypoints in a tracked hand.
const NumLandmarks = 21

// Landmark indices used by the gesture classifier.
const (
	Wrist     = 0
	ThumbIP   = 3
	ThumbTip  = 4
	IndexMCP  = 5
	IndexTip  = 8
	MiddleMCP = 9
	MiddleTip = 12
	RingMCP   = 13
	RingTip   = 16
	PinkyMCP  = 17
	PinkyTip  = 20
)

// Point is a landmark in normalized image space: X and Y in [0,1] with Y
// growing downward, Z a relative depth.
type Point struct {
	X, Y, Z float64
}

// Dist2D returns the planar distance between two points, ignoring depth.
func Dist2D(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Hand is an ordered landmark sequence for one detected hand.
type Hand []Point

// Valid reports whether the hand carries the full landmark set with finite
// image coordinates.
func (h Hand) Valid() bool {
	if len(h) != NumLandmarks {
		return false
	}
	for _, p := range h {
		if !finite(p.X) || !finite(p.Y) {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Frame is one camera capture handed to a Detector. Pixels is opaque to this
// package; replay detectors key on Seq instead.
type Frame struct {
	Seq    uint64
	At     time.Time
	Width  int
	Height int
	Pixels []byte
}

// Camera produces frames at its own cadence.
type Camera interface {
	// Open acquires the device. Frames is valid only after Open succeeds.
	Open(ctx context.Context) error
	// Frames returns the capture channel. It is closed when the camera stops.
	Frames() <-chan Frame
	// Close releases the device. Safe to call more than once.
	Close() error
}

// Detector turns a frame into zero or more hands. Implementations may be slow;
// callers run them off the render loop.
type Detector interface {
	Detect(ctx context.Context, f Frame) ([]Hand, error)
}
