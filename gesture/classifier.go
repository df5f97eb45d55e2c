package gesture

import (
	"fmt"

	"github.com/pthm-cable/heartstorm/config"
	"github.com/pthm-cable/heartstorm/landmark"
)

// fingers lists (tip, knuckle) landmark pairs for the four non-thumb fingers.
var fingers = [4][2]int{
	{landmark.IndexTip, landmark.IndexMCP},
	{landmark.MiddleTip, landmark.MiddleMCP},
	{landmark.RingTip, landmark.RingMCP},
	{landmark.PinkyTip, landmark.PinkyMCP},
}

// Classifier maps landmark frames to gesture states. It holds only
// thresholds; history is passed in explicitly.
type Classifier struct {
	cfg config.GestureConfig
}

// NewClassifier creates a classifier with the given thresholds.
func NewClassifier(cfg config.GestureConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Config returns the thresholds in use.
func (c *Classifier) Config() config.GestureConfig {
	return c.cfg
}

// Classify computes the next state from the detected hands. Only the first
// hand is used. prev supplies the values that persist across frames: rotation
// targets when no hand is visible, IsOpen when the palm is degenerate, and the
// whole state when the frame is malformed.
//
// A non-nil error never invalidates the returned State: ErrInvalidFrame
// returns prev, ErrDegenerateGeometry returns a fresh state with IsOpen kept.
func (c *Classifier) Classify(hands []landmark.Hand, prev State) (State, error) {
	if len(hands) == 0 {
		return noHand(prev), nil
	}

	h := hands[0]
	if !h.Valid() {
		if len(h) != landmark.NumLandmarks {
			return prev, fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidFrame, len(h), landmark.NumLandmarks)
		}
		return prev, fmt.Errorf("%w: non-finite landmark coordinate", ErrInvalidFrame)
	}

	wrist := h[landmark.Wrist]
	palm := h[landmark.MiddleMCP]

	next := State{
		HandDetected:    true,
		IsTrigger:       c.isThumbsUp(h),
		RotationTargetY: (0.5 - palm.X) * c.cfg.RotationGainY,
		RotationTargetX: (palm.Y - 0.5) * c.cfg.RotationGainX,
	}

	palmScale := landmark.Dist2D(wrist, palm)
	if palmScale < c.cfg.DegenerateEpsilon {
		next.IsOpen = prev.IsOpen
		return next, fmt.Errorf("%w: palm scale %g", ErrDegenerateGeometry, palmScale)
	}

	pinch := landmark.Dist2D(h[landmark.ThumbTip], h[landmark.MiddleTip])
	next.IsOpen = pinch/palmScale > c.cfg.OpenThreshold
	return next, nil
}

// isThumbsUp reports the trigger pose: all four fingers curled, the thumb tip
// the highest fingertip on screen, and the thumb tip above its IP joint.
func (c *Classifier) isThumbsUp(h landmark.Hand) bool {
	wrist := h[landmark.Wrist]
	for _, f := range fingers {
		tip := landmark.Dist2D(h[f[0]], wrist)
		knuckle := landmark.Dist2D(h[f[1]], wrist)
		if !(tip < knuckle*c.cfg.CurlRatio) {
			return false
		}
	}

	thumb := h[landmark.ThumbTip]
	for _, f := range fingers {
		if !(thumb.Y < h[f[0]].Y) {
			return false
		}
	}

	return thumb.Y < h[landmark.ThumbIP].Y
}
