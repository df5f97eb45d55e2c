package landmark

import "fmt"

// Pose is a canonical hand shape for synthetic landmark frames.
type Pose uint8

const (
	PoseOpen     Pose = iota // flat palm, fingers spread upward
	PoseFist                 // fingers curled, thumb tucked under the index tip
	PoseThumbsUp             // fingers curled, thumb extended upward
)

// String returns the pose name.
func (p Pose) String() string {
	switch p {
	case PoseOpen:
		return "open"
	case PoseFist:
		return "fist"
	case PoseThumbsUp:
		return "thumbs_up"
	default:
		return fmt.Sprintf("pose(%d)", uint8(p))
	}
}

// ParsePose parses a pose name.
func ParsePose(s string) (Pose, error) {
	switch s {
	case "open":
		return PoseOpen, nil
	case "fist":
		return PoseFist, nil
	case "thumbs_up":
		return PoseThumbsUp, nil
	}
	return 0, fmt.Errorf("unknown pose %q", s)
}

// Offsets are in palm units relative to the middle knuckle; the wrist sits one
// palm unit below it, so the synthesized palm scale equals the scale argument.
var poseOffsets = map[Pose][NumLandmarks][2]float64{
	PoseOpen: {
		{0, 1},
		{-0.35, 0.75}, {-0.6, 0.5}, {-0.8, 0.3}, {-0.95, 0.1},
		{-0.3, 0.05}, {-0.35, -0.4}, {-0.37, -0.65}, {-0.38, -0.85},
		{0, 0}, {0, -0.5}, {0, -0.75}, {0, -0.95},
		{0.25, 0.05}, {0.28, -0.4}, {0.3, -0.65}, {0.3, -0.85},
		{0.45, 0.15}, {0.5, -0.2}, {0.53, -0.42}, {0.55, -0.6},
	},
	PoseFist: {
		{0, 1},
		{-0.35, 0.75}, {-0.5, 0.6}, {-0.4, 0.55}, {-0.15, 0.5},
		{-0.3, 0.05}, {-0.35, -0.15}, {-0.3, 0.2}, {-0.25, 0.38},
		{0, 0}, {0, -0.2}, {0.02, 0.2}, {0.05, 0.4},
		{0.25, 0.05}, {0.27, -0.12}, {0.26, 0.22}, {0.25, 0.4},
		{0.45, 0.15}, {0.47, 0}, {0.44, 0.3}, {0.4, 0.45},
	},
	PoseThumbsUp: {
		{0, 1},
		{-0.35, 0.75}, {-0.45, 0.35}, {-0.45, -0.2}, {-0.45, -0.6},
		{-0.3, 0.05}, {-0.35, -0.15}, {-0.3, 0.2}, {-0.25, 0.38},
		{0, 0}, {0, -0.2}, {0.02, 0.2}, {0.05, 0.4},
		{0.25, 0.05}, {0.27, -0.12}, {0.26, 0.22}, {0.25, 0.4},
		{0.45, 0.15}, {0.47, 0}, {0.44, 0.3}, {0.4, 0.45},
	},
}

// Synth builds a hand in the given pose with the middle knuckle at (cx, cy)
// and a palm (wrist to middle knuckle) of length scale.
func Synth(p Pose, cx, cy, scale float64) Hand {
	offsets, ok := poseOffsets[p]
	if !ok {
		offsets = poseOffsets[PoseOpen]
	}
	h := make(Hand, NumLandmarks)
	for i, o := range offsets {
		h[i] = Point{X: cx + o[0]*scale, Y: cy + o[1]*scale}
	}
	return h
}
