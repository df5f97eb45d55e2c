package landmark

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScriptStep holds one pose for a number of frames. Absent steps emit frames
// without hands.
type ScriptStep struct {
	Pose   Pose
	Frames int
	Absent bool
}

// DefaultScript cycles through every gesture the scene reacts to.
const DefaultScript = "open:90,fist:60,open:45,thumbs_up:90,none:45"

// ParseScript parses a comma separated list of pose:frames steps. The pose
// "none" produces frames without hands.
func ParseScript(s string) ([]ScriptStep, error) {
	var steps []ScriptStep
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, count, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("script step %q: expected pose:frames", part)
		}
		n, err := strconv.Atoi(count)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("script step %q: invalid frame count", part)
		}
		if name == "none" {
			steps = append(steps, ScriptStep{Frames: n, Absent: true})
			continue
		}
		p, err := ParsePose(name)
		if err != nil {
			return nil, fmt.Errorf("script step %q: %w", part, err)
		}
		steps = append(steps, ScriptStep{Pose: p, Frames: n})
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty script")
	}
	return steps, nil
}

// BuildScript expands steps into landmark frames. The hand sways around the
// image center with the given amplitude so the rotation targets move; sway
// completes one cycle every period frames.
func BuildScript(steps []ScriptStep, scale, sway float64, period int) [][]Hand {
	if period <= 0 {
		period = 120
	}
	var frames [][]Hand
	for _, st := range steps {
		for i := 0; i < st.Frames; i++ {
			if st.Absent {
				frames = append(frames, nil)
				continue
			}
			phase := 2 * math.Pi * float64(len(frames)) / float64(period)
			cx := 0.5 + sway*math.Sin(phase)
			cy := 0.5 + 0.5*sway*math.Cos(phase)
			frames = append(frames, []Hand{Synth(st.Pose, cx, cy, scale)})
		}
	}
	return frames
}
