package gesture

// Override forces gesture signals from the viewer, for demos without a camera
// or to pin a state while tuning. It is local to the viewer and never
// published back to the tracker.
type Override uint8

const (
	OverrideNone Override = iota
	OverrideOpen
	OverrideFist
	OverrideTrigger
	numOverrides
)

var overrideNames = [...]string{"auto", "open", "fist", "trigger"}

func (o Override) String() string {
	if int(o) < len(overrideNames) {
		return overrideNames[o]
	}
	return "unknown"
}

// Next cycles to the following override, wrapping back to OverrideNone.
func (o Override) Next() Override {
	return (o + 1) % numOverrides
}

// Apply returns g with the forced signals. Rotation targets pass through so
// the heart still follows a tracked hand. A forced state counts as a detected
// hand.
func (o Override) Apply(g State) State {
	switch o {
	case OverrideOpen:
		g.HandDetected = true
		g.IsOpen = true
		g.IsTrigger = false
	case OverrideFist:
		g.HandDetected = true
		g.IsOpen = false
		g.IsTrigger = false
	case OverrideTrigger:
		g.HandDetected = true
		g.IsTrigger = true
	}
	return g
}
