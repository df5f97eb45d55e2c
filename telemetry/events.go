package telemetry

import "github.com/pthm-cable/heartstorm/gesture"

// EventType identifies a gesture transition.
type EventType uint8

const (
	EventHandFound EventType = iota
	EventHandLost
	EventOpen
	EventClose
	EventTriggerOn
	EventTriggerOff
)

var eventNames = [...]string{
	EventHandFound:  "hand_found",
	EventHandLost:   "hand_lost",
	EventOpen:       "open",
	EventClose:      "close",
	EventTriggerOn:  "trigger_on",
	EventTriggerOff: "trigger_off",
}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// Event is one gesture transition observed by the scene.
type Event struct {
	RunID string    `csv:"run_id"`
	Frame int64     `csv:"frame"`
	Time  float64   `csv:"sim_time"`
	Type  EventType `csv:"-"`
	Name  string    `csv:"event"`
}

// NewEvent creates an event at the given frame.
func NewEvent(runID string, frame int64, t float64, typ EventType) Event {
	return Event{
		RunID: runID,
		Frame: frame,
		Time:  t,
		Type:  typ,
		Name:  typ.String(),
	}
}

// AppendTransitions appends the transition types between two snapshots to
// dst, in a fixed order.
func AppendTransitions(dst []EventType, prev, next gesture.State) []EventType {
	if next.HandDetected != prev.HandDetected {
		if next.HandDetected {
			dst = append(dst, EventHandFound)
		} else {
			dst = append(dst, EventHandLost)
		}
	}
	if next.IsOpen != prev.IsOpen {
		if next.IsOpen {
			dst = append(dst, EventOpen)
		} else {
			dst = append(dst, EventClose)
		}
	}
	if next.IsTrigger != prev.IsTrigger {
		if next.IsTrigger {
			dst = append(dst, EventTriggerOn)
		} else {
			dst = append(dst, EventTriggerOff)
		}
	}
	return dst
}
