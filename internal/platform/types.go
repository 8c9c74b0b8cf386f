package platform

import "time"

// RawKind identifies the physical event type delivered by the input tap.
type RawKind int

const (
	RawMouseDown RawKind = iota
	RawMouseUp
	RawKeyDown
	RawFlagsChanged
	RawScroll
)

// String returns the wire name for the raw kind.
func (k RawKind) String() string {
	switch k {
	case RawMouseDown:
		return "mouse_down"
	case RawMouseUp:
		return "mouse_up"
	case RawKeyDown:
		return "key_down"
	case RawFlagsChanged:
		return "flags_changed"
	case RawScroll:
		return "scroll_wheel"
	default:
		return "unknown"
	}
}

// IsMouse reports whether the kind is a mouse button event. Mouse events are
// processed synchronously on the capture path because interactive latency
// matters; everything else goes to the background worker.
func (k RawKind) IsMouse() bool {
	return k == RawMouseDown || k == RawMouseUp
}

// RawEvent is one physical input event as delivered by the tap, before
// deduplication and normalization.
type RawEvent struct {
	Kind      RawKind
	Source    string // delivery channel tag, e.g. "tap" or "observer"
	X, Y      float64
	KeyCode   int
	Button    int
	Modifiers uint64
	ScrollDX  int
	ScrollDY  int
	Time      time.Time
}
