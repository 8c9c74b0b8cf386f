package model

import "time"

// Event kinds as exposed over the event transport.
const (
	KindClick         = "click"
	KindKeyboard      = "keyboard"
	KindScroll        = "scroll"
	KindModifier      = "keyboard_modifier"
	KindAccessibility = "accessibility"
)

// CapturedEvent is one normalized input event correlated with the element
// under the cursor at capture time. Created by the capture pipeline, appended
// to the event queue, and read/cleared only by the external transport. It is
// never mutated after creation.
type CapturedEvent struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      string            `json:"kind"`
	Source    string            `json:"source,omitempty"`
	Details   map[string]string `json:"details"`
}
