package platform

import (
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
)

// Element is an opaque handle to a live accessibility element. Handles are
// only meaningful to the TreeReader that produced them; identity is checked
// through TreeReader.Same, never by comparing handles directly.
type Element interface{}

// TreeReader reads the OS accessibility tree. It is the external collaborator
// the addressing core is built against: the path generator and resolver never
// touch the platform directly.
type TreeReader interface {
	// ApplicationRoot returns the root element of the frontmost application.
	ApplicationRoot() (Element, error)

	// ElementAt returns the element under the given screen location.
	ElementAt(x, y float64) (Element, error)

	// Children returns the direct children of an element.
	Children(el Element) ([]Element, error)

	// Info reads the element's descriptive fields.
	Info(el Element) (model.ElementSnapshot, error)

	// Perform executes an accessibility action (e.g. "AXPress") on the element.
	Perform(el Element, action string) error

	// Same reports whether two handles refer to the same live element.
	Same(a, b Element) bool
}

// TapHandler receives raw input events from the system-wide tap. It runs on
// the tap callback thread and must return quickly; anything heavier than
// fingerprinting belongs on a background worker.
type TapHandler func(ev RawEvent)

// EventTap is a system-wide input tap (mouse, keyboard, scroll, modifiers).
type EventTap interface {
	// Start installs the tap and begins delivering events to handler.
	Start(handler TapHandler) error

	// Stop removes the tap. Safe to call more than once.
	Stop()
}

// NotificationHandler receives accessibility notifications (focus moves,
// value changes) from an Observer. The element handle may be nil when the
// notification carried no usable element.
type NotificationHandler func(name string, el Element, at time.Time)

// Observer watches an application's accessibility tree for change
// notifications. It complements the input tap: the tap sees what the user
// did, the observer sees what the UI did in response.
type Observer interface {
	// Start registers for notifications and begins delivering them to handler.
	Start(handler NotificationHandler) error

	// Stop unregisters the observer. Safe to call more than once.
	Stop()
}
