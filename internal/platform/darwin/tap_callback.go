//go:build darwin && cgo

package darwin

import "C"
import (
	"runtime/cgo"
	"time"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// CGEventType values the tap subscribes to. Kept as plain constants so this
// file needs no C preamble (required for //export).
const (
	cgEventLeftMouseDown  = 1
	cgEventLeftMouseUp    = 2
	cgEventRightMouseDown = 3
	cgEventRightMouseUp   = 4
	cgEventKeyDown        = 10
	cgEventFlagsChanged   = 12
	cgEventScrollWheel    = 22
)

//export goTapEvent
func goTapEvent(handle C.uintptr_t, eventType C.int, x, y C.double,
	keycode C.longlong, flags C.ulonglong, dx, dy, button C.longlong) {

	tap, ok := cgo.Handle(handle).Value().(*Tap)
	if !ok {
		return
	}

	var kind platform.RawKind
	switch int(eventType) {
	case cgEventLeftMouseDown, cgEventRightMouseDown:
		kind = platform.RawMouseDown
	case cgEventLeftMouseUp, cgEventRightMouseUp:
		kind = platform.RawMouseUp
	case cgEventKeyDown:
		kind = platform.RawKeyDown
	case cgEventFlagsChanged:
		kind = platform.RawFlagsChanged
	case cgEventScrollWheel:
		kind = platform.RawScroll
	default:
		return
	}

	tap.dispatch(platform.RawEvent{
		Kind:      kind,
		Source:    "tap",
		X:         float64(x),
		Y:         float64(y),
		KeyCode:   int(keycode),
		Button:    int(button),
		Modifiers: uint64(flags),
		ScrollDX:  int(dx),
		ScrollDY:  int(dy),
		Time:      time.Now(),
	})
}
