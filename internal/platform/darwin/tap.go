//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>

extern void goTapEvent(uintptr_t handle, int type, double x, double y,
                       long long keycode, unsigned long long flags,
                       long long dx, long long dy, long long button);

static CGEventRef tap_cb(CGEventTapProxy proxy, CGEventType type, CGEventRef event, void *refcon) {
    if (type == kCGEventTapDisabledByTimeout || type == kCGEventTapDisabledByUserInput) {
        return event;
    }
    CGPoint loc = CGEventGetLocation(event);
    int64_t keycode = CGEventGetIntegerValueField(event, kCGKeyboardEventKeycode);
    uint64_t flags = CGEventGetFlags(event);
    int64_t dy = CGEventGetIntegerValueField(event, kCGScrollWheelEventDeltaAxis1);
    int64_t dx = CGEventGetIntegerValueField(event, kCGScrollWheelEventDeltaAxis2);
    int64_t button = CGEventGetIntegerValueField(event, kCGMouseEventButtonNumber);
    goTapEvent((uintptr_t)refcon, (int)type, loc.x, loc.y, keycode, flags, dx, dy, button);
    return event;
}

static CFMachPortRef tap_create(uintptr_t handle) {
    CGEventMask mask = CGEventMaskBit(kCGEventLeftMouseDown)
        | CGEventMaskBit(kCGEventLeftMouseUp)
        | CGEventMaskBit(kCGEventRightMouseDown)
        | CGEventMaskBit(kCGEventRightMouseUp)
        | CGEventMaskBit(kCGEventKeyDown)
        | CGEventMaskBit(kCGEventFlagsChanged)
        | CGEventMaskBit(kCGEventScrollWheel);
    return CGEventTapCreate(kCGSessionEventTap, kCGHeadInsertEventTap,
        kCGEventTapOptionListenOnly, mask, tap_cb, (void *)handle);
}

// tap_attach adds the tap to the current thread's run loop and returns the
// loop so another thread can stop it later.
static CFRunLoopRef tap_attach(CFMachPortRef tap) {
    CFRunLoopSourceRef source = CFMachPortCreateRunLoopSource(kCFAllocatorDefault, tap, 0);
    CFRunLoopAddSource(CFRunLoopGetCurrent(), source, kCFRunLoopCommonModes);
    CFRelease(source);
    CGEventTapEnable(tap, true);
    return CFRunLoopGetCurrent();
}

static void tap_loop_run() {
    CFRunLoopRun();
}

static void tap_shutdown(CFMachPortRef tap, CFRunLoopRef loop) {
    if (tap) {
        CGEventTapEnable(tap, false);
    }
    if (loop) {
        CFRunLoopStop(loop);
    }
}

static void tap_release(CFMachPortRef tap) {
    if (tap) {
        CFMachPortInvalidate(tap);
        CFRelease(tap);
    }
}
*/
import "C"
import (
	"fmt"
	"runtime"
	"runtime/cgo"
	"sync"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// Tap implements platform.EventTap using a session-wide CGEventTap. The tap
// listens only; it never modifies or swallows events. The run loop lives on
// a dedicated locked OS thread.
type Tap struct {
	mu      sync.Mutex
	handler platform.TapHandler
	port    C.CFMachPortRef
	loop    C.CFRunLoopRef
	handle  cgo.Handle
	running bool
}

// NewTap creates a macOS event tap.
func NewTap() *Tap {
	return &Tap{}
}

func (t *Tap) Start(handler platform.TapHandler) error {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return fmt.Errorf("event tap already started")
	}
	t.handler = handler
	t.running = true
	t.mu.Unlock()

	ready := make(chan error, 1)
	go t.run(ready)
	return <-ready
}

func (t *Tap) run(ready chan<- error) {
	// The CF run loop must stay on one OS thread for its lifetime.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	handle := cgo.NewHandle(t)
	port := C.tap_create(C.uintptr_t(handle))
	if port == nil {
		handle.Delete()
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		ready <- fmt.Errorf("event tap creation failed; input monitoring permission may be missing")
		return
	}

	loop := C.tap_attach(port)
	t.mu.Lock()
	t.port = port
	t.loop = loop
	t.handle = handle
	t.mu.Unlock()
	ready <- nil

	C.tap_loop_run()

	t.mu.Lock()
	C.tap_release(t.port)
	t.port = nil
	t.loop = nil
	t.handler = nil
	t.running = false
	t.mu.Unlock()
	handle.Delete()
}

func (t *Tap) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	C.tap_shutdown(t.port, t.loop)
}

// dispatch runs on the tap callback thread.
func (t *Tap) dispatch(ev platform.RawEvent) {
	t.mu.Lock()
	handler := t.handler
	t.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}
