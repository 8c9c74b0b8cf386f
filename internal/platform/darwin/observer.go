//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>

extern void goObserverNotify(uintptr_t handle, uintptr_t element, char *name);

static void observer_cb(AXObserverRef observer, AXUIElementRef element,
                        CFStringRef notification, void *refcon) {
    CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(notification), kCFStringEncodingUTF8) + 1;
    char *name = malloc(max);
    if (name == NULL || !CFStringGetCString(notification, name, max, kCFStringEncodingUTF8)) {
        free(name);
        return;
    }
    // Retained for the Go wrapper; its finalizer releases.
    CFRetain(element);
    goObserverNotify((uintptr_t)refcon, (uintptr_t)element, name);
    free(name);
}

static int observer_frontmost_pid() {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    CFTypeRef app = NULL;
    AXError err = AXUIElementCopyAttributeValue(systemWide, kAXFocusedApplicationAttribute, &app);
    CFRelease(systemWide);
    if (err != kAXErrorSuccess || app == NULL) {
        return 0;
    }
    pid_t pid = 0;
    AXUIElementGetPid((AXUIElementRef)app, &pid);
    CFRelease(app);
    return (int)pid;
}

// observer_create registers the notification set on the application element
// and returns the observer, or NULL when nothing could be registered.
static AXObserverRef observer_create(int pid, uintptr_t handle, AXUIElementRef *appOut) {
    AXObserverRef obs = NULL;
    if (AXObserverCreate((pid_t)pid, observer_cb, &obs) != kAXErrorSuccess) {
        return NULL;
    }
    AXUIElementRef app = AXUIElementCreateApplication((pid_t)pid);
    const char *names[] = {
        "AXFocusedUIElementChanged",
        "AXValueChanged",
        "AXMainWindowChanged",
        "AXTitleChanged",
    };
    int added = 0;
    for (int i = 0; i < 4; i++) {
        CFStringRef n = CFStringCreateWithCString(kCFAllocatorDefault, names[i], kCFStringEncodingUTF8);
        if (AXObserverAddNotification(obs, app, n, (void *)handle) == kAXErrorSuccess) {
            added++;
        }
        CFRelease(n);
    }
    if (added == 0) {
        CFRelease(app);
        CFRelease(obs);
        return NULL;
    }
    *appOut = app;
    return obs;
}

static CFRunLoopRef observer_attach(AXObserverRef obs) {
    CFRunLoopAddSource(CFRunLoopGetCurrent(), AXObserverGetRunLoopSource(obs), kCFRunLoopDefaultMode);
    return CFRunLoopGetCurrent();
}

static void observer_loop_run() {
    CFRunLoopRun();
}

static void observer_shutdown(CFRunLoopRef loop) {
    if (loop) {
        CFRunLoopStop(loop);
    }
}

static void observer_release(AXObserverRef obs, AXUIElementRef app) {
    if (obs) {
        CFRunLoopSourceInvalidate(AXObserverGetRunLoopSource(obs));
        CFRelease(obs);
    }
    if (app) {
        CFRelease(app);
    }
}
*/
import "C"
import (
	"fmt"
	"runtime"
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// Observer implements platform.Observer with an AXObserver on the frontmost
// application. Like the event tap, its run loop lives on a dedicated locked
// OS thread.
type Observer struct {
	mu      sync.Mutex
	handler platform.NotificationHandler
	obs     C.AXObserverRef
	app     C.AXUIElementRef
	loop    C.CFRunLoopRef
	handle  cgo.Handle
	running bool
}

// NewObserver creates a macOS accessibility observer.
func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) Start(handler platform.NotificationHandler) error {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return fmt.Errorf("observer already started")
	}
	o.handler = handler
	o.running = true
	o.mu.Unlock()

	ready := make(chan error, 1)
	go o.run(ready)
	return <-ready
}

func (o *Observer) run(ready chan<- error) {
	// The CF run loop must stay on one OS thread for its lifetime.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	pid := int(C.observer_frontmost_pid())
	if pid == 0 {
		o.fail(ready, fmt.Errorf("no focused application to observe"))
		return
	}

	handle := cgo.NewHandle(o)
	var app C.AXUIElementRef
	obs := C.observer_create(C.int(pid), C.uintptr_t(handle), &app)
	if obs == nil {
		handle.Delete()
		o.fail(ready, fmt.Errorf("observer registration failed for pid %d", pid))
		return
	}

	loop := C.observer_attach(obs)
	o.mu.Lock()
	o.obs = obs
	o.app = app
	o.loop = loop
	o.handle = handle
	o.mu.Unlock()
	ready <- nil

	C.observer_loop_run()

	o.mu.Lock()
	C.observer_release(o.obs, o.app)
	o.obs = nil
	o.app = nil
	o.loop = nil
	o.handler = nil
	o.running = false
	o.mu.Unlock()
	handle.Delete()
}

func (o *Observer) fail(ready chan<- error, err error) {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
	ready <- err
}

func (o *Observer) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.running {
		return
	}
	C.observer_shutdown(o.loop)
}

// dispatch runs on the observer run-loop thread. The element arrives already
// retained by the callback.
func (o *Observer) dispatch(element uintptr, name string) {
	// Wrap before any early return so the finalizer owns the retain.
	var el platform.Element
	if element != 0 {
		el = wrapElement(C.AXUIElementRef(unsafe.Pointer(element)))
	}
	o.mu.Lock()
	handler := o.handler
	o.mu.Unlock()
	if handler == nil {
		return
	}
	handler(name, el, time.Now())
}
