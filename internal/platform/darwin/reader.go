//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation -framework AppKit
#import <AppKit/AppKit.h>
#include <ApplicationServices/ApplicationServices.h>
#include <libproc.h>
#include <stdlib.h>
#include <string.h>
#include <stdio.h>

static AXUIElementRef ax_frontmost_app() {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    CFTypeRef app = NULL;
    AXError err = AXUIElementCopyAttributeValue(systemWide, kAXFocusedApplicationAttribute, &app);
    CFRelease(systemWide);
    if (err != kAXErrorSuccess || app == NULL) {
        return NULL;
    }
    return (AXUIElementRef)app;
}

static AXUIElementRef ax_element_at(double x, double y) {
    AXUIElementRef systemWide = AXUIElementCreateSystemWide();
    AXUIElementRef el = NULL;
    AXError err = AXUIElementCopyElementAtPosition(systemWide, (float)x, (float)y, &el);
    CFRelease(systemWide);
    if (err != kAXErrorSuccess) {
        return NULL;
    }
    return el;
}

// ax_copy_string_attr returns a malloc'd UTF-8 copy of a string-ish attribute,
// or NULL when the attribute is missing or of an unsupported type.
static char *ax_copy_string_attr(AXUIElementRef el, const char *name) {
    CFStringRef attr = CFStringCreateWithCString(kCFAllocatorDefault, name, kCFStringEncodingUTF8);
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, attr, &value);
    CFRelease(attr);
    if (err != kAXErrorSuccess || value == NULL) {
        return NULL;
    }

    char *out = NULL;
    if (CFGetTypeID(value) == CFStringGetTypeID()) {
        CFStringRef s = (CFStringRef)value;
        CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
        out = malloc(max);
        if (out && !CFStringGetCString(s, out, max, kCFStringEncodingUTF8)) {
            free(out);
            out = NULL;
        }
    } else if (CFGetTypeID(value) == CFNumberGetTypeID()) {
        double d = 0;
        CFNumberGetValue((CFNumberRef)value, kCFNumberDoubleType, &d);
        out = malloc(32);
        if (out) {
            snprintf(out, 32, "%g", d);
        }
    } else if (CFGetTypeID(value) == CFBooleanGetTypeID()) {
        out = strdup(CFBooleanGetValue((CFBooleanRef)value) ? "true" : "false");
    }
    CFRelease(value);
    return out;
}

// ax_copy_children returns a retained CFArray of AXUIElementRef, or NULL.
static CFArrayRef ax_copy_children(AXUIElementRef el) {
    CFTypeRef value = NULL;
    AXError err = AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &value);
    if (err != kAXErrorSuccess || value == NULL) {
        return NULL;
    }
    if (CFGetTypeID(value) != CFArrayGetTypeID()) {
        CFRelease(value);
        return NULL;
    }
    return (CFArrayRef)value;
}

static AXUIElementRef ax_child_at(CFArrayRef children, CFIndex i) {
    AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex(children, i);
    CFRetain(child);
    return child;
}

// ax_copy_actions returns a retained CFArray of action name CFStrings, or NULL.
static CFArrayRef ax_copy_actions(AXUIElementRef el) {
    CFArrayRef names = NULL;
    if (AXUIElementCopyActionNames(el, &names) != kAXErrorSuccess) {
        return NULL;
    }
    return names;
}

static char *ax_action_at(CFArrayRef actions, CFIndex i) {
    CFStringRef s = (CFStringRef)CFArrayGetValueAtIndex(actions, i);
    CFIndex max = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *out = malloc(max);
    if (out && !CFStringGetCString(s, out, max, kCFStringEncodingUTF8)) {
        free(out);
        out = NULL;
    }
    return out;
}

static int ax_perform(AXUIElementRef el, const char *action) {
    CFStringRef name = CFStringCreateWithCString(kCFAllocatorDefault, action, kCFStringEncodingUTF8);
    AXError err = AXUIElementPerformAction(el, name);
    CFRelease(name);
    return (int)err;
}

static int ax_pid(AXUIElementRef el) {
    pid_t pid = 0;
    if (AXUIElementGetPid(el, &pid) != kAXErrorSuccess) {
        return 0;
    }
    return (int)pid;
}

static char *bundle_id_for_pid(int pid) {
    NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:(pid_t)pid];
    if (app == nil || app.bundleIdentifier == nil) {
        return NULL;
    }
    return strdup([app.bundleIdentifier UTF8String]);
}

static char *proc_name_for_pid(int pid) {
    char buf[2 * MAXCOMLEN];
    if (proc_name(pid, buf, sizeof(buf)) <= 0) {
        return NULL;
    }
    return strdup(buf);
}

static int ax_same(AXUIElementRef a, AXUIElementRef b) {
    return CFEqual(a, b);
}

static void ax_release(AXUIElementRef el) {
    CFRelease(el);
}

static void cf_release_array(CFArrayRef arr) {
    CFRelease(arr);
}
*/
import "C"
import (
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// axElement wraps a retained AXUIElementRef. The finalizer releases the
// underlying CF object when the Go handle is collected.
type axElement struct {
	ref C.AXUIElementRef
}

func wrapElement(ref C.AXUIElementRef) *axElement {
	el := &axElement{ref: ref}
	runtime.SetFinalizer(el, func(e *axElement) {
		C.ax_release(e.ref)
	})
	return el
}

// Reader implements platform.TreeReader on macOS via the Accessibility API.
type Reader struct{}

// NewReader creates a macOS tree reader.
func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) ApplicationRoot() (platform.Element, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}
	ref := C.ax_frontmost_app()
	if ref == nil {
		return nil, fmt.Errorf("no focused application")
	}
	return wrapElement(ref), nil
}

func (r *Reader) ElementAt(x, y float64) (platform.Element, error) {
	ref := C.ax_element_at(C.double(x), C.double(y))
	if ref == nil {
		return nil, fmt.Errorf("no element at (%v, %v)", x, y)
	}
	return wrapElement(ref), nil
}

func (r *Reader) Children(el platform.Element) ([]platform.Element, error) {
	ref := el.(*axElement).ref
	arr := C.ax_copy_children(ref)
	if arr == nil {
		return nil, nil
	}
	defer C.cf_release_array(arr)

	count := int(C.CFArrayGetCount(arr))
	children := make([]platform.Element, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, wrapElement(C.ax_child_at(arr, C.CFIndex(i))))
	}
	return children, nil
}

func (r *Reader) Info(el platform.Element) (model.ElementSnapshot, error) {
	ref := el.(*axElement).ref

	role := copyAttr(ref, "AXRole")
	if role == "" {
		return model.ElementSnapshot{}, fmt.Errorf("element has no role (stale handle?)")
	}

	snap := model.ElementSnapshot{
		Role:       strings.TrimPrefix(role, "AX"),
		Title:      copyAttr(ref, "AXTitle"),
		Label:      copyAttr(ref, "AXDescription"),
		Value:      copyAttr(ref, "AXValue"),
		Identifier: copyAttr(ref, "AXIdentifier"),
		Text:       copyAttr(ref, "AXSelectedText"),
	}

	if actions := copyActions(ref); len(actions) > 0 {
		snap.Actions = actions
		for _, a := range actions {
			if a == "AXPress" {
				snap.Pressable = true
				break
			}
		}
	}

	if pid := int(C.ax_pid(ref)); pid > 0 {
		snap.PID = pid
		if name := C.proc_name_for_pid(C.int(pid)); name != nil {
			snap.App = C.GoString(name)
			C.free(unsafe.Pointer(name))
		}
		if bid := C.bundle_id_for_pid(C.int(pid)); bid != nil {
			snap.BundleID = C.GoString(bid)
			C.free(unsafe.Pointer(bid))
		}
	}
	return snap, nil
}

func (r *Reader) Perform(el platform.Element, action string) error {
	ref := el.(*axElement).ref
	cAction := C.CString(action)
	defer C.free(unsafe.Pointer(cAction))
	if code := C.ax_perform(ref, cAction); code != 0 {
		return fmt.Errorf("action %s failed (AXError %d)", action, int(code))
	}
	return nil
}

func (r *Reader) Same(a, b platform.Element) bool {
	ea, ok := a.(*axElement)
	if !ok {
		return false
	}
	eb, ok := b.(*axElement)
	if !ok {
		return false
	}
	return C.ax_same(ea.ref, eb.ref) != 0
}

func copyAttr(ref C.AXUIElementRef, name string) string {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cValue := C.ax_copy_string_attr(ref, cName)
	if cValue == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cValue))
	return C.GoString(cValue)
}

func copyActions(ref C.AXUIElementRef) []string {
	arr := C.ax_copy_actions(ref)
	if arr == nil {
		return nil
	}
	defer C.cf_release_array(arr)

	count := int(C.CFArrayGetCount(arr))
	actions := make([]string, 0, count)
	for i := 0; i < count; i++ {
		cAction := C.ax_action_at(arr, C.CFIndex(i))
		if cAction == nil {
			continue
		}
		actions = append(actions, C.GoString(cAction))
		C.free(unsafe.Pointer(cAction))
	}
	return actions
}
