package platform

import "testing"

func TestRawKindString(t *testing.T) {
	tests := []struct {
		kind RawKind
		want string
	}{
		{RawMouseDown, "mouse_down"},
		{RawMouseUp, "mouse_up"},
		{RawKeyDown, "key_down"},
		{RawFlagsChanged, "flags_changed"},
		{RawScroll, "scroll_wheel"},
		{RawKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("RawKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRawKindIsMouse(t *testing.T) {
	if !RawMouseDown.IsMouse() || !RawMouseUp.IsMouse() {
		t.Error("mouse down/up should be mouse kinds")
	}
	if RawKeyDown.IsMouse() || RawScroll.IsMouse() || RawFlagsChanged.IsMouse() {
		t.Error("non-mouse kinds reported as mouse")
	}
}
