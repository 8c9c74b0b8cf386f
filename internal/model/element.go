package model

// ElementSnapshot is a point-in-time read of one accessibility element's
// descriptive fields, supplied by the platform tree reader. It is a value
// type: the core never mutates a snapshot after it is produced.
type ElementSnapshot struct {
	Role       string   `json:"role"`
	Title      string   `json:"title,omitempty"`
	Label      string   `json:"label,omitempty"`
	Value      string   `json:"value,omitempty"`
	Identifier string   `json:"identifier,omitempty"`
	Text       string   `json:"text,omitempty"`
	Pressable  bool     `json:"pressable,omitempty"`
	Actions    []string `json:"actions,omitempty"`
	App        string   `json:"app,omitempty"`
	BundleID   string   `json:"bundle_id,omitempty"`
	PID        int      `json:"pid,omitempty"`
}

// UnknownRole is the sentinel role used when a tree read fails. The capture
// pipeline degrades to an Unknown snapshot instead of aborting.
const UnknownRole = "Unknown"

// UnknownSnapshot returns the sentinel snapshot for a failed tree read.
func UnknownSnapshot() ElementSnapshot {
	return ElementSnapshot{Role: UnknownRole}
}

// IsUnknown reports whether the snapshot came from a failed tree read.
func (s ElementSnapshot) IsUnknown() bool {
	return s.Role == UnknownRole
}

// DisplayText returns the most descriptive non-empty text field, preferring
// title over label over value over identifier.
func (s ElementSnapshot) DisplayText() string {
	for _, v := range []string{s.Title, s.Label, s.Value, s.Identifier} {
		if v != "" {
			return v
		}
	}
	return ""
}
