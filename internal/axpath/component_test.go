package axpath

import (
	"errors"
	"reflect"
	"testing"
)

func intp(i int) *int { return &i }

func TestComponentRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		comp Component
	}{
		{"bare_type", Component{Type: "Button"}},
		{"one_attr", Component{Type: "Button", Attributes: map[string]string{"title": "Send"}}},
		{"index_only", Component{Type: "Group", Index: intp(3)}},
		{"attrs_and_index", Component{
			Type:       "TextField",
			Attributes: map[string]string{"label": "Subject", "identifier": "subjectField"},
			Index:      intp(0),
		}},
		{"quotes_in_value", Component{
			Type:       "StaticText",
			Attributes: map[string]string{"value": `he said "hi"`},
		}},
		{"comma_and_bracket_in_value", Component{
			Type:       "Button",
			Attributes: map[string]string{"title": "Save, then [close]"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseComponent(tt.comp.String())
			if err != nil {
				t.Fatalf("ParseComponent(%q): %v", tt.comp.String(), err)
			}
			if !reflect.DeepEqual(got, tt.comp) {
				t.Errorf("round trip mismatch: encoded %q, decoded %+v, want %+v",
					tt.comp.String(), got, tt.comp)
			}
		})
	}
}

func TestParseComponent_LegacyForm(t *testing.T) {
	tests := []struct {
		in   string
		want Component
	}{
		{`Button[title="Send"]`, Component{Type: "Button", Attributes: map[string]string{"title": "Send"}}},
		{`Button[title="Send",index=2]`, Component{Type: "Button", Attributes: map[string]string{"title": "Send"}, Index: intp(2)}},
		{`StaticText[value="he said \"hi\""]`, Component{Type: "StaticText", Attributes: map[string]string{"value": `he said "hi"`}}},
		{`Window[title="A, B",label="C"]`, Component{Type: "Window", Attributes: map[string]string{"title": "A, B", "label": "C"}}},
		{`Slider[value=42]`, Component{Type: "Slider", Attributes: map[string]string{"value": "42"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComponent(tt.in)
			if err != nil {
				t.Fatalf("ParseComponent(%q): %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseComponent_Errors(t *testing.T) {
	bad := []string{
		`Button[title="Send"`,          // unbalanced bracket
		`Button[title="Send]`,          // unbalanced quote
		`Button]`,                      // stray closing bracket
		`Button[{"title":"Send"]`,      // truncated JSON bag
		``,                             // empty
	}
	for _, in := range bad {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseComponent(in); !errors.Is(err, ErrParse) {
				t.Errorf("ParseComponent(%q) err = %v, want ErrParse", in, err)
			}
		})
	}
}

func TestParsePath_DescriptiveForm(t *testing.T) {
	in := `Window[{"title":"Mail"}] > Group > Button[{"title":"Send"}]`
	path, err := ParsePath(in)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3 components, got %d", len(path))
	}
	if path[0].Type != "Window" || path[0].Attributes["title"] != "Mail" {
		t.Errorf("bad first component: %+v", path[0])
	}
	if path[1].Type != "Group" || len(path[1].Attributes) != 0 {
		t.Errorf("bad second component: %+v", path[1])
	}
	if path[2].Type != "Button" || path[2].Attributes["title"] != "Send" {
		t.Errorf("bad third component: %+v", path[2])
	}
}

func TestParsePath_LegacyForm(t *testing.T) {
	in := `Window[title="Mail, Inbox"],Group,Button[title="Send"]`
	path, err := ParsePath(in)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3 components, got %d: %v", len(path), path)
	}
	if path[0].Attributes["title"] != "Mail, Inbox" {
		t.Errorf("comma inside quoted value split the path: %+v", path[0])
	}
}

func TestParsePath_RoundTrip(t *testing.T) {
	in := `Window[{"title":"Mail"}] > TabGroup > Button[{"index":1,"title":"Send"}]`
	path, err := ParsePath(in)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	again, err := ParsePath(path.String())
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(path, again) {
		t.Errorf("path round trip mismatch:\n first: %+v\nsecond: %+v", path, again)
	}
}

func TestParsePath_Empty(t *testing.T) {
	path, err := ParsePath("   ")
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path, got %v", path)
	}
}

func TestParsePath_UnbalancedBracket(t *testing.T) {
	if _, err := ParsePath(`Window[title="a"] > Button[`); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}
