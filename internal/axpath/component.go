// Package axpath implements descriptive paths: portable, human-inspectable
// addresses for accessibility elements. A path is an ordered sequence of
// type+attribute(+index) components from a root element down to a target,
// generated against one tree snapshot and resolved later against a
// structurally similar tree via a scored best-match search.
package axpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrParse is returned when a path string has unbalanced brackets or quotes.
var ErrParse = errors.New("malformed path")

// Attribute keys recognized in a path component. Anything else in the bag is
// carried through the codec untouched but ignored by the resolver.
const (
	AttrTitle      = "title"
	AttrLabel      = "label"
	AttrValue      = "value"
	AttrIdentifier = "identifier"
)

// Component is one step in a descriptive path: an element type, optional
// discriminating attributes, and an advisory sibling index recorded at
// capture time.
type Component struct {
	Type       string
	Attributes map[string]string
	Index      *int
}

// WithIndex returns a copy of the component with the sibling index set.
func (c Component) WithIndex(i int) Component {
	c.Index = &i
	return c
}

// String encodes the component as Type[{"k":"v",...,"index":N}]. The bag is
// omitted entirely when there are no attributes and no index. Attribute
// order within the bag is not significant.
func (c Component) String() string {
	if len(c.Attributes) == 0 && c.Index == nil {
		return c.Type
	}
	bag := make(map[string]interface{}, len(c.Attributes)+1)
	for k, v := range c.Attributes {
		bag[k] = v
	}
	if c.Index != nil {
		bag["index"] = *c.Index
	}
	// json.Marshal sorts map keys, so encoding is deterministic.
	b, err := json.Marshal(bag)
	if err != nil {
		return c.Type
	}
	return c.Type + "[" + string(b) + "]"
}

// ParseComponent decodes a single component token. It accepts the JSON-bag
// form (Type[{"title":"Send","index":2}]) and the legacy key=value form
// (Type[title="Send",index=2]) with double-quoted, backslash-escaped values.
func ParseComponent(s string) (Component, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Component{}, fmt.Errorf("%w: empty component", ErrParse)
	}
	open := strings.IndexByte(s, '[')
	if open < 0 {
		if strings.Contains(s, "]") {
			return Component{}, fmt.Errorf("%w: unbalanced bracket in %q", ErrParse, s)
		}
		return Component{Type: s}, nil
	}
	if !strings.HasSuffix(s, "]") {
		return Component{}, fmt.Errorf("%w: unbalanced bracket in %q", ErrParse, s)
	}
	c := Component{Type: strings.TrimSpace(s[:open])}
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return c, nil
	}
	if strings.HasPrefix(inner, "{") {
		return parseJSONBag(c, inner)
	}
	return parseLegacyBag(c, inner)
}

func parseJSONBag(c Component, inner string) (Component, error) {
	var bag map[string]interface{}
	if err := json.Unmarshal([]byte(inner), &bag); err != nil {
		return Component{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	for k, v := range bag {
		if k == "index" {
			if n, ok := v.(float64); ok {
				c = c.WithIndex(int(n))
				continue
			}
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		if s, ok := v.(string); ok {
			c.Attributes[k] = s
		} else {
			c.Attributes[k] = fmt.Sprintf("%v", v)
		}
	}
	return c, nil
}

func parseLegacyBag(c Component, inner string) (Component, error) {
	rest := inner
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return Component{}, fmt.Errorf("%w: missing '=' in %q", ErrParse, rest)
		}
		key := strings.TrimSpace(rest[:eq])
		var value string
		var err error
		value, rest, err = scanLegacyValue(rest[eq+1:])
		if err != nil {
			return Component{}, err
		}
		if key == "index" {
			if n, convErr := strconv.Atoi(strings.TrimSpace(value)); convErr == nil {
				c = c.WithIndex(n)
				continue
			}
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		c.Attributes[key] = value
	}
	return c, nil
}

// scanLegacyValue consumes one value (quoted or bare) and the trailing comma,
// returning the value and the remainder of the input.
func scanLegacyValue(s string) (value, rest string, err error) {
	s = strings.TrimLeft(s, " ")
	if strings.HasPrefix(s, `"`) {
		var b strings.Builder
		escaped := false
		for i := 1; i < len(s); i++ {
			ch := s[i]
			switch {
			case escaped:
				b.WriteByte(ch)
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				rest = strings.TrimLeft(s[i+1:], " ")
				rest = strings.TrimPrefix(rest, ",")
				return b.String(), strings.TrimLeft(rest, " "), nil
			default:
				b.WriteByte(ch)
			}
		}
		return "", "", fmt.Errorf("%w: unbalanced quote in %q", ErrParse, s)
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return strings.TrimSpace(s[:i]), strings.TrimLeft(s[i+1:], " "), nil
	}
	return strings.TrimSpace(s), "", nil
}

// Path is an ordered sequence of components, root to target. A path is
// immutable once generated; equality is structural, not string-identical.
type Path []Component

// String encodes the path in the descriptive form, components joined by " > ".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = c.String()
	}
	return strings.Join(parts, " > ")
}

// ParsePath decodes a path string. Components may be separated by " > "
// (descriptive form) or by top-level commas (legacy form); separators inside
// brackets or quotes do not split.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	tokens, err := splitComponents(s)
	if err != nil {
		return nil, err
	}
	path := make(Path, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseComponent(tok)
		if err != nil {
			return nil, err
		}
		path = append(path, c)
	}
	return path, nil
}

// splitComponents splits on " > " or "," outside of brackets and quotes.
func splitComponents(s string) ([]string, error) {
	var tokens []string
	var depth int
	var inQuote, escaped bool
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inQuote = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			depth++
		case ch == ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced bracket in %q", ErrParse, s)
			}
		case depth == 0 && ch == ',':
			tokens = append(tokens, s[start:i])
			start = i + 1
		case depth == 0 && ch == '>' && i > 0 && s[i-1] == ' ':
			tokens = append(tokens, s[start:i-1])
			start = i + 1
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced bracket in %q", ErrParse, s)
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unbalanced quote in %q", ErrParse, s)
	}
	tokens = append(tokens, s[start:])
	return tokens, nil
}

// sortedAttrKeys returns the component's attribute keys in a stable order.
func sortedAttrKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
