package axpath

import (
	"strings"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// DefaultSearchLimit caps the number of matches Search returns.
const DefaultSearchLimit = 50

// Match pairs a found element's snapshot with its descriptive path, so the
// caller can address the element again later.
type Match struct {
	Path    string                `json:"path"`
	Element model.ElementSnapshot `json:"element"`
}

// Search walks the tree under root breadth-first and returns elements whose
// title, label, value, or identifier contains query (case-insensitive), each
// with a freshly generated descriptive path.
func Search(reader platform.TreeReader, root platform.Element, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	gen := NewGenerator(reader)
	queryLower := strings.ToLower(query)

	type queued struct {
		el    platform.Element
		depth int
	}
	queue := []queued{{el: root}}
	var matches []Match

	for len(queue) > 0 && len(matches) < limit {
		n := queue[0]
		queue = queue[1:]

		snap, err := reader.Info(n.el)
		if err != nil {
			continue
		}
		if matchesQuery(snap, queryLower) {
			path, err := gen.Generate(root, n.el)
			if err == nil {
				matches = append(matches, Match{Path: path.String(), Element: snap})
			}
		}
		if n.depth >= DefaultMaxDepth {
			continue
		}
		children, err := reader.Children(n.el)
		if err != nil {
			continue
		}
		for _, child := range children {
			queue = append(queue, queued{el: child, depth: n.depth + 1})
		}
	}
	return matches, nil
}

func matchesQuery(snap model.ElementSnapshot, queryLower string) bool {
	for _, field := range []string{snap.Title, snap.Label, snap.Value, snap.Identifier} {
		if field != "" && strings.Contains(strings.ToLower(field), queryLower) {
			return true
		}
	}
	return false
}
