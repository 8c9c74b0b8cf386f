package axpath

import (
	"fmt"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// DefaultMaxDepth bounds tree traversal in the generator and resolver. The
// platform tree should be acyclic, but nothing guarantees it, so both
// traversals carry an explicit depth cap instead of trusting recursion to
// terminate.
const DefaultMaxDepth = 25

// Generator walks from a known root element down to a target element and
// emits one path component per traversed edge, dropping purely cosmetic
// container steps.
type Generator struct {
	Reader   platform.TreeReader
	MaxDepth int // 0 means DefaultMaxDepth
}

// NewGenerator returns a Generator with the default depth cap.
func NewGenerator(reader platform.TreeReader) *Generator {
	return &Generator{Reader: reader}
}

func (g *Generator) maxDepth() int {
	if g.MaxDepth > 0 {
		return g.MaxDepth
	}
	return DefaultMaxDepth
}

type genNode struct {
	el         platform.Element
	parent     *genNode
	snap       model.ElementSnapshot
	typeIdx    int // position among same-type siblings
	parentRole string
	depth      int
}

// Generate returns the descriptive path from root to target, or an empty
// path when target is the root itself. When the DFS cannot reach the target
// (tree changed mid-read, detached element) it fails softly: the result is a
// single-component path describing the target, or an empty path if even that
// read fails. Callers must treat an empty path as "unknown", not an error.
func (g *Generator) Generate(root, target platform.Element) (Path, error) {
	if g.Reader.Same(root, target) {
		return Path{}, nil
	}
	rootSnap, err := g.Reader.Info(root)
	if err != nil {
		return nil, fmt.Errorf("read root element: %w", err)
	}

	stack := []*genNode{{el: root, snap: rootSnap}}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if g.Reader.Same(n.el, target) {
			return g.buildPath(n), nil
		}
		if n.depth >= g.maxDepth() {
			continue
		}
		// Walk the group-flattened enumeration the resolver also uses, so
		// the recorded sibling index names the same candidate the resolver
		// will count. Anonymous wrapper groups never become path steps.
		cands := flattenedChildren(g.Reader, n.el, g.maxDepth())
		// Push in reverse so the DFS visits children in tree order.
		for i := len(cands) - 1; i >= 0; i-- {
			c := cands[i]
			stack = append(stack, &genNode{
				el:         c.el,
				parent:     n,
				snap:       c.snap,
				typeIdx:    c.typeIdx,
				parentRole: n.snap.Role,
				depth:      n.depth + 1,
			})
		}
	}

	// Target unreachable from root: fall back to a simple one-component
	// chain so the caller still gets something resolvable by attributes.
	snap, err := g.Reader.Info(target)
	if err != nil {
		return Path{}, nil
	}
	return Path{componentFor(snap)}, nil
}

// GenerateAt builds a path for the element under the given screen location,
// rooted at the frontmost application.
func (g *Generator) GenerateAt(x, y float64) (Path, model.ElementSnapshot, error) {
	el, err := g.Reader.ElementAt(x, y)
	if err != nil {
		return nil, model.ElementSnapshot{}, fmt.Errorf("element at (%.0f, %.0f): %w", x, y, err)
	}
	root, err := g.Reader.ApplicationRoot()
	if err != nil {
		return nil, model.ElementSnapshot{}, fmt.Errorf("application root: %w", err)
	}
	path, err := g.Generate(root, el)
	if err != nil {
		return nil, model.ElementSnapshot{}, err
	}
	snap, err := g.Reader.Info(el)
	if err != nil {
		snap = model.UnknownSnapshot()
	}
	return path, snap, nil
}

// buildPath walks the parent chain back to the root and assembles the final
// component sequence. Anonymous layout groups were flattened out of the
// walk, so every chain node earns a component.
func (g *Generator) buildPath(target *genNode) Path {
	var chain []*genNode
	for n := target; n.parent != nil; n = n.parent {
		chain = append(chain, n)
	}

	path := make(Path, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		n := chain[i]
		comp := componentFor(n.snap)
		// Direct children of order-irrelevant containers (tab groups)
		// match by content, never by position.
		if !orderIrrelevantParents[n.parentRole] {
			comp = comp.WithIndex(n.typeIdx)
		}
		path = append(path, comp)
	}
	return path
}

// componentFor builds a path component from a snapshot, keeping only
// non-empty, non-"None" discriminating fields so paths stay minimal.
func componentFor(snap model.ElementSnapshot) Component {
	comp := Component{Type: snap.Role}
	set := func(key, val string) {
		if val == "" || val == "None" {
			return
		}
		if comp.Attributes == nil {
			comp.Attributes = make(map[string]string)
		}
		comp.Attributes[key] = val
	}
	set(AttrTitle, snap.Title)
	set(AttrLabel, snap.Label)
	set(AttrValue, snap.Value)
	set(AttrIdentifier, snap.Identifier)
	return comp
}
