package axpath

import (
	"container/heap"
	"errors"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// ErrNotFound is returned when the search exhausts the tree without a
// complete, threshold-clearing match for the path.
var ErrNotFound = errors.New("no element matches path")

const (
	// attrWeight scales the normalized attribute score into the 100-point
	// type score range.
	attrWeight = 20

	// indexBonus rewards a candidate occupying the exact sibling position
	// recorded at capture time. Strong disambiguator between siblings that
	// otherwise tie.
	indexBonus = 50

	// acceptThreshold is the minimum combined per-step score; candidates
	// below it are discarded, which is what keeps the branching bounded.
	acceptThreshold = 60

	// DefaultMaxVisits caps frontier expansions so a pathological tree
	// cannot stall the caller (the resolver runs synchronously under RPC).
	DefaultMaxVisits = 10000
)

// Resolver finds the live element best matching a descriptive path. The
// search is a best-first, cumulative-score exploration over the current
// tree, not a deterministic walk: it tolerates renames, reordering, and
// extra or missing wrapper containers.
type Resolver struct {
	Reader    platform.TreeReader
	MaxDepth  int // group-flattening depth cap, 0 means DefaultMaxDepth
	MaxVisits int // frontier expansion cap, 0 means DefaultMaxVisits
}

// NewResolver returns a Resolver with default bounds.
func NewResolver(reader platform.TreeReader) *Resolver {
	return &Resolver{Reader: reader}
}

func (r *Resolver) maxDepth() int {
	if r.MaxDepth > 0 {
		return r.MaxDepth
	}
	return DefaultMaxDepth
}

func (r *Resolver) maxVisits() int {
	if r.MaxVisits > 0 {
		return r.MaxVisits
	}
	return DefaultMaxVisits
}

// partial is one entry in the search frontier: the live element reached so
// far, the unmatched remainder of the path, and the cumulative score.
type partial struct {
	el        platform.Element
	remaining []Component
	depth     int // components consumed so far
	score     float64
}

// partialHeap is a max-heap ordered by cumulative score.
type partialHeap []*partial

func (h partialHeap) Len() int            { return len(h) }
func (h partialHeap) Less(i, j int) bool  { return h[i].score > h[j].score }
func (h partialHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *partialHeap) Push(x interface{}) { *h = append(*h, x.(*partial)) }
func (h *partialHeap) Pop() interface{} {
	old := *h
	n := len(old)
	p := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return p
}

// Resolve returns the live element best matching path under root, or
// ErrNotFound. An empty path resolves to the root itself.
func (r *Resolver) Resolve(root platform.Element, path Path) (platform.Element, error) {
	if len(path) == 0 {
		return root, nil
	}

	// A leading component that names the search root's own type (commonly
	// "Window") is already satisfied by the root; it is consumed, not
	// searched for among children.
	if snap, err := r.Reader.Info(root); err == nil && path[0].Type == snap.Role {
		path = path[1:]
		if len(path) == 0 {
			return root, nil
		}
	}

	frontier := &partialHeap{{el: root, remaining: path}}
	heap.Init(frontier)

	var best platform.Element
	bestScore := -1.0
	found := false
	visits := 0

	for frontier.Len() > 0 {
		p := heap.Pop(frontier).(*partial)

		if len(p.remaining) == 0 {
			if p.score > bestScore {
				bestScore = p.score
				best = p.el
				found = true
			}
			continue
		}
		// No future step can lift this partial past the best complete
		// candidate: drop it.
		if found && p.score+upperBound(p.depth, len(p.remaining)) <= bestScore {
			continue
		}
		visits++
		if visits > r.maxVisits() {
			break
		}

		comp := p.remaining[0]
		matched := false
		for _, cand := range flattenedChildren(r.Reader, p.el, r.maxDepth()) {
			combined := r.scoreCandidate(comp, cand)
			if combined < acceptThreshold {
				continue
			}
			matched = true
			heap.Push(frontier, &partial{
				el:        cand.el,
				remaining: p.remaining[1:],
				depth:     p.depth + 1,
				score:     p.score + combined*float64(p.depth+1),
			})
		}

		// Skip rule: a container recorded at capture time may no longer
		// exist. If nothing cleared the threshold and the component type
		// is skippable, retry the rest of the path against this element.
		if !matched && skippableTypes[comp.Type] {
			heap.Push(frontier, &partial{
				el:        p.el,
				remaining: p.remaining[1:],
				depth:     p.depth + 1,
				score:     p.score,
			})
		}
	}

	if !found {
		return nil, ErrNotFound
	}
	return best, nil
}

// scoreCandidate computes the combined per-step score of a candidate against
// a path component: type compatibility, plus scaled attribute agreement,
// plus the sibling-index bonus. Returns 0 for type-incompatible candidates.
// The index bonus is a tie-breaker between siblings that don't otherwise
// differ; a candidate contradicting a recorded attribute never receives it,
// so a reordered sibling at the recorded position cannot outscore the
// renamed-index true target.
func (r *Resolver) scoreCandidate(comp Component, cand candidate) float64 {
	ts := typeScore(comp.Type, cand.snap.Role)
	if ts == 0 {
		return 0
	}
	agreement, contradicted := attrScore(comp, cand.snap)
	combined := ts + agreement*attrWeight
	if !contradicted && comp.Index != nil && *comp.Index == cand.typeIdx {
		combined += indexBonus
	}
	return combined
}

// attrScore returns the normalized attribute agreement in [0, 1]: per
// attribute, 1 for an exact match, 0.5 when the candidate's field is empty
// (absence doesn't contradict), 0 for a mismatch. contradicted reports
// whether any recorded attribute mismatched a non-empty candidate field.
func attrScore(comp Component, snap model.ElementSnapshot) (float64, bool) {
	if len(comp.Attributes) == 0 {
		return 0, false
	}
	var sum float64
	contradicted := false
	for _, key := range sortedAttrKeys(comp.Attributes) {
		want := comp.Attributes[key]
		got := snapshotField(snap, key)
		switch {
		case got == want:
			sum++
		case got == "":
			sum += 0.5
		default:
			contradicted = true
		}
	}
	return sum / float64(len(comp.Attributes)), contradicted
}

// snapshotField maps a path attribute key to the snapshot field it matches.
func snapshotField(snap model.ElementSnapshot, key string) string {
	switch key {
	case AttrTitle:
		return snap.Title
	case AttrLabel:
		return snap.Label
	case AttrValue:
		return snap.Value
	case AttrIdentifier:
		return snap.Identifier
	default:
		return ""
	}
}

// candidate is one group-transparent child considered for a path component.
type candidate struct {
	el      platform.Element
	snap    model.ElementSnapshot
	typeIdx int // position among same-type candidates
}

// flattenedChildren enumerates the group-transparent children of el:
// anonymous layout groups are flattened through recursively, so a component
// can match a grandchild directly when intermediate groups were pruned
// during generation. Sibling indexes are assigned among same-type entries
// of the flattened list. The generator and resolver both walk the tree
// through this enumeration — a recorded index is only meaningful if both
// sides count siblings identically.
func flattenedChildren(reader platform.TreeReader, el platform.Element, depthLeft int) []candidate {
	cands := collectFlattened(reader, el, depthLeft, nil)
	typeCounts := make(map[string]int, len(cands))
	for i := range cands {
		cands[i].typeIdx = typeCounts[cands[i].snap.Role]
		typeCounts[cands[i].snap.Role]++
	}
	return cands
}

func collectFlattened(reader platform.TreeReader, el platform.Element, depthLeft int, out []candidate) []candidate {
	if depthLeft <= 0 {
		return out
	}
	children, err := reader.Children(el)
	if err != nil {
		return out
	}
	for _, child := range children {
		snap, err := reader.Info(child)
		if err != nil {
			continue
		}
		if snap.Role == layoutGroupRole && snap.Title == "" && snap.Label == "" &&
			snap.Value == "" && snap.Identifier == "" {
			out = collectFlattened(reader, child, depthLeft-1, out)
			continue
		}
		out = append(out, candidate{el: child, snap: snap})
	}
	return out
}

// upperBound is the largest score a partial could still gain: every
// remaining component matching perfectly (exact type, all attributes, index
// bonus) at its depth weight.
func upperBound(depth, remaining int) float64 {
	const maxStep = scoreExactType + attrWeight + indexBonus
	var sum float64
	for i := 0; i < remaining; i++ {
		sum += float64(depth+i+1) * maxStep
	}
	return sum
}
