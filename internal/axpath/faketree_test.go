package axpath

import (
	"fmt"

	"github.com/HarishgunaS/sisypho-sdk/internal/model"
	"github.com/HarishgunaS/sisypho-sdk/internal/platform"
)

// fakeNode is an in-memory accessibility element for tests.
type fakeNode struct {
	snap     model.ElementSnapshot
	children []*fakeNode
}

func node(role string, children ...*fakeNode) *fakeNode {
	return &fakeNode{snap: model.ElementSnapshot{Role: role}, children: children}
}

func titled(role, title string, children ...*fakeNode) *fakeNode {
	return &fakeNode{snap: model.ElementSnapshot{Role: role, Title: title}, children: children}
}

// fakeReader implements platform.TreeReader over a fakeNode tree.
type fakeReader struct {
	root     *fakeNode
	atPoint  *fakeNode
	infoErr  map[*fakeNode]bool
	performs []string
}

func newFakeReader(root *fakeNode) *fakeReader {
	return &fakeReader{root: root}
}

func (r *fakeReader) ApplicationRoot() (platform.Element, error) { return r.root, nil }

func (r *fakeReader) ElementAt(x, y float64) (platform.Element, error) {
	if r.atPoint == nil {
		return nil, fmt.Errorf("no element at (%v, %v)", x, y)
	}
	return r.atPoint, nil
}

func (r *fakeReader) Children(el platform.Element) ([]platform.Element, error) {
	n := el.(*fakeNode)
	out := make([]platform.Element, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}

func (r *fakeReader) Info(el platform.Element) (model.ElementSnapshot, error) {
	n := el.(*fakeNode)
	if r.infoErr[n] {
		return model.ElementSnapshot{}, fmt.Errorf("read failed")
	}
	return n.snap, nil
}

func (r *fakeReader) Perform(el platform.Element, action string) error {
	n := el.(*fakeNode)
	r.performs = append(r.performs, action+":"+n.snap.Role)
	return nil
}

func (r *fakeReader) Same(a, b platform.Element) bool { return a == b }
