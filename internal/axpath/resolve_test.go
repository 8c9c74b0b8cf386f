package axpath

import (
	"errors"
	"testing"
)

func TestResolve_EmptyPathReturnsRoot(t *testing.T) {
	root, _, _, _ := mailTree()
	r := NewResolver(newFakeReader(root))
	el, err := r.Resolve(root, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != root {
		t.Error("empty path should resolve to the root")
	}
}

func TestResolve_GenerateThenResolveIsIdentity(t *testing.T) {
	root, send, _, drafts := mailTree()
	reader := newFakeReader(root)
	g := NewGenerator(reader)
	r := NewResolver(reader)

	for name, target := range map[string]*fakeNode{"send": send, "drafts": drafts} {
		path, err := g.Generate(root, target)
		if err != nil {
			t.Fatalf("%s: Generate: %v", name, err)
		}
		el, err := r.Resolve(root, path)
		if err != nil {
			t.Fatalf("%s: Resolve(%q): %v", name, path, err)
		}
		if el != target {
			t.Errorf("%s: resolved to wrong element via %q", name, path)
		}
	}
}

func TestResolve_RootTypeComponentConsumedByRoot(t *testing.T) {
	root, send, _, _ := mailTree()
	r := NewResolver(newFakeReader(root))

	path, err := ParsePath(`Window[{"title":"Mail"}] > Button[{"title":"Send"}]`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != send {
		t.Error("leading Window component should be satisfied by the root itself")
	}

	onlyWindow, _ := ParsePath(`Window[{"title":"Mail"}]`)
	el, err = r.Resolve(root, onlyWindow)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != root {
		t.Error("path naming only the root's type should resolve to the root")
	}
}

func TestResolve_SurvivesSiblingReorder(t *testing.T) {
	// Recorded against [Reply, Send]: Send carries index 1. The tree has
	// since reordered to [Send, Reply]; the attribute match must win over
	// the stale index.
	send := titled("Button", "Send")
	reply := titled("Button", "Reply")
	root := titled("Window", "Mail", node("Group", send, reply))
	r := NewResolver(newFakeReader(root))

	path := Path{Component{
		Type:       "Button",
		Attributes: map[string]string{"title": "Send"},
	}.WithIndex(1)}

	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != send {
		t.Error("reordered sibling at the recorded index outscored the true target")
	}
}

func TestResolve_SkipsRemovedGroupComponent(t *testing.T) {
	// Path recorded as Window > Group > Button, but the Group wrapper has
	// been removed and Button is now a direct child of the Window.
	send := titled("Button", "Send")
	reply := titled("Button", "Reply")
	root := titled("Window", "Mail", send, reply)
	r := NewResolver(newFakeReader(root))

	path, err := ParsePath(`Window[{"title":"Mail"}] > Group > Button[{"title":"Send"}]`)
	if err != nil {
		t.Fatalf("ParsePath: %v", err)
	}
	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != send {
		t.Error("removed Group component should be skipped, resolving the Button directly")
	}
}

func TestResolve_ToleratesCompatibleTypeRename(t *testing.T) {
	// Recorded as a Button; the control is now exposed as a PopUpButton.
	popup := titled("PopUpButton", "Send")
	root := titled("Window", "Mail", node("Group", popup))
	r := NewResolver(newFakeReader(root))

	path := Path{{Type: "Button", Attributes: map[string]string{"title": "Send"}}}
	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != popup {
		t.Error("compatibility-group member should still match")
	}
}

func TestResolve_DeeperMatchesOutweighEarlyOnes(t *testing.T) {
	// Branch A matches the intermediate Group exactly but not the leaf;
	// branch B mismatches the Group but matches the leaf. Leaf matches are
	// weighted by depth, so branch B must win.
	buttonZ := titled("Button", "Z")
	buttonY := titled("Button", "Y")
	root := titled("Window", "Mail",
		titled("Group", "X", buttonZ),
		titled("Group", "W", buttonY),
	)
	r := NewResolver(newFakeReader(root))

	path := Path{
		{Type: "Group", Attributes: map[string]string{"title": "X"}},
		{Type: "Button", Attributes: map[string]string{"title": "Y"}},
	}
	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != buttonY {
		t.Error("deeper leaf match should outweigh the earlier container match")
	}
}

func TestResolve_FlattensAnonymousGroups(t *testing.T) {
	// The target is buried under two anonymous wrapper groups that were
	// pruned at generation time; the component must match the grandchild.
	send := titled("Button", "Send")
	root := titled("Window", "Mail", node("Group", node("Group", send)))
	r := NewResolver(newFakeReader(root))

	path := Path{{Type: "Button", Attributes: map[string]string{"title": "Send"}}}
	el, err := r.Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if el != send {
		t.Error("group-transparent traversal should reach the nested Button")
	}
}

func TestResolve_NotFound(t *testing.T) {
	root, _, _, _ := mailTree()
	r := NewResolver(newFakeReader(root))

	path := Path{{Type: "TextField", Attributes: map[string]string{"label": "Subject"}}}
	if _, err := r.Resolve(root, path); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_NonSkippableComponentIsNotSkipped(t *testing.T) {
	send := titled("Button", "Send")
	root := titled("Window", "Mail", send)
	r := NewResolver(newFakeReader(root))

	// TextField is not in the skippable set, so its absence fails the path
	// even though the leaf exists.
	path := Path{
		{Type: "TextField"},
		{Type: "Button", Attributes: map[string]string{"title": "Send"}},
	}
	if _, err := r.Resolve(root, path); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolve_IndexCountsFlattenedSiblings(t *testing.T) {
	// One Button sits directly under the Window while a second is nested
	// inside an anonymous wrapper Group. Generator and resolver must count
	// same-type siblings over the same flattened list, or the recorded
	// index names the wrong element on an unchanged tree.
	direct := node("Button")
	nested := node("Button")
	root := titled("Window", "Mail", direct, node("Group", nested))
	reader := newFakeReader(root)

	path, err := NewGenerator(reader).Generate(root, nested)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(path) != 1 || path[0].Index == nil || *path[0].Index != 1 {
		t.Fatalf("nested Button should be the second flattened Button, got %v", path)
	}

	el, err := NewResolver(reader).Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", path, err)
	}
	if el != nested {
		t.Error("resolved the direct Button instead of the recorded nested one")
	}

	// And the mirror case: the direct Button is the first flattened entry.
	path, err = NewGenerator(reader).Generate(root, direct)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(path) != 1 || path[0].Index == nil || *path[0].Index != 0 {
		t.Fatalf("direct Button should be the first flattened Button, got %v", path)
	}
	el, err = NewResolver(reader).Resolve(root, path)
	if err != nil {
		t.Fatalf("Resolve(%q): %v", path, err)
	}
	if el != direct {
		t.Error("resolved the nested Button instead of the recorded direct one")
	}
}
