package axpath

// compatGroup is an equivalence class of element types treated as mutually
// substitutable during matching, with the score awarded when a path
// component's type and a candidate's type fall in the same group but are not
// an exact match. More specific groups score higher.
type compatGroup struct {
	name    string
	score   float64
	members []string
}

var compatGroups = []compatGroup{
	{"buttons", 80, []string{"Button", "PopUpButton", "MenuButton", "ToggleButton"}},
	{"menus", 80, []string{"Menu", "MenuBar", "MenuBarItem", "MenuItem"}},
	{"windows", 80, []string{"Window", "Dialog", "Sheet", "Drawer"}},
	{"text", 70, []string{"TextField", "TextArea", "StaticText", "Text"}},
	{"lists", 70, []string{"List", "Outline", "Table"}},
	{"images", 70, []string{"Image", "Icon"}},
	{"ranges", 70, []string{"ProgressIndicator", "Slider"}},
	{"containers", 60, []string{"Group", "ScrollArea", "SplitGroup", "TabGroup"}},
}

// compatIndex maps a type name to its group, built once at init.
var compatIndex = func() map[string]*compatGroup {
	idx := make(map[string]*compatGroup)
	for i := range compatGroups {
		for _, m := range compatGroups[i].members {
			idx[m] = &compatGroups[i]
		}
	}
	return idx
}()

// scoreExactType is the score for an exact type match.
const scoreExactType = 100

// typeScore returns the type-compatibility score between a path component's
// type and a candidate's type: 100 for exact, the group score for members of
// the same compatibility group, 0 otherwise (candidate is pruned, not scored).
func typeScore(want, got string) float64 {
	if want == got {
		return scoreExactType
	}
	wg, ok := compatIndex[want]
	if !ok {
		return 0
	}
	gg, ok := compatIndex[got]
	if !ok || wg != gg {
		return 0
	}
	return wg.score
}

// skippableTypes are component types that may be skipped entirely when no
// candidate clears the acceptance threshold: paths recorded against an
// intermediate container tolerate that container disappearing.
var skippableTypes = map[string]bool{
	"Group":      true,
	"ScrollArea": true,
}

// layoutGroupRole is the purely structural container role. Layout groups with
// no discriminating attributes are dropped from generated paths and flattened
// through during resolution.
const layoutGroupRole = "Group"

// orderIrrelevantParents are container roles whose direct children carry no
// sibling index in generated paths.
var orderIrrelevantParents = map[string]bool{
	"TabGroup": true,
}
