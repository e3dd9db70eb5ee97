package breadcrumb

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

func shopNodes() []Node[int] {
	return []Node[int]{
		{ID: 1, ParentID: 0, Path: "/home"},
		{ID: 2, ParentID: 1, Path: "/home/cat"},
		{ID: 3, ParentID: 2, Path: "/home/cat/item"},
	}
}

func ids[PK comparable](c Chain[PK]) []PK {
	out := make([]PK, len(c))
	for i, n := range c {
		out[i] = n.ID
	}
	return out
}

func TestResolveWithCurrentPath(t *testing.T) {
	chain, err := Resolve(shopNodes(), "/home/cat/item")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got, want := ids(chain), []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !chain.Linked() {
		t.Error("resolved chain should be linked")
	}
}

func TestResolveMissingPath(t *testing.T) {
	chain, err := Resolve(shopNodes(), "/missing")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !chain.Empty() {
		t.Errorf("Resolve() = %v, want empty chain", chain)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	for _, nodes := range [][]Node[int]{nil, {}} {
		_, err := Resolve(nodes, "/home")
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Resolve(%v) error = %v, want %s", nodes, err, errors.ErrCodeInvalidInput)
		}
	}
}

func TestResolveTreeModeDuplicateParent(t *testing.T) {
	nodes := []Node[int]{
		{ID: 1, ParentID: 0, Path: "/a"},
		{ID: 2, ParentID: 0, Path: "/b"},
	}
	_, err := Resolve(nodes, "")
	if !errors.Is(err, errors.ErrCodeInvalidTreeStructure) {
		t.Fatalf("Resolve() error = %v, want %s", err, errors.ErrCodeInvalidTreeStructure)
	}
}

func TestResolveTreeModePassThrough(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node[int]
	}{
		{"ordered chain", shopNodes()},
		{"shuffled chain", []Node[int]{
			{ID: 3, ParentID: 2, Path: "/home/cat/item"},
			{ID: 1, ParentID: 0, Path: "/home"},
			{ID: 2, ParentID: 1, Path: "/home/cat"},
		}},
		{"single node", []Node[int]{{ID: 7, ParentID: 0, Path: "/only"}}},
		{"unrelated nodes", []Node[int]{
			{ID: 1, ParentID: 10, Path: "/x"},
			{ID: 2, ParentID: 20, Path: "/y"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := Resolve(tt.nodes, "")
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got, want := ids(chain), ids(Chain[int](tt.nodes)); !slices.Equal(got, want) {
				t.Errorf("ids = %v, want input order %v", got, want)
			}
		})
	}
}

func TestResolveBlankPathIsTreeMode(t *testing.T) {
	for _, path := range []string{" ", "\t", "  \n"} {
		chain, err := Resolve(shopNodes(), path)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", path, err)
		}
		if got, want := ids(chain), []int{1, 2, 3}; !slices.Equal(got, want) {
			t.Errorf("Resolve(%q) ids = %v, want tree pass-through %v", path, got, want)
		}
	}

	dup := []Node[int]{{ID: 1, Path: "/a"}, {ID: 2, Path: "/b"}}
	if _, err := Resolve(dup, "  "); !errors.Is(err, errors.ErrCodeInvalidTreeStructure) {
		t.Errorf("Resolve(blank) on shared parents error = %v, want %s", err, errors.ErrCodeInvalidTreeStructure)
	}
}

func TestResolveRootOnly(t *testing.T) {
	chain, err := Resolve(shopNodes(), "/home")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got, want := ids(chain), []int{1}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestResolveMissingParentEndsWalk(t *testing.T) {
	nodes := []Node[int]{
		{ID: 2, ParentID: 1, Path: "/orphan"},
		{ID: 3, ParentID: 2, Path: "/orphan/child"},
	}
	chain, err := Resolve(nodes, "/orphan/child")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got, want := ids(chain), []int{2, 3}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	t.Run("duplicate path", func(t *testing.T) {
		nodes := []Node[int]{
			{ID: 1, ParentID: 0, Path: "/root"},
			{ID: 2, ParentID: 1, Path: "/dup", Name: "first"},
			{ID: 3, ParentID: 0, Path: "/dup", Name: "second"},
		}
		chain, err := Resolve(nodes, "/dup")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		cur, _ := chain.Current()
		if cur.Name != "first" {
			t.Errorf("current = %q, want %q", cur.Name, "first")
		}
		if got, want := ids(chain), []int{1, 2}; !slices.Equal(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
	})

	t.Run("duplicate parent id", func(t *testing.T) {
		nodes := []Node[int]{
			{ID: 5, ParentID: 0, Path: "/left", Name: "left"},
			{ID: 5, ParentID: 0, Path: "/right", Name: "right"},
			{ID: 6, ParentID: 5, Path: "/child"},
		}
		chain, err := Resolve(nodes, "/child")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		root, _ := chain.Root()
		if root.Name != "left" {
			t.Errorf("root = %q, want %q", root.Name, "left")
		}
	})
}

func TestResolveCycle(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node[int]
		path  string
	}{
		{"self parent", []Node[int]{{ID: 1, ParentID: 1, Path: "/self"}}, "/self"},
		{"two cycle", []Node[int]{
			{ID: 1, ParentID: 2, Path: "/a"},
			{ID: 2, ParentID: 1, Path: "/b"},
		}, "/a"},
		{"cycle above current", []Node[int]{
			{ID: 1, ParentID: 3, Path: "/a"},
			{ID: 2, ParentID: 1, Path: "/b"},
			{ID: 3, ParentID: 2, Path: "/c"},
			{ID: 4, ParentID: 3, Path: "/d"},
		}, "/d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.nodes, tt.path)
			if !errors.Is(err, errors.ErrCodeCyclicStructure) {
				t.Errorf("Resolve() error = %v, want %s", err, errors.ErrCodeCyclicStructure)
			}
		})
	}
}

// TestResolveDepth builds a tree of known depth and checks that every node
// resolves to a linked chain of depth+1 nodes ending in itself.
func TestResolveDepth(t *testing.T) {
	var nodes []Node[int]
	depth := map[int]int{}
	for id := 1; id <= 40; id++ {
		parent := id / 3 // 1,2 are roots (parent 0); others hang below
		nodes = append(nodes, Node[int]{ID: id, ParentID: parent, Path: fmt.Sprintf("/n/%d", id)})
		if parent == 0 {
			depth[id] = 0
		} else {
			depth[id] = depth[parent] + 1
		}
	}

	for _, n := range nodes {
		chain, err := Resolve(nodes, n.Path)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", n.Path, err)
		}
		if chain.Len() != depth[n.ID]+1 {
			t.Errorf("Resolve(%q) len = %d, want %d", n.Path, chain.Len(), depth[n.ID]+1)
		}
		if cur, _ := chain.Current(); cur.ID != n.ID {
			t.Errorf("Resolve(%q) current = %d, want %d", n.Path, cur.ID, n.ID)
		}
		if !chain.Linked() {
			t.Errorf("Resolve(%q) chain not linked: %v", n.Path, ids(chain))
		}
	}
}

func TestResolveStringAndUUIDKeys(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		nodes := []Node[string]{
			{ID: "root", Path: "/"},
			{ID: "docs", ParentID: "root", Path: "/docs"},
		}
		chain, err := Resolve(nodes, "/docs")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if got, want := ids(chain), []string{"root", "docs"}; !slices.Equal(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
	})

	t.Run("uuid", func(t *testing.T) {
		root, child := uuid.New(), uuid.New()
		nodes := []Node[uuid.UUID]{
			{ID: child, ParentID: root, Path: "/docs"},
			{ID: root, ParentID: uuid.Nil, Path: "/"},
		}
		chain, err := Resolve(nodes, "/docs")
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if got, want := ids(chain), []uuid.UUID{root, child}; !slices.Equal(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
	})
}

func TestFindByPath(t *testing.T) {
	n, ok := FindByPath(shopNodes(), "/home/cat")
	if !ok || n.ID != 2 {
		t.Errorf("FindByPath() = %v, %v, want id 2", n, ok)
	}
	if _, ok := FindByPath(shopNodes(), "/nope"); ok {
		t.Error("FindByPath() should miss unknown path")
	}
}

func TestParentCounts(t *testing.T) {
	nodes := []Node[int]{
		{ID: 1, ParentID: 0},
		{ID: 2, ParentID: 0},
		{ID: 3, ParentID: 1},
	}
	counts := ParentCounts(nodes)
	if counts[0] != 2 || counts[1] != 1 || len(counts) != 2 {
		t.Errorf("ParentCounts() = %v", counts)
	}
}

func TestChainAccessors(t *testing.T) {
	var empty Chain[int]
	if _, ok := empty.Root(); ok {
		t.Error("Root() of empty chain should report false")
	}
	if _, ok := empty.Current(); ok {
		t.Error("Current() of empty chain should report false")
	}
	if empty.Clone() != nil {
		t.Error("Clone() of nil chain should be nil")
	}

	c := Chain[int](shopNodes())
	if got := c.Paths(); !slices.Equal(got, []string{"/home", "/home/cat", "/home/cat/item"}) {
		t.Errorf("Paths() = %v", got)
	}
	if (Node[int]{Path: "/p"}).Label() != "/p" {
		t.Error("Label() should fall back to path")
	}
	if (Node[int]{Path: "/p", Name: "Shoes"}).Label() != "Shoes" {
		t.Error("Label() should prefer name")
	}
}
