package breadcrumb

import (
	"slices"
	"strings"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

// Resolve returns the breadcrumb chain for currentPath.
//
// A blank currentPath (empty or only whitespace) selects tree mode: nodes must already form a single
// chain, which is returned as given. Otherwise the first node whose Path
// equals currentPath is located and its ancestors are collected by following
// ParentID links; the result is ordered root first. If no node has that path
// Resolve returns a nil chain and a nil error.
//
// Errors (all *errors.Error):
//   - INVALID_INPUT when nodes is empty
//   - INVALID_TREE_STRUCTURE in tree mode when a ParentID is shared
//   - CYCLIC_STRUCTURE when the parent walk revisits a node
func Resolve[PK comparable](nodes []Node[PK], currentPath string) (Chain[PK], error) {
	if len(nodes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nodes cannot be empty")
	}

	if strings.TrimSpace(currentPath) == "" {
		return resolveTree(nodes)
	}

	idx := indexByPath(nodes, currentPath)
	if idx < 0 {
		return nil, nil
	}
	return walkParents(nodes, idx)
}

// FindByPath returns the first node whose Path equals path.
func FindByPath[PK comparable](nodes []Node[PK], path string) (Node[PK], bool) {
	if i := indexByPath(nodes, path); i >= 0 {
		return nodes[i], true
	}
	var zero Node[PK]
	return zero, false
}

// ParentCounts returns how many nodes reference each ParentID.
func ParentCounts[PK comparable](nodes []Node[PK]) map[PK]int {
	counts := make(map[PK]int, len(nodes))
	for _, n := range nodes {
		counts[n.ParentID]++
	}
	return counts
}

func resolveTree[PK comparable](nodes []Node[PK]) (Chain[PK], error) {
	counts := ParentCounts(nodes)
	for _, n := range nodes {
		if c := counts[n.ParentID]; c > 1 {
			return nil, errors.New(errors.ErrCodeInvalidTreeStructure,
				"no current path given, but %d nodes share parent id %v", c, n.ParentID)
		}
	}
	// Passed through in input order; sorting a linked but shuffled chain is not supported.
	return Chain[PK](nodes), nil
}

// walkParents follows ParentID links from nodes[start] and returns the
// visited nodes root first.
func walkParents[PK comparable](nodes []Node[PK], start int) (Chain[PK], error) {
	visited := make(map[int]bool)
	var chain Chain[PK]

	for i := start; i >= 0; i = indexByID(nodes, nodes[i].ParentID) {
		if visited[i] {
			return nil, errors.New(errors.ErrCodeCyclicStructure,
				"parent walk from %q revisits node %v", nodes[start].Path, nodes[i].ID)
		}
		visited[i] = true
		chain = append(chain, nodes[i])
	}

	slices.Reverse(chain)
	return chain, nil
}

func indexByPath[PK comparable](nodes []Node[PK], path string) int {
	return slices.IndexFunc(nodes, func(n Node[PK]) bool { return n.Path == path })
}

func indexByID[PK comparable](nodes []Node[PK], id PK) int {
	return slices.IndexFunc(nodes, func(n Node[PK]) bool { return n.ID == id })
}
