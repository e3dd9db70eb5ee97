package breadcrumb

// Metadata stores arbitrary key-value pairs attached to a node. Resolution
// never reads it; it is passed through to templates untouched.
type Metadata map[string]any

// Node is a single navigation entry.
//
// A node is a root when no node in the collection has an ID equal to its
// ParentID. The zero value of PK is the conventional root marker, but any
// value that matches no ID works.
type Node[PK comparable] struct {
	ID       PK       `json:"id" toml:"id" bson:"id"`
	ParentID PK       `json:"parent_id" toml:"parent_id" bson:"parent_id"`
	Path     string   `json:"path" toml:"path" bson:"path"`
	Name     string   `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	Meta     Metadata `json:"meta,omitempty" toml:"meta" bson:"meta,omitempty"`
}

// Label returns the text shown for the node: Name if set, Path otherwise.
func (n Node[PK]) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.Path
}

// Chain is an ordered trail of nodes, root first and current node last.
type Chain[PK comparable] []Node[PK]

// Len returns the number of nodes in the chain.
func (c Chain[PK]) Len() int { return len(c) }

// Empty reports whether the chain has no nodes.
func (c Chain[PK]) Empty() bool { return len(c) == 0 }

// Root returns the first node of the chain.
// The second result is false for an empty chain.
func (c Chain[PK]) Root() (Node[PK], bool) {
	if len(c) == 0 {
		var zero Node[PK]
		return zero, false
	}
	return c[0], true
}

// Current returns the last node of the chain.
// The second result is false for an empty chain.
func (c Chain[PK]) Current() (Node[PK], bool) {
	if len(c) == 0 {
		var zero Node[PK]
		return zero, false
	}
	return c[len(c)-1], true
}

// Linked reports whether every node's predecessor in the chain is its parent.
// Chains built by the parent walk are always linked; tree-mode chains are
// linked only if the caller supplied them in order.
func (c Chain[PK]) Linked() bool {
	for i := 1; i < len(c); i++ {
		if c[i-1].ID != c[i].ParentID {
			return false
		}
	}
	return true
}

// Paths returns the path of every node in chain order.
func (c Chain[PK]) Paths() []string {
	paths := make([]string, len(c))
	for i, n := range c {
		paths[i] = n.Path
	}
	return paths
}

// Clone returns a copy of the chain. Meta maps are shared with the original.
func (c Chain[PK]) Clone() Chain[PK] {
	if c == nil {
		return nil
	}
	out := make(Chain[PK], len(c))
	copy(out, c)
	return out
}
