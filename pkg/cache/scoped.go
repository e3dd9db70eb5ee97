package cache

// ScopedKeyer wraps a Keyer with a prefix so several sites can share one
// cache backend without seeing each other's entries.
//
//	shopKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:shop:")
//	docsKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:docs:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ContentKey generates a prefixed key for rendered content.
func (k *ScopedKeyer) ContentKey(template string, opts ContentKeyOpts) string {
	return k.prefix + k.inner.ContentKey(template, opts)
}

// NodesKey generates a prefixed key for a loaded node collection.
func (k *ScopedKeyer) NodesKey(source, selector string) string {
	return k.prefix + k.inner.NodesKey(source, selector)
}
