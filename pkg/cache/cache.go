// Package cache memoises rendered breadcrumb content.
//
// Rendering a trail is cheap compared to loading the node collection and
// executing a template for every request, so the pipeline stores finished
// content under a key derived from everything that influences the output:
// the nodes, the current path, the URL prefix, the connector and the
// template. Identical requests are then answered from the cache.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
//
// # Keys
//
// Keys are produced by a [Keyer] so that deployments can namespace them
// (see [ScopedKeyer]). The default keyer hashes its inputs with SHA-256.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. The bool reports a hit; a miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// TTLs for cached content.
const (
	// TTLContent is how long rendered breadcrumb content stays valid.
	TTLContent = 24 * time.Hour

	// TTLNodes is how long a node collection loaded from a remote source
	// stays valid.
	TTLNodes = time.Hour
)

// ContentKeyOpts holds every input that changes rendered output.
type ContentKeyOpts struct {
	NodesHash   string `json:"nodes_hash"`
	CurrentPath string `json:"current_path,omitempty"`
	URLPrefix   string `json:"url_prefix,omitempty"`
	Connector   string `json:"connector,omitempty"`

	// TemplateHash identifies the template source, so edited or shadowed
	// templates get new keys.
	TemplateHash string `json:"template_hash,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ContentKey returns the key for content rendered with template.
	ContentKey(template string, opts ContentKeyOpts) string

	// NodesKey returns the key for a node collection loaded from source.
	NodesKey(source, selector string) string
}

// DefaultKeyer produces unprefixed, hashed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ContentKey returns "content:<sha256>" over the template and options.
func (DefaultKeyer) ContentKey(template string, opts ContentKeyOpts) string {
	return hashKey("content", template, opts)
}

// NodesKey returns "nodes:<source>:<selector>".
func (DefaultKeyer) NodesKey(source, selector string) string {
	return "nodes:" + source + ":" + selector
}
