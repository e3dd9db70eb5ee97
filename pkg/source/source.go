// Package source loads breadcrumb node collections from external stores.
//
// A [Source] returns the full collection in a stable order; resolution is
// first-match-wins, so the order a source yields nodes in is observable.
// Implementations live in subpackages:
//
//   - [github.com/matzehuels/crumbtrail/pkg/source/file]: JSON or TOML documents
//   - [github.com/matzehuels/crumbtrail/pkg/source/sqlite]: an SQLite table
//   - [github.com/matzehuels/crumbtrail/pkg/source/mongo]: a MongoDB collection
//
// Sources are generic over the node key. Callers that do not know the key
// type ahead of time (the CLI and the HTTP server) use [ID], which accepts
// both numeric and string keys.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/cache"
	"github.com/matzehuels/crumbtrail/pkg/observability"
)

// Source loads a node collection.
type Source[PK comparable] interface {
	// Load returns every node in the store in store order.
	Load(ctx context.Context) ([]breadcrumb.Node[PK], error)

	// Name identifies the source in logs and cache keys, e.g. "file:nav.json".
	Name() string
}

// Cached wraps a Source and memoises its collection in a cache.
// It is meant for remote stores; local files are cheap enough to re-read.
type Cached[PK comparable] struct {
	Source Source[PK]
	Cache  cache.Cache
	Keyer  cache.Keyer

	// Selector narrows the cache key when one store serves several
	// collections (for example a Mongo filter).
	Selector string

	// TTL defaults to cache.TTLNodes.
	TTL time.Duration

	// Refresh skips the cache lookup but still stores the fresh result.
	Refresh bool
}

// NewCached wraps src with c. A nil keyer means cache.DefaultKeyer.
func NewCached[PK comparable](src Source[PK], c cache.Cache, keyer cache.Keyer) *Cached[PK] {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Cached[PK]{Source: src, Cache: c, Keyer: keyer, TTL: cache.TTLNodes}
}

// Name implements Source.
func (c *Cached[PK]) Name() string { return c.Source.Name() }

// Load implements Source.
func (c *Cached[PK]) Load(ctx context.Context) ([]breadcrumb.Node[PK], error) {
	key := c.Keyer.NodesKey(c.Source.Name(), c.Selector)

	if !c.Refresh {
		if data, hit, err := c.Cache.Get(ctx, key); err == nil && hit {
			var nodes []breadcrumb.Node[PK]
			if err := json.Unmarshal(data, &nodes); err == nil {
				observability.Cache().OnCacheHit(ctx, "nodes")
				return nodes, nil
			}
			// If deserialization fails, fall through to reload
		}
		observability.Cache().OnCacheMiss(ctx, "nodes")
	}

	nodes, err := c.Source.Load(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(nodes); err == nil {
		ttl := c.TTL
		if ttl == 0 {
			ttl = cache.TTLNodes
		}
		if err := c.Cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnCacheSet(ctx, "nodes", len(data))
		}
	}
	return nodes, nil
}

// Static is a Source over an in-memory collection.
type Static[PK comparable] []breadcrumb.Node[PK]

// Load implements Source. It returns the collection itself.
func (s Static[PK]) Load(context.Context) ([]breadcrumb.Node[PK], error) { return s, nil }

// Name implements Source.
func (s Static[PK]) Name() string { return fmt.Sprintf("static:%d", len(s)) }
