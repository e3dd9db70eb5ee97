package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/cache"
	"github.com/matzehuels/crumbtrail/pkg/observability"
	"github.com/matzehuels/crumbtrail/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, renderer and logger. It
// does not store pipeline results, so multiple goroutines can safely use
// the same Runner with different params.
type Runner[PK comparable] struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Renderer render.Renderer
	Logger   *log.Logger

	// TTL is how long rendered content is cached. Zero means
	// cache.TTLContent.
	TTL time.Duration
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// If renderer is nil, a render.Registry over the built-in templates is used.
func NewRunner[PK comparable](c cache.Cache, keyer cache.Keyer, renderer render.Renderer, logger *log.Logger) *Runner[PK] {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if renderer == nil {
		renderer = render.NewRegistry(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner[PK]{
		Cache:    c,
		Keyer:    keyer,
		Renderer: renderer,
		Logger:   logger,
	}
}

// Content runs the pipeline and returns the rendered content.
func (r *Runner[PK]) Content(ctx context.Context, p Params[PK]) (string, error) {
	res, err := r.Execute(ctx, p)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Execute runs the pipeline with caching. Content is looked up by a key
// derived from the params unless p.Refresh is set; a fresh result is
// stored afterwards. Errors are never cached.
func (r *Runner[PK]) Execute(ctx context.Context, p Params[PK]) (*Result[PK], error) {
	r.applyLogger(&p)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	keyOpts, err := p.ContentKeyOpts()
	if err != nil {
		return nil, fmt.Errorf("cache key: %w", err)
	}
	// A template that cannot be fingerprinted is not cached; rendering it
	// reports the error.
	cacheable := true
	if fp, ok := r.Renderer.(render.Fingerprinter); ok {
		if keyOpts.TemplateHash, err = fp.Fingerprint(p.Template); err != nil {
			cacheable = false
		}
	}
	cacheKey := r.Keyer.ContentKey(p.Template, keyOpts)

	if cacheable && !p.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "content")
			p.Logger.Debug("content cache hit", "template", p.Template, "current_path", p.CurrentPath)
			return &Result[PK]{Content: string(data), CacheHit: true}, nil
		} else if err != nil {
			p.Logger.Warn("content cache lookup failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "content")
	}

	chain, err := r.Resolve(ctx, p)
	if err != nil {
		return nil, err
	}

	content := ""
	if !chain.Empty() {
		content, err = r.Render(ctx, p.Template, chain, p.Connector)
		if err != nil {
			return nil, err
		}
	}

	if !cacheable {
		return &Result[PK]{Chain: chain, Content: content}, nil
	}

	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLContent
	}
	if err := r.Cache.Set(ctx, cacheKey, []byte(content), ttl); err != nil {
		p.Logger.Warn("content cache store failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "content", len(content))
	}

	return &Result[PK]{Chain: chain, Content: content}, nil
}

// Resolve builds the chain for p.CurrentPath and rewrites its paths with
// p.URLPrefix. It does not consult the cache and ignores p.Template. An
// empty chain means the current path matched no node.
func (r *Runner[PK]) Resolve(ctx context.Context, p Params[PK]) (breadcrumb.Chain[PK], error) {
	r.applyLogger(&p)
	if err := p.ValidateForResolve(); err != nil {
		return nil, err
	}

	p.Logger.Debug("resolving breadcrumb",
		"nodes", len(p.Nodes),
		"current_path", p.CurrentPath,
		"url_prefix", p.URLPrefix)

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, p.CurrentPath, len(p.Nodes))
	start := time.Now()

	chain, err := breadcrumb.Resolve(p.Nodes, p.CurrentPath)
	if err == nil {
		chain, err = breadcrumb.Rewrite(chain, p.URLPrefix)
	}
	hooks.OnResolveComplete(ctx, p.CurrentPath, len(chain), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if chain.Empty() {
		p.Logger.Warn("current path not found", "current_path", p.CurrentPath)
		return nil, nil
	}

	p.Logger.Debug("resolved breadcrumb", "length", chain.Len(), "duration", time.Since(start))
	return chain, nil
}

// Render renders chain with the runner's renderer. The output is returned
// verbatim.
func (r *Runner[PK]) Render(ctx context.Context, template string, chain breadcrumb.Chain[PK], connector string) (string, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, template, chain.Len())
	start := time.Now()

	out, err := r.Renderer.Render(ctx, template, render.FromChain(chain, connector))
	hooks.OnRenderComplete(ctx, template, len(out), time.Since(start), err)
	if err != nil {
		return "", err
	}

	r.Logger.Debug("rendered breadcrumb", "template", template, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner[PK]) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on params if not already set.
func (r *Runner[PK]) applyLogger(p *Params[PK]) {
	if p.Logger == nil {
		p.Logger = r.Logger
	}
}
