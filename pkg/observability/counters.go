package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies pipeline, cache and HTTP events in memory. One value can
// be registered for all three hook sets. The zero value is ready to use.
type Counters struct {
	resolves      atomic.Int64
	resolveErrors atomic.Int64
	renders       atomic.Int64
	renderErrors  atomic.Int64
	renderedBytes atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	cacheSets     atomic.Int64
	requests      atomic.Int64
	serverErrors  atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Resolves      int64 `json:"resolves"`
	ResolveErrors int64 `json:"resolve_errors"`
	Renders       int64 `json:"renders"`
	RenderErrors  int64 `json:"render_errors"`
	RenderedBytes int64 `json:"rendered_bytes"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	CacheSets     int64 `json:"cache_sets"`
	Requests      int64 `json:"requests"`
	ServerErrors  int64 `json:"server_errors"`
}

// Register installs c as the pipeline, cache and HTTP hooks.
func (c *Counters) Register() {
	SetPipelineHooks(c)
	SetCacheHooks(c)
	SetHTTPHooks(c)
}

// Snapshot reads every counter.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Resolves:      c.resolves.Load(),
		ResolveErrors: c.resolveErrors.Load(),
		Renders:       c.renders.Load(),
		RenderErrors:  c.renderErrors.Load(),
		RenderedBytes: c.renderedBytes.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		CacheSets:     c.cacheSets.Load(),
		Requests:      c.requests.Load(),
		ServerErrors:  c.serverErrors.Load(),
	}
}

func (c *Counters) OnResolveStart(context.Context, string, int) {}

func (c *Counters) OnResolveComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.resolves.Add(1)
	if err != nil {
		c.resolveErrors.Add(1)
	}
}

func (c *Counters) OnRenderStart(context.Context, string, int) {}

func (c *Counters) OnRenderComplete(_ context.Context, _ string, size int, _ time.Duration, err error) {
	c.renders.Add(1)
	if err != nil {
		c.renderErrors.Add(1)
		return
	}
	c.renderedBytes.Add(int64(size))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) { c.cacheSets.Add(1) }

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
