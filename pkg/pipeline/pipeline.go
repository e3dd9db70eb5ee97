// Package pipeline runs the resolve → rewrite → render pipeline that turns a
// node collection into breadcrumb content.
//
// The CLI and the HTTP server both go through a [Runner] so that caching,
// logging and observability hooks behave the same at every entry point.
//
// # Stages
//
//  1. Resolve: build the chain for the current path (or validate a tree)
//  2. Rewrite: prefix relative paths with the configured URL prefix
//  3. Render: hand the chain and connector to a [render.Renderer]
//
// A current path that matches no node is not an error. The pipeline logs a
// warning and returns empty content without calling the renderer.
//
// # Usage
//
//	runner := pipeline.NewRunner[int](cache, nil, nil, logger)
//	out, err := runner.Content(ctx, pipeline.Params[int]{
//	    Nodes:       nodes,
//	    CurrentPath: "/shop/shoes",
//	    URLPrefix:   "https://example.com/",
//	    Connector:   ">",
//	    Template:    render.TemplateHTML,
//	})
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/cache"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultTemplate is used by entry points when no template is configured.
// Params itself has no default: an empty template is a usage error.
const DefaultTemplate = render.TemplateHTML

// DefaultConnector separates crumbs when no connector is configured.
const DefaultConnector = "/"

// =============================================================================
// Params - Pipeline Input
// =============================================================================

// Params is the input for one pipeline run.
// It supports JSON serialization for HTTP requests.
type Params[PK comparable] struct {
	Nodes       []breadcrumb.Node[PK] `json:"nodes"`
	CurrentPath string                `json:"current_path,omitempty"`
	URLPrefix   string                `json:"url_prefix,omitempty"`
	Connector   string                `json:"connector,omitempty"`
	Template    string                `json:"template"`
	Refresh     bool                  `json:"refresh,omitempty"` // bypass the content cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Validate checks that the params can be run. Empty nodes and an empty
// template are usage errors and never reach the resolver.
func (p *Params[PK]) Validate() error {
	if err := p.ValidateForResolve(); err != nil {
		return err
	}
	if p.Template == "" {
		return errors.New(errors.ErrCodeInvalidInput, "template is required")
	}
	return nil
}

// ValidateForResolve checks the fields resolution needs. The template is
// not required.
func (p *Params[PK]) ValidateForResolve() error {
	if len(p.Nodes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "nodes cannot be empty")
	}
	if p.Logger == nil {
		p.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ContentKeyOpts returns cache key options covering every input that
// changes the rendered content.
func (p *Params[PK]) ContentKeyOpts() (cache.ContentKeyOpts, error) {
	nodesHash, err := cache.HashJSON(p.Nodes)
	if err != nil {
		return cache.ContentKeyOpts{}, err
	}
	return cache.ContentKeyOpts{
		NodesHash:   nodesHash,
		CurrentPath: p.CurrentPath,
		URLPrefix:   p.URLPrefix,
		Connector:   p.Connector,
	}, nil
}

// Result contains the outputs of a pipeline run.
type Result[PK comparable] struct {
	// Chain is the resolved and rewritten chain. It is nil when the result
	// came from the cache.
	Chain breadcrumb.Chain[PK]

	// Content is the rendered output, empty when the chain is empty.
	Content string

	// CacheHit reports whether Content came from the cache.
	CacheHit bool
}
