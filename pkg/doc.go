// Package pkg holds the libraries behind crumbtrail, a breadcrumb navigation
// builder.
//
// # Overview
//
// A breadcrumb is the root-to-current trail of pages shown at the top of a
// site. crumbtrail builds it from a flat collection of nodes that each name
// their parent:
//
//  1. [breadcrumb] - chain resolution and URL-prefix rewriting
//  2. [render] - templates, JSON, Graphviz and terminal output
//  3. [pipeline] - orchestration with caching (resolve → rewrite → render)
//  4. [source] - node collections from files, SQLite and MongoDB
//  5. [cache] - file, Redis and no-op content caches
//  6. [errors] - coded errors shared by every package
//  7. [observability] - hooks for metrics and tracing
//
// # Data Flow
//
//	node file / SQLite / MongoDB
//	         ↓
//	    [source] (load nodes)
//	         ↓
//	    [breadcrumb] (resolve chain, rewrite paths)
//	         ↓
//	    [render] (template or format)
//	         ↓
//	    HTML / text / JSON / DOT / SVG
//
// # Quick Start
//
//	nodes, _ := file.Import[int]("nav.json")
//	runner := pipeline.NewRunner[int](nil, nil, nil, nil)
//	html, err := runner.Content(ctx, pipeline.Params[int]{
//	    Nodes:       nodes,
//	    CurrentPath: "/shop/shoes",
//	    Connector:   ">",
//	    Template:    render.TemplateHTML,
//	})
package pkg
