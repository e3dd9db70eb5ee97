// Package render turns a resolved breadcrumb chain into output text.
//
// # Overview
//
// Renderers receive a [Data] value: the ordered crumbs (root first, current
// last) and the connector placed between them. They know nothing about how
// the chain was resolved. Use [FromChain] to build Data from a
// breadcrumb.Chain.
//
// # Renderers
//
//   - [TemplateRenderer]: Go templates looked up by name in one or more
//     file systems. Names ending in ".html.tmpl" are executed with
//     html/template, everything else with text/template. Two templates are
//     built in: "breadcrumb.html.tmpl" and "breadcrumb.txt.tmpl".
//   - [JSONRenderer]: the Data value as JSON.
//   - [DOTRenderer]: a Graphviz digraph of the trail, as DOT source or as
//     SVG rendered through Graphviz.
//   - [TerminalRenderer]: a styled single line for terminals.
//
// [Registry] dispatches on the requested name so callers can treat all of
// them as one [Renderer]:
//
//	r := render.NewRegistry(tmpl)
//	out, err := r.Render(ctx, "breadcrumb.html.tmpl", data)
//	out, err = r.Render(ctx, render.NameJSON, data)
package render
