package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/crumbtrail/pkg/errors"
)

// Names understood by [DOTRenderer].
const (
	NameDOT = "dot"
	NameSVG = "svg"
)

// DOTRenderer draws the trail as a left-to-right Graphviz digraph. The
// connector labels the edges and the current crumb is drawn bold.
// Rendering as NameSVG runs the graph through Graphviz; any other name
// returns the DOT source.
type DOTRenderer struct{}

// Render implements Renderer.
func (DOTRenderer) Render(ctx context.Context, name string, data Data) (string, error) {
	dot := ToDOT(data)
	if name != NameSVG {
		return dot, nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render breadcrumb svg")
	}
	return string(svg), nil
}

// ToDOT converts render data to Graphviz DOT source. Crumbs are named
// c0, c1, ... in trail order so duplicate labels stay distinct.
func ToDOT(data Data) string {
	var buf bytes.Buffer
	buf.WriteString("digraph breadcrumb {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i, c := range data.Crumbs {
		attrs := fmt.Sprintf("label=%q, tooltip=%q", c.Name, c.Path)
		if c.Current {
			attrs += ", style=\"rounded,filled,bold\", penwidth=2"
		} else if c.Path != "" {
			attrs += fmt.Sprintf(", URL=%q", c.Path)
		}
		fmt.Fprintf(&buf, "  c%d [%s];\n", i, attrs)
	}

	if len(data.Crumbs) > 1 {
		buf.WriteString("\n")
	}
	for i := 1; i < len(data.Crumbs); i++ {
		if data.Connector != "" {
			fmt.Fprintf(&buf, "  c%d -> c%d [label=%q];\n", i-1, i, data.Connector)
		} else {
			fmt.Fprintf(&buf, "  c%d -> c%d;\n", i-1, i)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg element with one sized
// in pixels so the trail scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

var _ Renderer = DOTRenderer{}
