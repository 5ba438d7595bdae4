package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
	"github.com/matzehuels/deplayer/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes layer numbers and metadata in node labels.
	// When false, only the node ID is shown.
	Detailed bool

	// FreeRanks lets Graphviz choose ranks itself instead of pinning each
	// layer with rank=same. Useful to compare both assignments.
	FreeRanks bool
}

// ToDOT converts a graph and its layer assignment to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Members of each layer are pinned to one rank. Edges that point to the same
// or an earlier layer run along a cycle; they are drawn dashed and excluded
// from ranking so Graphviz keeps the computed order.
func ToDOT(g *dag.Graph, layers transform.Layers, opts Options) string {
	layerOf := make(map[string]int)
	for i, layer := range layers {
		for _, id := range layer {
			layerOf[id] = i
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	seen := make(map[string]struct{})
	for _, n := range g.Nodes() {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		layer, placed := layerOf[n.ID]
		label := fmtLabel(n, layer, placed, opts.Detailed)
		attrs := fmtAttrs(label, placed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	if !opts.FreeRanks {
		buf.WriteString("\n")
		for i, layer := range layers {
			ids := make([]string, 0, len(layer))
			for _, id := range layer {
				ids = append(ids, strconv.Quote(id))
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; } // layer %d\n", strings.Join(ids, "; "), i)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if _, ok := seen[e.Start]; !ok {
			continue
		}
		if _, ok := seen[e.End]; !ok {
			continue
		}
		if isBack(e, layerOf) {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=\"#c0392b\", constraint=false];\n", e.Start, e.End)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Start, e.End)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func isBack(e dag.Edge, layerOf map[string]int) bool {
	from, ok1 := layerOf[e.Start]
	to, ok2 := layerOf[e.End]
	return ok1 && ok2 && to <= from
}

func fmtLabel(n dag.Node, layer int, placed, detailed bool) string {
	if !detailed {
		return n.ID
	}

	parts := []string{"layer: unplaced"}
	if placed {
		parts[0] = fmt.Sprintf("layer: %d", layer)
	}
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}

	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(label string, placed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !placed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
