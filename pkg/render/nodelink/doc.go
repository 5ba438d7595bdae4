// Package nodelink renders layered graphs through Graphviz.
//
// # Overview
//
// This is the comparison backend. The layer assignment computed by the
// layout engine is handed to Graphviz as rank constraints and Graphviz does
// the rest (node ordering within a rank, edge routing). Setting
// Options.FreeRanks drops the constraints so Graphviz's own ranking can be
// compared against ours.
//
// # Usage
//
// Convert a graph and its layers to DOT, then render to SVG:
//
//	org, _ := transform.Organize(g)
//	dot := nodelink.ToDOT(g, org.Layers, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded box
// nodes. Each layer becomes a { rank=same; ... } group. Back edges along
// cycles are dashed and carry constraint=false. Nodes the engine could not
// place are drawn dashed on a grey fill.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
