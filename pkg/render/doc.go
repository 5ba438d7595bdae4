// Package render turns computed layouts into images.
//
// # Overview
//
// The layout engine only decides where boxes go. This package and its
// subpackages provide everything around it:
//
//   - Box sizing from labels ([LabelSizer]), fed into the engine as node sizes
//   - Native SVG output of a concrete layout (in [svg] subpackage)
//   - A Graphviz backend for comparison (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Box Sizing
//
// Node sizes are inputs to the layout engine, never computed inside it.
// [LabelSizer] estimates the box for a label from a font size and padding:
//
//	sizer := render.DefaultLabelSizer()
//	g := descriptor.ToGraph(sizer.Size)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both backends use them.
//
//	out := svg.RenderSVG(cg, svg.WithGraph(g))
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage hands the same graph and layer assignment to
// Graphviz, pinning each layer to a rank so the two backends can be compared
// side by side.
//
//	dot := nodelink.ToDOT(g, org.Layers, nodelink.Options{})
//	out, err := nodelink.RenderSVG(ctx, dot)
//
// [svg]: github.com/matzehuels/deplayer/pkg/render/svg
// [nodelink]: github.com/matzehuels/deplayer/pkg/render/nodelink
package render
