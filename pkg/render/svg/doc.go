// Package svg renders a concrete layout as a standalone SVG document.
//
// Boxes are drawn at the positions computed by the layout engine and labeled
// with the node id. Forward edges are straight arrows from a module to the
// module it depends on. Edges along a cycle that point back up the diagram
// are dashed curves on the right side; self-loops are small arcs.
//
//	cg, _, err := layout.Arrange(g)
//	out := svg.RenderSVG(cg, svg.WithGraph(g))
//
// With [WithGraph] boxes are filled by package type (Local, Site, StandardLib,
// Unknown).
package svg
