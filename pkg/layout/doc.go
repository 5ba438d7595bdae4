// Package layout turns layered nodes into pixel coordinates.
//
// [Concretize] takes the [transform.Layers] produced by the layering stage
// and the node sizes from the [dag.Graph] and computes a center point per
// node. [Arrange] runs layering and concretization in one call:
//
//	cg, org, err := layout.Arrange(g, layout.WithMargins(20, 75))
//	for _, id := range cg.Nodes() {
//	    p, _ := cg.NodePos(id)
//	    fmt.Println(id, p.X, p.Y)
//	}
//	if org.Stalled() {
//	    // some nodes could not be layered and have no position
//	}
//
// # Geometry
//
// Layers stack top to bottom starting at y = 0. Within a layer nodes are
// packed left to right starting at x = 0, separated by the horizontal
// margin, and centered on the layer's baseline. Consecutive layers are
// separated by the vertical margin. Defaults are [DefaultXMargin] and
// [DefaultYMargin].
//
// # Edges
//
// Edges are passed through unchanged and addressed by [EdgeID]. Computing
// edge paths is the renderer's job; [ConcreteGraph.IsBackEdge] tells it which
// edges point upward along a cycle.
//
// [transform.Layers]: github.com/matzehuels/deplayer/pkg/dag/transform#Layers
// [dag.Graph]: github.com/matzehuels/deplayer/pkg/dag#Graph
package layout
