package graph

import (
	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
	"github.com/matzehuels/deplayer/pkg/layout"
)

// Settings records the engine options that produced a layout.
type Settings struct {
	XMargin float64
	YMargin float64
	Rule    string
}

// FromConcrete converts engine output to its serialization format.
// Nodes follow placement order (layer by layer) and edges keep graph order.
// Edges with an endpoint the graph never registered are dropped.
func FromConcrete(g *dag.Graph, cg *layout.ConcreteGraph, org transform.Organization, s Settings) Layout {
	w, h := cg.Bounds()
	out := Layout{
		Width:    w,
		Height:   h,
		XMargin:  s.XMargin,
		YMargin:  s.YMargin,
		Rule:     s.Rule,
		Nodes:    make([]PlacedNode, 0, cg.NodeCount()),
		Edges:    make([]Edge, 0, len(cg.Edges())),
		Layers:   make([][]string, len(org.Layers)),
		Unplaced: org.Unplaced,
		Missing:  cg.Missing(),
	}

	for _, id := range cg.Nodes() {
		b, _ := cg.NodeBox(id)
		pn := PlacedNode{
			ID:     id,
			X:      b.Center.X,
			Y:      b.Center.Y,
			Width:  b.Width,
			Height: b.Height,
			Layer:  b.Layer,
		}
		if n, ok := g.Node(id); ok {
			pn.Package, _ = n.Meta[dag.MetaPackage].(string)
			pn.PackageType, _ = n.Meta[dag.MetaPackageType].(string)
		}
		out.Nodes = append(out.Nodes, pn)
	}

	for _, id := range cg.Edges() {
		e, _ := cg.EdgePos(id)
		if !hasNode(g, e.Start) || !hasNode(g, e.End) {
			continue
		}
		out.Edges = append(out.Edges, Edge{From: e.Start, To: e.End, Back: cg.IsBackEdge(id)})
	}

	for i, layer := range org.Layers {
		out.Layers[i] = []string(layer)
	}
	if org.Cycles != nil {
		for _, c := range org.Cycles.All() {
			out.Cycles = append(out.Cycles, []string(c))
		}
	}
	return out
}

func hasNode(g *dag.Graph, id string) bool {
	_, ok := g.Node(id)
	return ok
}
