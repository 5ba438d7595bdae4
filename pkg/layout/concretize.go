package layout

import (
	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
)

// Concretize assigns every node in layers a center coordinate.
//
// Layers are stacked top to bottom and nodes are packed left to right in
// layer order. Each layer is as tall as its tallest node and all of its
// nodes share the same center line:
//
//	baseline = y + layerHeight/2
//	cx       = x + width/2        (x advances by width + XMargin)
//	y'       = baseline + layerHeight/2 + YMargin
//
// Ids absent from g are skipped with a warning and reported by
// [ConcreteGraph.Missing]. Edges are copied unchanged.
func Concretize(g *dag.Graph, layers transform.Layers, opts ...Option) *ConcreteGraph {
	cfg := newConfig(opts)
	out := newConcreteGraph()

	y := 0.0
	for i, layer := range layers {
		height := layerHeight(g, layer)
		baseline := y + height/2

		x := 0.0
		for _, id := range layer {
			n, ok := g.Node(id)
			if !ok {
				cfg.logger.Warn("node missing during concretization", "id", id, "layer", i)
				out.missing = append(out.missing, id)
				continue
			}
			out.place(id, Box{
				Center: Point{X: x + n.Width/2, Y: baseline},
				Width:  n.Width,
				Height: n.Height,
				Layer:  i,
			})
			x += n.Width + cfg.xMargin
		}

		y = baseline + height/2 + cfg.yMargin
	}

	out.edges = g.Edges()
	return out
}

func layerHeight(g *dag.Graph, layer transform.Layer) float64 {
	h := 0.0
	for _, id := range layer {
		if n, ok := g.Node(id); ok {
			h = max(h, n.Height)
		}
	}
	return h
}

// Arrange runs the full layout engine on g: organization into layers
// followed by concretization. The returned organization carries the layers,
// detected cycles and any unplaced ids.
func Arrange(g *dag.Graph, opts ...Option) (*ConcreteGraph, transform.Organization, error) {
	cfg := newConfig(opts)
	org, err := transform.Organize(g, cfg.transformOptions()...)
	if err != nil {
		return nil, transform.Organization{}, err
	}
	return Concretize(g, org.Layers, opts...), org, nil
}
