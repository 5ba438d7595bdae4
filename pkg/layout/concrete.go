package layout

import (
	"slices"

	"github.com/matzehuels/deplayer/pkg/dag"
)

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is a placed node: its center and its size.
type Box struct {
	Center Point
	Width  float64
	Height float64
	Layer  int
}

// Left returns the x coordinate of the box's left edge.
func (b Box) Left() float64 { return b.Center.X - b.Width/2 }

// Top returns the y coordinate of the box's top edge.
func (b Box) Top() float64 { return b.Center.Y - b.Height/2 }

// EdgeID identifies an edge of a [ConcreteGraph]. Ids are assigned in
// edge insertion order starting at 0, so repeated edges stay distinct.
type EdgeID int

// ConcreteGraph is the result of concretization: a center coordinate for
// every placed node plus the pass-through edge list. Edge geometry is left
// to the renderer.
type ConcreteGraph struct {
	order   []string
	boxes   map[string]Box
	edges   []dag.Edge
	missing []string
}

func newConcreteGraph() *ConcreteGraph {
	return &ConcreteGraph{boxes: make(map[string]Box)}
}

// Nodes returns all placed node ids in placement order.
func (c *ConcreteGraph) Nodes() []string { return slices.Clone(c.order) }

// NodePos returns the center of the node.
func (c *ConcreteGraph) NodePos(id string) (Point, bool) {
	b, ok := c.boxes[id]
	return b.Center, ok
}

// NodeBox returns the placed box of the node.
func (c *ConcreteGraph) NodeBox(id string) (Box, bool) {
	b, ok := c.boxes[id]
	return b, ok
}

// Layer returns the layer index of the node, or -1 when it was not placed.
func (c *ConcreteGraph) Layer(id string) int {
	if b, ok := c.boxes[id]; ok {
		return b.Layer
	}
	return -1
}

// Edges returns the ids of all edges.
func (c *ConcreteGraph) Edges() []EdgeID {
	ids := make([]EdgeID, len(c.edges))
	for i := range c.edges {
		ids[i] = EdgeID(i)
	}
	return ids
}

// EdgePos returns the start and end node ids of the edge.
func (c *ConcreteGraph) EdgePos(id EdgeID) (dag.Edge, bool) {
	if id < 0 || int(id) >= len(c.edges) {
		return dag.Edge{}, false
	}
	return c.edges[id], true
}

// IsBackEdge reports whether the edge points to a node in the same or an
// earlier layer. Only cycle edges and self-loops can do that.
func (c *ConcreteGraph) IsBackEdge(id EdgeID) bool {
	e, ok := c.EdgePos(id)
	if !ok {
		return false
	}
	from, okFrom := c.boxes[e.Start]
	to, okTo := c.boxes[e.End]
	return okFrom && okTo && to.Layer <= from.Layer
}

// Missing returns ids that a layer referenced but the graph did not know.
func (c *ConcreteGraph) Missing() []string { return slices.Clone(c.missing) }

// NodeCount returns the number of placed nodes.
func (c *ConcreteGraph) NodeCount() int { return len(c.order) }

// Bounds returns the width and height of the area covered by placed boxes,
// measured from the origin.
func (c *ConcreteGraph) Bounds() (width, height float64) {
	for _, b := range c.boxes {
		width = max(width, b.Center.X+b.Width/2)
		height = max(height, b.Center.Y+b.Height/2)
	}
	return width, height
}

func (c *ConcreteGraph) place(id string, b Box) {
	c.order = append(c.order, id)
	c.boxes[id] = b
}
