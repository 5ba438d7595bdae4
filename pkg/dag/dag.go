package dag

import (
	"maps"
	"slices"
)

// Metadata stores arbitrary key-value pairs attached to nodes.
// It is commonly used to carry descriptor information such as the package a
// module belongs to and the package type.
type Metadata map[string]any

// Recognized metadata keys.
const (
	MetaPackage     = "package"
	MetaPackageType = "package_type"
)

// Node is a module box in the dependency graph. Width and Height are the
// rendered box size in pixels; the layout engine takes them as given.
type Node struct {
	ID     string   // Unique identifier (also used as display label)
	Width  float64  // Box width in pixels
	Height float64  // Box height in pixels
	Meta   Metadata // Arbitrary key-value metadata (may be nil)
}

// Edge is a directed "depends-on" relation: Start depends on End.
// Self-loops (Start == End) and repeated edges are allowed.
type Edge struct {
	Start string
	End   string
}

// IsSelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) IsSelfLoop() bool { return e.Start == e.End }

// Graph is an ordered store of nodes and edges.
//
// Insertion order is significant: every algorithm built on top of Graph uses
// it as the only tie-break, so identical input produces identical output.
// Graph performs no validation. Duplicate node ids are stored as given and
// [Graph.Node] returns the first registration; callers that index the graph
// decide how to treat the rest.
//
// Build a Graph once and treat it as immutable afterwards. Graph is not safe
// for concurrent mutation.
type Graph struct {
	nodes []Node
	edges []Edge
	first map[string]int // id -> index of first registration
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{first: make(map[string]int)}
}

// AddNode appends a node. Duplicate ids are accepted.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.first[n.ID]; !ok {
		g.first[n.ID] = len(g.nodes)
	}
	g.nodes = append(g.nodes, n)
}

// AddEdge appends an edge. Endpoints are not checked against registered nodes.
func (g *Graph) AddEdge(e Edge) {
	g.edges = append(g.edges, e)
}

// Node returns the first node registered with id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.first[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns the first edge from start to end.
func (g *Graph) Edge(start, end string) (Edge, bool) {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.Start == start && e.End == end })
	if i < 0 {
		return Edge{}, false
	}
	return g.edges[i], true
}

// Nodes returns a copy of all nodes in insertion order, duplicates included.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of registered nodes, duplicates included.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clone returns a deep copy of the graph. Node metadata maps are copied
// shallowly.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		nodes: make([]Node, len(g.nodes)),
		edges: slices.Clone(g.edges),
		first: maps.Clone(g.first),
	}
	for i, n := range g.nodes {
		n.Meta = maps.Clone(n.Meta)
		out.nodes[i] = n
	}
	return out
}
