// Package dag provides the ordered graph container that seeds the layout
// engine.
//
// # Overview
//
// A [Graph] holds module boxes ([Node]) and "depends-on" relations ([Edge])
// exactly as they were supplied by the dependency descriptor. Despite the
// package name, the graph may contain cycles, self-loops and repeated edges;
// the layout engine in [transform] is responsible for making sense of them.
//
// # Basic Usage
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "app", Width: 60, Height: 30})
//	g.AddNode(dag.Node{ID: "lib", Width: 40, Height: 30})
//	g.AddEdge(dag.Edge{Start: "app", End: "lib"})
//
// # Ordering
//
// Nodes and edges keep their insertion order, and every consumer uses that
// order as the only tie-break. Feeding the same descriptor in the same order
// yields the same layers and the same coordinates.
//
// # Duplicates
//
// The container performs no validation. A repeated node id is stored, but
// [Graph.Node] always answers with the first registration, and
// [transform.IndexRelationships] skips later registrations with a warning.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Once built it is only read, so
// concurrent readers are fine.
//
// [transform]: github.com/matzehuels/deplayer/pkg/dag/transform
// [transform.IndexRelationships]: github.com/matzehuels/deplayer/pkg/dag/transform#IndexRelationships
package dag
