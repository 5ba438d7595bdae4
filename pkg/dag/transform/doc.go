// Package transform implements the layering stage of the layout engine:
// relationship indexing, cycle detection and layer assignment.
//
// # Overview
//
// Dependency graphs extracted from real code bases are not acyclic. Rather
// than deleting edges to force a DAG, this package keeps every edge and
// decides, per cycle, which in-cycle parent a node has to wait for. Nodes in
// earlier layers may then depend on nodes in later layers, but only along a
// cycle.
//
//	Layer 0                Layer 1
//	 __________           ____________
//	|          |         |            |
//	| depender |  -----> | dependency |
//	|__________|         |____________|
//
// # Pipeline
//
// [Organize] runs the three steps in order:
//
//  1. [IndexRelationships] derives dependency and parent lists from the graph.
//  2. [DetectCycles] records, per node, the cycles it lies on.
//  3. [AssignLayers] places nodes layer by layer until nothing changes.
//
// Each step can be called on its own for inspection or testing.
//
// # Cycle Handling
//
// A node is placed once every relevant parent is placed. Parents that share
// a detected cycle with the node are ignored, except for the single needed
// predecessor a [PredecessorRule] picks on each cycle. [DiscoveryOrder]
// threads cycle members in traversal order; [LexicographicEntry] enters each
// cycle at its smallest id. A node is never its own relevant parent.
//
// # Determinism
//
// Graph insertion order is the only tie-break. Calling [Organize] twice on
// the same graph yields identical layers.
//
// # Stalls
//
// A rule that picks its entry per cycle can make two members of overlapping
// cycles wait on each other. [LexicographicEntry] does this on small graphs
// such as a->c, c->b, b->c, b->a. When a round places no node while some
// remain, the remaining ids are therefore retried once with the stall
// fallback rule ([DiscoveryOrder] unless [WithStallFallback] says otherwise).
// DiscoveryOrder only ever waits for the node that preceded it on the
// traversal path, so its waits cannot form a loop.
//
// If the retry places nothing either, assignment stops and the leftovers are
// reported in [Organization.Unplaced]. With the provided rules this only
// happens when the approximate cycle detection misses a cycle the nodes are
// blocked on.
package transform
