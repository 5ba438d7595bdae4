// Package pkg provides the core libraries for deplayer dependency graph layout.
//
// # Overview
//
// Deplayer places the modules of a dependency graph into horizontal layers so
// that every module sits above what it depends on, then turns the layers into
// box coordinates. Graphs may be cyclic. Cycles are detected up front and each
// member is threaded in behind its predecessor on the cycle.
//
// The pkg directory is organized into these areas:
//
//  1. [dag] - Graph model (nodes, edges, insertion order)
//  2. [dag/transform] - Relationship index, cycle detection, layer assignment
//  3. [layout] - Concretization of layers into coordinates
//  4. [graph] - Descriptor input and layout JSON output
//  5. [render] - SVG, DOT and raster output
//  6. [pipeline] - Orchestration (prepare → layout → render)
//  7. [errors], [observability], [httputil] - Shared infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Descriptor JSON (nodes, edges, packages)
//	         ↓
//	    [graph] package (validate, hide stdlib, size boxes)
//	         ↓
//	    [dag/transform] package (relationships → cycles → layers)
//	         ↓
//	    [layout] package (coordinates)
//	         ↓
//	    SVG/DOT/PNG/PDF/JSON output
//
// # Quick Start
//
// Lay out a small graph directly:
//
//	import (
//	    "github.com/matzehuels/deplayer/pkg/dag"
//	    "github.com/matzehuels/deplayer/pkg/layout"
//	)
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "app", Width: 40, Height: 20})
//	g.AddNode(dag.Node{ID: "lib", Width: 30, Height: 20})
//	g.AddEdge(dag.Edge{Start: "app", End: "lib"})
//
//	cg, org, err := layout.Arrange(g)
//	if err != nil {
//	    return err
//	}
//	pos, _ := cg.NodePos("lib")
//	fmt.Println(org.Layers, pos)
//
// Or run the whole pipeline from a descriptor:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, descriptor, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
package pkg
