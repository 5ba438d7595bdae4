// Package graph provides the wire formats around the layout engine.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Descriptor]: input produced by dependency analyzers (this package)
//   - pkg/dag.Graph: internal graph representation
//   - pkg/layout.ConcreteGraph: internal layout (positions)
//   - [Layout]: output for files, API responses and clients (this package)
//
// Use [Descriptor.ToGraph] and [FromConcrete] to cross the boundary.
//
// # Descriptors
//
// A descriptor lists modules, their dependencies and the packages they
// belong to:
//
//	{
//	  "nodes": ["app", "app.db", "os"],
//	  "edges": {"app": ["app.db", "os"], "app.db": ["os"]},
//	  "packages": {
//	    "app":    {"type": "Local", "modules": ["app", "app.db"]},
//	    "python": {"type": "StandardLib", "modules": ["os"]}
//	  }
//	}
//
// Package types are [PackageLocal], [PackageSite], [PackageStandardLib] and
// [PackageUnknown]. [Descriptor.HideStandardLibrary] drops standard library
// modules before layout.
//
// Common operations:
//
//	d, _ := graph.ReadDescriptorFile("deps.json")
//	if err := d.Validate(); err != nil { ... }
//	g := d.HideStandardLibrary().ToGraph(sizer.Size)
//
// # Layout Serialization
//
//	l := graph.FromConcrete(g, cg, org, graph.Settings{XMargin: 20, YMargin: 75})
//	graph.WriteLayoutFile(l, "layout.json")
//	parsed, _ := graph.ReadLayoutFile("layout.json")
//
// A layout carries node centers and sizes, edges (back edges flagged), the
// layer assignment and detected cycles. Nodes the engine could not place are
// listed in Unplaced.
//
// # Node Metadata
//
// [Descriptor.ToGraph] attaches two metadata keys to each module that belongs
// to a package:
//
//	package        Name of the owning package
//	package_type   Type of the owning package
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
