package graph

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Package types as they appear in descriptors.
const (
	PackageLocal       = "Local"
	PackageSite        = "Site"
	PackageStandardLib = "StandardLib"
	PackageUnknown     = "Unknown"
)

// Default box size used when a descriptor is converted without a sizer.
const (
	DefaultNodeWidth  = 200.0
	DefaultNodeHeight = 60.0
)

// =============================================================================
// Descriptor - Input Format
// =============================================================================

// Descriptor is the input format produced by dependency analyzers.
//
//	{
//	  "nodes": ["app", "app.db", "os"],
//	  "edges": {"app": ["app.db", "os"]},
//	  "packages": {
//	    "app": {"type": "Local", "modules": ["app", "app.db"]},
//	    "python": {"type": "StandardLib", "modules": ["os"]}
//	  }
//	}
//
// Edges map a module to the modules it depends on.
type Descriptor struct {
	Nodes    []string            `json:"nodes"`
	Edges    map[string][]string `json:"edges"`
	Packages map[string]Package  `json:"packages,omitempty"`
}

// Package groups modules that ship together.
type Package struct {
	Type    string   `json:"type"`
	Modules []string `json:"modules"`
}

// IsStandardLib reports whether the package belongs to the language runtime.
func (p Package) IsStandardLib() bool { return p.Type == PackageStandardLib }

// =============================================================================
// Layout - Output Format
// =============================================================================

// Layout is the serialization format for a computed layout. It carries
// everything a client needs to draw the diagram without running the engine:
// node boxes, edges, the layer assignment, the detected cycles, and any
// discrepancies the engine reported.
type Layout struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	XMargin float64 `json:"x_margin"`
	YMargin float64 `json:"y_margin"`
	Rule    string  `json:"rule,omitempty"`

	Nodes  []PlacedNode `json:"nodes"`
	Edges  []Edge       `json:"edges"`
	Layers [][]string   `json:"layers"`
	Cycles [][]string   `json:"cycles,omitempty"`

	// Discrepancies
	Unplaced []string `json:"unplaced,omitempty"` // Nodes the layer assigner could not place
	Missing  []string `json:"missing,omitempty"`  // Layer ids without a graph node
}

// Stalled reports whether some nodes were left without a layer.
func (l *Layout) Stalled() bool { return len(l.Unplaced) > 0 }

// Node returns the placed node with the given id.
func (l *Layout) Node(id string) (PlacedNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PlacedNode{}, false
}

// PlacedNode is a node with its center coordinate and box size.
type PlacedNode struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Layer       int     `json:"layer"`
	Package     string  `json:"package,omitempty"`
	PackageType string  `json:"package_type,omitempty"`
}

// Edge is a directed dependency. Back marks edges that point to the same or
// an earlier layer, which only happens along cycles.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
	Back bool   `json:"back,omitempty"`
}
