package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/errors"
)

// SizeFunc returns the box size of a module.
type SizeFunc func(id string) (width, height float64)

// FixedSize returns a SizeFunc that gives every module the same box.
func FixedSize(width, height float64) SizeFunc {
	return func(string) (float64, float64) { return width, height }
}

// =============================================================================
// Descriptor Reading API
// =============================================================================

// ReadDescriptor decodes a JSON descriptor from r.
func ReadDescriptor(r io.Reader) (Descriptor, error) {
	var d Descriptor
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Descriptor{}, errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "decode descriptor")
	}
	return d, nil
}

// UnmarshalDescriptor decodes a JSON descriptor from bytes.
func UnmarshalDescriptor(data []byte) (Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return Descriptor{}, errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "decode descriptor")
	}
	return d, nil
}

// ReadDescriptorFile reads and decodes a JSON descriptor file.
func ReadDescriptorFile(path string) (Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Descriptor{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Descriptor{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDescriptor(f)
}

// =============================================================================
// Validation and Filtering
// =============================================================================

// Validate checks module ids and package types. Edges that point to unknown
// modules are not an error here; they become nodes in [Descriptor.ToGraph].
func (d Descriptor) Validate() error {
	for _, id := range d.Nodes {
		if err := errors.ValidateNodeID(id); err != nil {
			return err
		}
	}
	for _, from := range slices.Sorted(maps.Keys(d.Edges)) {
		if err := errors.ValidateNodeID(from); err != nil {
			return err
		}
		for _, to := range d.Edges[from] {
			if err := errors.ValidateNodeID(to); err != nil {
				return err
			}
		}
	}
	for _, name := range slices.Sorted(maps.Keys(d.Packages)) {
		pkg := d.Packages[name]
		if err := errors.ValidatePackageType(pkg.Type); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDescriptor, err, "package %q", name)
		}
		for _, id := range pkg.Modules {
			if err := errors.ValidateNodeID(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// HideStandardLibrary returns a copy of the descriptor that keeps only
// modules belonging to a package that is not a standard library. Modules
// outside every package are dropped too. Edges survive when both ends are
// kept. Standard library packages remain as empty shells so consumers still
// see them.
func (d Descriptor) HideStandardLibrary() Descriptor {
	out := Descriptor{
		Edges:    make(map[string][]string),
		Packages: make(map[string]Package, len(d.Packages)),
	}

	owned := make(map[string]struct{})
	for name, pkg := range d.Packages {
		if pkg.IsStandardLib() {
			out.Packages[name] = Package{Type: pkg.Type, Modules: []string{}}
			continue
		}
		out.Packages[name] = Package{Type: pkg.Type, Modules: slices.Clone(pkg.Modules)}
		for _, m := range pkg.Modules {
			owned[m] = struct{}{}
		}
	}

	kept := make(map[string]struct{})
	for _, id := range d.Nodes {
		if _, ok := owned[id]; ok {
			out.Nodes = append(out.Nodes, id)
			kept[id] = struct{}{}
		}
	}

	for from, targets := range d.Edges {
		if _, ok := kept[from]; !ok {
			continue
		}
		for _, to := range targets {
			if _, ok := kept[to]; ok {
				out.Edges[from] = append(out.Edges[from], to)
			}
		}
	}
	return out
}

// PackageOf returns the name of the package that lists the module. When
// several packages list it, the lexicographically first name wins.
func (d Descriptor) PackageOf(id string) (string, bool) {
	for _, name := range slices.Sorted(maps.Keys(d.Packages)) {
		if slices.Contains(d.Packages[name].Modules, id) {
			return name, true
		}
	}
	return "", false
}

// =============================================================================
// Descriptor → Graph Conversion
// =============================================================================

// ToGraph builds the layout graph. Nodes keep descriptor order and receive
// their size from size (a nil size uses [DefaultNodeWidth] and
// [DefaultNodeHeight]). Edge endpoints missing from the node list are appended
// as nodes in first-seen order.
//
// JSON objects carry no order, so edges are added by walking the node list
// and then the remaining edge sources in sorted order. This keeps the
// insertion order, and therefore the layout, stable for a given file.
func (d Descriptor) ToGraph(size SizeFunc) *dag.Graph {
	if size == nil {
		size = FixedSize(DefaultNodeWidth, DefaultNodeHeight)
	}
	edges := d.orderedEdges()

	ids := slices.Clone(d.Nodes)
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}
	for _, e := range edges {
		for _, id := range [2]string{e.Start, e.End} {
			if _, ok := known[id]; !ok {
				known[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	owner := d.moduleOwners()
	g := dag.New()
	for _, id := range ids {
		w, h := size(id)
		n := dag.Node{ID: id, Width: w, Height: h, Meta: dag.Metadata{}}
		if name, ok := owner[id]; ok {
			n.Meta[dag.MetaPackage] = name
			n.Meta[dag.MetaPackageType] = d.Packages[name].Type
		}
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

func (d Descriptor) orderedEdges() []dag.Edge {
	var out []dag.Edge
	visited := make(map[string]struct{}, len(d.Edges))
	emit := func(from string) {
		if _, ok := visited[from]; ok {
			return
		}
		visited[from] = struct{}{}
		for _, to := range d.Edges[from] {
			out = append(out, dag.Edge{Start: from, End: to})
		}
	}
	for _, id := range d.Nodes {
		emit(id)
	}
	for _, from := range slices.Sorted(maps.Keys(d.Edges)) {
		emit(from)
	}
	return out
}

func (d Descriptor) moduleOwners() map[string]string {
	owner := make(map[string]string)
	for _, name := range slices.Sorted(maps.Keys(d.Packages)) {
		for _, m := range d.Packages[name].Modules {
			if _, ok := owner[m]; !ok {
				owner[m] = name
			}
		}
	}
	return owner
}
