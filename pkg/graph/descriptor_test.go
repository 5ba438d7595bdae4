package graph

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/errors"
)

const sampleDescriptor = `{
  "nodes": ["app", "app.db", "os", "requests"],
  "edges": {
    "app.db": ["os"],
    "app": ["app.db", "requests", "os"],
    "requests": ["os", "urllib3"]
  },
  "packages": {
    "app": {"type": "Local", "modules": ["app", "app.db"]},
    "python": {"type": "StandardLib", "modules": ["os"]},
    "requests": {"type": "Site", "modules": ["requests"]}
  }
}`

func readSample(t *testing.T) Descriptor {
	t.Helper()
	d, err := ReadDescriptor(strings.NewReader(sampleDescriptor))
	if err != nil {
		t.Fatalf("ReadDescriptor() error = %v", err)
	}
	return d
}

func edgeStrings(g *dag.Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, e.Start+"->"+e.End)
	}
	return out
}

func nodeIDs(g *dag.Graph) []string {
	var out []string
	for _, n := range g.Nodes() {
		out = append(out, n.ID)
	}
	return out
}

func TestReadDescriptor(t *testing.T) {
	d := readSample(t)
	if len(d.Nodes) != 4 {
		t.Errorf("len(Nodes) = %d, want 4", len(d.Nodes))
	}
	if len(d.Packages) != 3 {
		t.Errorf("len(Packages) = %d, want 3", len(d.Packages))
	}
	if !d.Packages["python"].IsStandardLib() {
		t.Error("python package not recognized as standard library")
	}
}

func TestReadDescriptorInvalid(t *testing.T) {
	_, err := ReadDescriptor(strings.NewReader(`{"nodes": [`))
	if !errors.Is(err, errors.ErrCodeInvalidDescriptor) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidDescriptor)
	}
	_, err = UnmarshalDescriptor([]byte(`{"edges": []}`))
	if !errors.Is(err, errors.ErrCodeInvalidDescriptor) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeInvalidDescriptor)
	}
}

func TestReadDescriptorFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deps.json")
	if err := os.WriteFile(path, []byte(sampleDescriptor), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDescriptorFile(path)
	if err != nil {
		t.Fatalf("ReadDescriptorFile() error = %v", err)
	}
	if d.Nodes[0] != "app" {
		t.Errorf("Nodes[0] = %q, want app", d.Nodes[0])
	}

	_, err = ReadDescriptorFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{"sample", Descriptor{Nodes: []string{"a"}, Edges: map[string][]string{"a": {"b"}}}, false},
		{"empty", Descriptor{}, false},
		{"empty node id", Descriptor{Nodes: []string{""}}, true},
		{"bad edge target", Descriptor{Edges: map[string][]string{"a": {"b\x00"}}}, true},
		{"bad package type", Descriptor{Packages: map[string]Package{"p": {Type: "Vendor"}}}, true},
		{"bad package module", Descriptor{Packages: map[string]Package{"p": {Type: PackageSite, Modules: []string{""}}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidDescriptor) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidDescriptor)
			}
		})
	}
}

func TestToGraphEdgeOrder(t *testing.T) {
	g := readSample(t).ToGraph(nil)

	// Sources follow the node list, not the JSON key order.
	want := []string{
		"app->app.db", "app->requests", "app->os",
		"app.db->os",
		"requests->os", "requests->urllib3",
	}
	if got := edgeStrings(g); !slices.Equal(got, want) {
		t.Errorf("edges = %v, want %v", got, want)
	}
}

func TestToGraphStableAcrossDecodes(t *testing.T) {
	first := edgeStrings(readSample(t).ToGraph(nil))
	for range 10 {
		if got := edgeStrings(readSample(t).ToGraph(nil)); !slices.Equal(got, first) {
			t.Fatalf("edges = %v, want %v", got, first)
		}
	}
}

func TestToGraphAppendsUnlistedEndpoints(t *testing.T) {
	d := Descriptor{
		Nodes: []string{"a"},
		Edges: map[string][]string{
			"a": {"c", "b"},
			"z": {"a"},
		},
	}
	g := d.ToGraph(nil)
	want := []string{"a", "c", "b", "z"}
	if got := nodeIDs(g); !slices.Equal(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	wantEdges := []string{"a->c", "a->b", "z->a"}
	if got := edgeStrings(g); !slices.Equal(got, wantEdges) {
		t.Errorf("edges = %v, want %v", got, wantEdges)
	}
}

func TestToGraphSizesAndMeta(t *testing.T) {
	sizes := func(id string) (float64, float64) { return float64(len(id) * 10), 40 }
	g := readSample(t).ToGraph(sizes)

	n, ok := g.Node("app.db")
	if !ok {
		t.Fatal("app.db missing")
	}
	if n.Width != 60 || n.Height != 40 {
		t.Errorf("app.db size = %vx%v, want 60x40", n.Width, n.Height)
	}
	if n.Meta[dag.MetaPackage] != "app" || n.Meta[dag.MetaPackageType] != PackageLocal {
		t.Errorf("app.db meta = %v, want package app/Local", n.Meta)
	}

	u, _ := g.Node("urllib3")
	if _, ok := u.Meta[dag.MetaPackage]; ok {
		t.Errorf("urllib3 has package %v, want none", u.Meta[dag.MetaPackage])
	}

	def := readSample(t).ToGraph(nil)
	if n, _ := def.Node("os"); n.Width != DefaultNodeWidth || n.Height != DefaultNodeHeight {
		t.Errorf("default size = %vx%v, want %vx%v", n.Width, n.Height, DefaultNodeWidth, DefaultNodeHeight)
	}
}

func TestHideStandardLibrary(t *testing.T) {
	d := readSample(t).HideStandardLibrary()

	if want := []string{"app", "app.db", "requests"}; !slices.Equal(d.Nodes, want) {
		t.Errorf("Nodes = %v, want %v", d.Nodes, want)
	}
	if got := d.Edges["app"]; !slices.Equal(got, []string{"app.db", "requests"}) {
		t.Errorf("Edges[app] = %v, want [app.db requests]", got)
	}
	if _, ok := d.Edges["app.db"]; ok {
		t.Errorf("Edges[app.db] = %v, want absent", d.Edges["app.db"])
	}
	if got := d.Edges["requests"]; len(got) != 0 {
		t.Errorf("Edges[requests] = %v, want none", got)
	}

	py, ok := d.Packages["python"]
	if !ok {
		t.Fatal("standard library package removed, want empty shell")
	}
	if py.Type != PackageStandardLib || len(py.Modules) != 0 {
		t.Errorf("python = %+v, want empty StandardLib shell", py)
	}
	if got := d.Packages["app"].Modules; len(got) != 2 {
		t.Errorf("app modules = %v, want 2", got)
	}
}

func TestHideStandardLibraryDoesNotMutate(t *testing.T) {
	d := readSample(t)
	_ = d.HideStandardLibrary()
	if len(d.Nodes) != 4 || len(d.Packages["python"].Modules) != 1 {
		t.Errorf("original descriptor mutated: %+v", d)
	}
}

func TestPackageOf(t *testing.T) {
	d := Descriptor{Packages: map[string]Package{
		"b": {Type: PackageSite, Modules: []string{"shared"}},
		"a": {Type: PackageLocal, Modules: []string{"shared", "own"}},
	}}
	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"shared", "a", true},
		{"own", "a", true},
		{"nobody", "", false},
	}
	for _, tt := range tests {
		got, ok := d.PackageOf(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("PackageOf(%q) = %q, %v, want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}
