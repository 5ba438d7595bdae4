package transform

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag"
)

var quiet = WithLogger(log.NewWithOptions(io.Discard, log.Options{}))

func addNodes(g *dag.Graph, ids ...string) {
	for _, id := range ids {
		g.AddNode(dag.Node{ID: id, Width: 30, Height: 30})
	}
}

func addDeps(g *dag.Graph, root string, deps ...string) {
	for _, d := range deps {
		g.AddEdge(dag.Edge{Start: root, End: d})
	}
}

func organize(t *testing.T, g *dag.Graph, opts ...Option) Organization {
	t.Helper()
	org, err := Organize(g, append([]Option{quiet}, opts...)...)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	return org
}

func assertLayers(t *testing.T, got Layers, want ...[]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d layers %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !slices.Equal(got[i], Layer(want[i])) {
			t.Errorf("layer %d = %v, want %v", i, got[i], want[i])
		}
	}
}
