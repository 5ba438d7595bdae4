package transform

import (
	"slices"
	"testing"

	"github.com/matzehuels/deplayer/pkg/dag"
)

func TestIndexRelationships(t *testing.T) {
	g := dag.New()
	addNodes(g, "a", "b", "c")
	addDeps(g, "a", "b", "c")
	addDeps(g, "b", "c")
	addDeps(g, "c", "c")

	rel := IndexRelationships(g, quiet)

	tests := []struct {
		id       string
		wantDeps []string
		wantPars []string
	}{
		{"a", []string{"b", "c"}, []string{}},
		{"b", []string{"c"}, []string{"a"}},
		{"c", []string{"c"}, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := rel.Dependencies[tt.id]; !slices.Equal(got, tt.wantDeps) {
				t.Errorf("Dependencies[%s] = %v, want %v", tt.id, got, tt.wantDeps)
			}
			if got := rel.Parents[tt.id]; !slices.Equal(got, tt.wantPars) {
				t.Errorf("Parents[%s] = %v, want %v", tt.id, got, tt.wantPars)
			}
		})
	}
	if !slices.Equal(rel.IDs(), []string{"a", "b", "c"}) {
		t.Errorf("IDs() = %v, want [a b c]", rel.IDs())
	}
}

func TestIndexRelationships_EmptyListsByDefault(t *testing.T) {
	g := dag.New()
	addNodes(g, "lonely")

	rel := IndexRelationships(g, quiet)
	if deps, ok := rel.Dependencies["lonely"]; !ok || deps == nil || len(deps) != 0 {
		t.Errorf("Dependencies[lonely] = %#v, %v, want empty non-nil list", deps, ok)
	}
	if pars, ok := rel.Parents["lonely"]; !ok || pars == nil || len(pars) != 0 {
		t.Errorf("Parents[lonely] = %#v, %v, want empty non-nil list", pars, ok)
	}
}

func TestIndexRelationships_DuplicateFirstWins(t *testing.T) {
	g := dag.New()
	addNodes(g, "a", "b", "a")
	addDeps(g, "a", "b")

	rel := IndexRelationships(g, quiet)
	if rel.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rel.Len())
	}
	if !slices.Equal(rel.Duplicates, []string{"a"}) {
		t.Errorf("Duplicates = %v, want [a]", rel.Duplicates)
	}
	if got := rel.Dependencies["a"]; !slices.Equal(got, []string{"b"}) {
		t.Errorf("Dependencies[a] = %v, want [b]", got)
	}
}

func TestIndexRelationships_DanglingEdgeSkipped(t *testing.T) {
	g := dag.New()
	addNodes(g, "a")
	addDeps(g, "a", "ghost")
	addDeps(g, "ghost", "a")

	rel := IndexRelationships(g, quiet)
	if len(rel.Dangling) != 2 {
		t.Fatalf("Dangling = %v, want 2 edges", rel.Dangling)
	}
	if len(rel.Dependencies["a"]) != 0 || len(rel.Parents["a"]) != 0 {
		t.Errorf("dangling edges leaked into index: deps=%v parents=%v", rel.Dependencies["a"], rel.Parents["a"])
	}
	if rel.Has("ghost") {
		t.Error("Has(ghost) = true, want false")
	}
}
