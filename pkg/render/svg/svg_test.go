package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/layout"
)

func arranged(t *testing.T) (*dag.Graph, *layout.ConcreteGraph) {
	t.Helper()
	g := dag.New()
	for _, id := range []string{"app", "lib", "util"} {
		g.AddNode(dag.Node{ID: id, Width: 80, Height: 30, Meta: dag.Metadata{dag.MetaPackageType: graph.PackageLocal}})
	}
	g.AddNode(dag.Node{ID: "a<b>", Width: 80, Height: 30})
	g.AddEdge(dag.Edge{Start: "app", End: "lib"})
	g.AddEdge(dag.Edge{Start: "lib", End: "util"})
	g.AddEdge(dag.Edge{Start: "util", End: "lib"})
	g.AddEdge(dag.Edge{Start: "util", End: "util"})

	cg, _, err := layout.Arrange(g, layout.WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("Arrange() error = %v", err)
	}
	return g, cg
}

func TestRenderSVGWellFormed(t *testing.T) {
	g, cg := arranged(t)
	out := RenderSVG(cg, WithGraph(g))

	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderSVGContainsEveryNode(t *testing.T) {
	g, cg := arranged(t)
	out := string(RenderSVG(cg, WithGraph(g)))

	for _, id := range []string{"app", "lib", "util", "a&lt;b&gt;"} {
		if !strings.Contains(out, `id="node-`+id+`"`) {
			t.Errorf("output missing node %s", id)
		}
	}
	if strings.Contains(out, "a<b>") {
		t.Error("label not escaped")
	}
}

func TestRenderSVGEdges(t *testing.T) {
	g, cg := arranged(t)
	out := string(RenderSVG(cg, WithGraph(g)))

	if got := strings.Count(out, `class="edge"`); got != 2 {
		t.Errorf("forward edges = %d, want 2", got)
	}
	// util -> lib closes the cycle, util -> util is a self-loop.
	if got := strings.Count(out, `class="edge back"`); got != 2 {
		t.Errorf("back edges = %d, want 2", got)
	}
}

func TestRenderSVGFill(t *testing.T) {
	g, cg := arranged(t)

	colored := string(RenderSVG(cg, WithGraph(g)))
	if !strings.Contains(colored, packageFills[graph.PackageLocal]) {
		t.Error("Local fill missing with graph")
	}
	plain := string(RenderSVG(cg))
	if strings.Contains(plain, packageFills[graph.PackageLocal]) {
		t.Error("Local fill present without graph")
	}
}

func TestRenderSVGPadding(t *testing.T) {
	_, cg := arranged(t)
	out := string(RenderSVG(cg, WithPadding(0)))
	if !strings.Contains(out, `translate(0.0,0.0)`) {
		t.Errorf("padding 0 not applied:\n%s", out)
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	cg := layout.Concretize(dag.New(), nil)
	out := string(RenderSVG(cg))
	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("empty render malformed:\n%s", out)
	}
}
