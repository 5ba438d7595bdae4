package layout

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/dag/transform"
)

func quiet() Option { return WithLogger(log.New(io.Discard)) }

func sizedGraph(sizes map[string][2]float64, order ...string) *dag.Graph {
	g := dag.New()
	for _, id := range order {
		s := sizes[id]
		g.AddNode(dag.Node{ID: id, Width: s[0], Height: s[1]})
	}
	return g
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestConcretizeSingleLayer(t *testing.T) {
	g := sizedGraph(map[string][2]float64{
		"a": {40, 20}, "b": {60, 30}, "c": {10, 10},
	}, "a", "b", "c")

	cg := Concretize(g, transform.Layers{{"a", "b", "c"}}, WithXMargin(5), quiet())

	tests := []struct {
		id   string
		want Point
	}{
		{"a", Point{20, 15}},
		{"b", Point{75, 15}},
		{"c", Point{115, 15}},
	}
	for _, tt := range tests {
		got, ok := cg.NodePos(tt.id)
		if !ok {
			t.Fatalf("NodePos(%q) missing", tt.id)
		}
		if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) {
			t.Errorf("NodePos(%q) = %+v, want %+v", tt.id, got, tt.want)
		}
	}
}

func TestConcretizePacking(t *testing.T) {
	widths := []float64{12, 50, 7, 33}
	g := dag.New()
	layer := transform.Layer{}
	for i, w := range widths {
		id := string(rune('a' + i))
		g.AddNode(dag.Node{ID: id, Width: w, Height: 10})
		layer = append(layer, id)
	}

	const m = 13.0
	cg := Concretize(g, transform.Layers{layer}, WithXMargin(m), quiet())

	for i := 0; i+1 < len(layer); i++ {
		p0, _ := cg.NodePos(layer[i])
		p1, _ := cg.NodePos(layer[i+1])
		want := (widths[i]+widths[i+1])/2 + m
		if got := p1.X - p0.X; !near(got, want) {
			t.Errorf("gap %s->%s = %v, want %v", layer[i], layer[i+1], got, want)
		}
	}
	first, _ := cg.NodeBox(layer[0])
	if !near(first.Left(), 0) {
		t.Errorf("first node left = %v, want 0", first.Left())
	}
}

func TestConcretizeLayerBaselines(t *testing.T) {
	g := sizedGraph(map[string][2]float64{
		"a": {10, 20}, "b": {10, 40},
		"c": {10, 10},
		"d": {10, 30},
	}, "a", "b", "c", "d")

	cg := Concretize(g, transform.Layers{{"a", "b"}, {"c"}, {"d"}}, WithMargins(20, 75), quiet())

	// Layer 0: height 40, baseline 20, next y = 40 + 75 = 115.
	// Layer 1: height 10, baseline 120, next y = 125 + 75 = 200.
	// Layer 2: height 30, baseline 215.
	tests := []struct {
		id    string
		y     float64
		layer int
	}{
		{"a", 20, 0},
		{"b", 20, 0},
		{"c", 120, 1},
		{"d", 215, 2},
	}
	for _, tt := range tests {
		b, ok := cg.NodeBox(tt.id)
		if !ok {
			t.Fatalf("NodeBox(%q) missing", tt.id)
		}
		if !near(b.Center.Y, tt.y) {
			t.Errorf("%s center y = %v, want %v", tt.id, b.Center.Y, tt.y)
		}
		if b.Layer != tt.layer || cg.Layer(tt.id) != tt.layer {
			t.Errorf("%s layer = %d, want %d", tt.id, b.Layer, tt.layer)
		}
	}

	w, h := cg.Bounds()
	if !near(w, 40) || !near(h, 230) {
		t.Errorf("Bounds() = %v, %v, want 40, 230", w, h)
	}
}

func TestConcretizeDefaults(t *testing.T) {
	g := sizedGraph(map[string][2]float64{"a": {10, 10}, "b": {10, 10}, "c": {10, 10}}, "a", "b", "c")
	cg := Concretize(g, transform.Layers{{"a", "b"}, {"c"}}, quiet())

	a, _ := cg.NodePos("a")
	b, _ := cg.NodePos("b")
	c, _ := cg.NodePos("c")
	if got := b.X - a.X; !near(got, 10+DefaultXMargin) {
		t.Errorf("default x gap = %v, want %v", got, 10+DefaultXMargin)
	}
	if got := c.Y - a.Y; !near(got, 10+DefaultYMargin) {
		t.Errorf("default y gap = %v, want %v", got, 10+DefaultYMargin)
	}
}

func TestConcretizeMissingNode(t *testing.T) {
	g := sizedGraph(map[string][2]float64{"a": {10, 10}, "b": {10, 10}}, "a", "b")
	cg := Concretize(g, transform.Layers{{"a", "ghost", "b"}}, WithXMargin(5), quiet())

	if _, ok := cg.NodePos("ghost"); ok {
		t.Error("ghost has a position")
	}
	if got := cg.Missing(); len(got) != 1 || got[0] != "ghost" {
		t.Errorf("Missing() = %v, want [ghost]", got)
	}
	if cg.Layer("ghost") != -1 {
		t.Errorf("Layer(ghost) = %d, want -1", cg.Layer("ghost"))
	}
	// The skipped id does not consume horizontal space.
	b, _ := cg.NodePos("b")
	if !near(b.X, 20) {
		t.Errorf("b.X = %v, want 20", b.X)
	}
	if cg.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", cg.NodeCount())
	}
}

func TestConcretizeEmpty(t *testing.T) {
	cg := Concretize(dag.New(), nil, quiet())
	if cg.NodeCount() != 0 || len(cg.Edges()) != 0 {
		t.Errorf("empty graph produced %d nodes, %d edges", cg.NodeCount(), len(cg.Edges()))
	}
	if w, h := cg.Bounds(); w != 0 || h != 0 {
		t.Errorf("Bounds() = %v, %v, want 0, 0", w, h)
	}
}

func TestConcreteGraphEdges(t *testing.T) {
	g := sizedGraph(map[string][2]float64{"a": {10, 10}, "b": {10, 10}}, "a", "b")
	g.AddEdge(dag.Edge{Start: "a", End: "b"})
	g.AddEdge(dag.Edge{Start: "b", End: "a"})
	g.AddEdge(dag.Edge{Start: "a", End: "b"})

	cg := Concretize(g, transform.Layers{{"a"}, {"b"}}, quiet())

	ids := cg.Edges()
	if len(ids) != 3 {
		t.Fatalf("Edges() len = %d, want 3", len(ids))
	}
	for i, id := range ids {
		if int(id) != i {
			t.Errorf("Edges()[%d] = %d, want %d", i, id, i)
		}
	}
	e, ok := cg.EdgePos(1)
	if !ok || e.Start != "b" || e.End != "a" {
		t.Errorf("EdgePos(1) = %+v, %v, want b->a", e, ok)
	}
	if _, ok := cg.EdgePos(3); ok {
		t.Error("EdgePos(3) found, want absent")
	}
	if cg.IsBackEdge(0) {
		t.Error("a->b reported as back edge")
	}
	if !cg.IsBackEdge(1) {
		t.Error("b->a not reported as back edge")
	}
}

func TestArrange(t *testing.T) {
	g := sizedGraph(map[string][2]float64{
		"Aron": {30, 30}, "Bill": {30, 30}, "Celine": {30, 30},
	}, "Aron", "Bill", "Celine")
	g.AddEdge(dag.Edge{Start: "Aron", End: "Bill"})
	g.AddEdge(dag.Edge{Start: "Bill", End: "Celine"})
	g.AddEdge(dag.Edge{Start: "Celine", End: "Bill"})

	cg, org, err := Arrange(g, quiet())
	if err != nil {
		t.Fatalf("Arrange() error = %v", err)
	}
	if org.Layers.Count() != 3 {
		t.Fatalf("layers = %d, want 3", org.Layers.Count())
	}
	if org.Cycles.Count() != 1 {
		t.Errorf("cycles = %d, want 1", org.Cycles.Count())
	}
	var prev float64 = -1
	for _, id := range []string{"Aron", "Bill", "Celine"} {
		p, ok := cg.NodePos(id)
		if !ok {
			t.Fatalf("%s not placed", id)
		}
		if p.Y <= prev {
			t.Errorf("%s y = %v, want below %v", id, p.Y, prev)
		}
		prev = p.Y
	}
}

func TestArrangeStallFallback(t *testing.T) {
	closing := func(c transform.Cycle, i int) (string, bool) { return c.Predecessor(i), true }
	g := sizedGraph(map[string][2]float64{"a": {10, 10}, "b": {10, 10}}, "a", "b")
	g.AddEdge(dag.Edge{Start: "a", End: "b"})
	g.AddEdge(dag.Edge{Start: "b", End: "a"})

	tests := []struct {
		name        string
		opts        []Option
		wantStalled bool
	}{
		{"default fallback", nil, false},
		{"fallback disabled", []Option{WithStallFallback(nil)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{quiet(), WithPredecessorRule(closing)}, tt.opts...)
			cg, org, err := Arrange(g, opts...)
			if err != nil {
				t.Fatalf("Arrange() error = %v", err)
			}
			if org.Stalled() != tt.wantStalled {
				t.Errorf("Stalled() = %v, want %v (unplaced %v)", org.Stalled(), tt.wantStalled, org.Unplaced)
			}
			if _, ok := cg.NodePos("b"); ok == tt.wantStalled {
				t.Errorf("NodePos(b) ok = %v, want %v", ok, !tt.wantStalled)
			}
		})
	}
}
