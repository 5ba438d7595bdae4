package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/deplayer/pkg/dag"
	"github.com/matzehuels/deplayer/pkg/graph"
	"github.com/matzehuels/deplayer/pkg/layout"
	"github.com/matzehuels/deplayer/pkg/render"
)

const edgeCSS = `
    .node rect { stroke: #333; stroke-width: 1.5; }
    .node text { font-family: sans-serif; fill: #111; }
    .edge { stroke: #555; stroke-width: 1.2; fill: none; }
    .edge.back { stroke: #c0392b; stroke-dasharray: 6 4; }
    .node:hover rect { stroke-width: 3; }`

// Fill colors per package type.
var packageFills = map[string]string{
	graph.PackageLocal:       "#dbeafe",
	graph.PackageSite:        "#dcfce7",
	graph.PackageStandardLib: "#f3f4f6",
	graph.PackageUnknown:     "#fef9c3",
}

const defaultFill = "#ffffff"

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	graph   *dag.Graph
	sizer   render.LabelSizer
	padding float64
	loop    float64
}

// WithGraph supplies the source graph so boxes can be colored by package.
func WithGraph(g *dag.Graph) SVGOption { return func(r *svgRenderer) { r.graph = g } }

// WithSizer sets the font parameters used for labels.
func WithSizer(s render.LabelSizer) SVGOption { return func(r *svgRenderer) { r.sizer = s } }

// WithPadding sets the empty border around the drawing.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = p } }

// RenderSVG draws a concrete layout. Forward edges run straight from the
// bottom of the dependent box to the top of its dependency. Back edges run
// along cycles and are drawn as dashed curves on the right side so they do
// not cross the boxes between the two layers. Self-loops become a small arc.
func RenderSVG(cg *layout.ConcreteGraph, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	w, h := cg.Bounds()
	// Back edges bulge right; leave room for them.
	w += r.loop
	tw, th := w+2*r.padding, h+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		tw, th, tw, th)
	renderDefs(&buf)
	fmt.Fprintf(&buf, "  <g transform=\"translate(%.1f,%.1f)\">\n", r.padding, r.padding)

	for _, id := range cg.Edges() {
		r.renderEdge(&buf, cg, id)
	}
	for _, id := range cg.Nodes() {
		b, _ := cg.NodeBox(id)
		r.renderNode(&buf, id, b)
	}

	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{
		sizer:   render.DefaultLabelSizer(),
		padding: 20,
		loop:    40,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	buf.WriteString(`    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="7" markerHeight="7" orient="auto-start-reverse">` + "\n")
	buf.WriteString(`      <path d="M 0 0 L 10 5 L 0 10 z" fill="#555"/>` + "\n")
	buf.WriteString("    </marker>\n")
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", edgeCSS)
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, id string, b layout.Box) {
	label := render.EscapeXML(id)
	fs := r.sizer.FontSizeFor(id, b.Width)
	fmt.Fprintf(buf, `    <g class="node" id="node-%s">`+"\n", label)
	fmt.Fprintf(buf, `      <title>%s</title>`+"\n", label)
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s"/>`+"\n",
		b.Left(), b.Top(), b.Width, b.Height, r.fill(id))
	fmt.Fprintf(buf, `      <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		b.Center.X, b.Center.Y, fs, label)
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) fill(id string) string {
	if r.graph == nil {
		return defaultFill
	}
	n, ok := r.graph.Node(id)
	if !ok {
		return defaultFill
	}
	if typ, ok := n.Meta[dag.MetaPackageType].(string); ok {
		if c, ok := packageFills[typ]; ok {
			return c
		}
	}
	return defaultFill
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, cg *layout.ConcreteGraph, id layout.EdgeID) {
	e, _ := cg.EdgePos(id)
	from, okFrom := cg.NodeBox(e.Start)
	to, okTo := cg.NodeBox(e.End)
	if !okFrom || !okTo {
		return
	}

	switch {
	case e.IsSelfLoop():
		fmt.Fprintf(buf, `    <path class="edge back" d="%s" marker-end="url(#arrow)"/>`+"\n", selfLoopPath(from, r.loop/2))
	case cg.IsBackEdge(id):
		fmt.Fprintf(buf, `    <path class="edge back" d="%s" marker-end="url(#arrow)"/>`+"\n", backEdgePath(from, to, r.loop))
	default:
		fmt.Fprintf(buf, `    <path class="edge" d="M %.1f %.1f L %.1f %.1f" marker-end="url(#arrow)"/>`+"\n",
			from.Center.X, from.Top()+from.Height, to.Center.X, to.Top())
	}
}

// backEdgePath leaves the right side of from and enters the right side of to,
// bulging out by bulge pixels.
func backEdgePath(from, to layout.Box, bulge float64) string {
	x1, y1 := from.Left()+from.Width, from.Center.Y
	x2, y2 := to.Left()+to.Width, to.Center.Y
	cx := max(x1, x2) + bulge
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x1, y1, cx, y1, cx, y2, x2, y2)
}

func selfLoopPath(b layout.Box, size float64) string {
	x := b.Left() + b.Width
	y1 := b.Center.Y - b.Height/4
	y2 := b.Center.Y + b.Height/4
	return fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f", x, y1, x+size, y1-size/2, x+size, y2+size/2, x, y2)
}
