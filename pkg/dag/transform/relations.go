package transform

import (
	"github.com/matzehuels/deplayer/pkg/dag"
)

// Relationships is the adjacency index derived from a [dag.Graph].
//
// Every distinct node id has an entry in both maps, defaulting to an empty
// list. Relationships is built once by [IndexRelationships] and never
// modified afterwards; it holds no reference to the graph it came from.
type Relationships struct {
	// Dependencies maps an id to the ids it points to, in edge order.
	Dependencies map[string][]string
	// Parents maps an id to the ids pointing to it, in edge order.
	Parents map[string][]string
	// Duplicates lists ids registered more than once; the first
	// registration is authoritative.
	Duplicates []string
	// Dangling lists edges skipped because an endpoint was never registered.
	Dangling []dag.Edge

	ids []string
}

// IDs returns the distinct node ids in graph insertion order.
func (r *Relationships) IDs() []string { return r.ids }

// Len returns the number of distinct node ids.
func (r *Relationships) Len() int { return len(r.ids) }

// Has reports whether id was registered.
func (r *Relationships) Has(id string) bool {
	_, ok := r.Parents[id]
	return ok
}

// IndexRelationships builds the dependency and parent mappings of g.
//
// For every edge (s, e), e is appended to Dependencies[s] and s to
// Parents[e]; repeated edges produce repeated entries. Duplicate node ids and
// edges with an unregistered endpoint are skipped with a warning and recorded
// on the result. The operation always succeeds.
func IndexRelationships(g *dag.Graph, opts ...Option) *Relationships {
	cfg := newConfig(opts)
	nodes := g.Nodes()

	rel := &Relationships{
		Dependencies: make(map[string][]string, len(nodes)),
		Parents:      make(map[string][]string, len(nodes)),
		ids:          make([]string, 0, len(nodes)),
	}

	for _, n := range nodes {
		if rel.Has(n.ID) {
			cfg.logger.Warn("duplicate node id", "id", n.ID)
			rel.Duplicates = append(rel.Duplicates, n.ID)
			continue
		}
		rel.Dependencies[n.ID] = []string{}
		rel.Parents[n.ID] = []string{}
		rel.ids = append(rel.ids, n.ID)
	}

	for _, e := range g.Edges() {
		if !rel.Has(e.Start) || !rel.Has(e.End) {
			cfg.logger.Warn("edge references unknown node", "start", e.Start, "end", e.End)
			rel.Dangling = append(rel.Dangling, e)
			continue
		}
		rel.Dependencies[e.Start] = append(rel.Dependencies[e.Start], e.End)
		rel.Parents[e.End] = append(rel.Parents[e.End], e.Start)
	}

	return rel
}
