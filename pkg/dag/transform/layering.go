package transform

import (
	"maps"
	"slices"

	"github.com/matzehuels/deplayer/pkg/dag"
)

// Layer is an ordered rank of node ids; order is discovery order.
type Layer []string

// Layers is the ordered list of ranks. Index 0 is the root layer.
type Layers []Layer

// Count returns the total number of ids across all layers.
func (l Layers) Count() int {
	n := 0
	for _, layer := range l {
		n += len(layer)
	}
	return n
}

// Index returns the layer index holding id, or -1.
func (l Layers) Index(id string) int {
	for i, layer := range l {
		if slices.Contains(layer, id) {
			return i
		}
	}
	return -1
}

// Organization is the outcome of layer assignment.
type Organization struct {
	// Layers holds every placed id.
	Layers Layers
	// Unplaced lists ids the assigner could not place before it stalled,
	// in graph order. It is empty for a complete assignment.
	Unplaced []string

	// Relationships and Cycles are the intermediate results, set by
	// [Organize].
	Relationships *Relationships
	Cycles        *Cycles
}

// Stalled reports whether the assigner stopped with ids left unplaced.
func (o Organization) Stalled() bool { return len(o.Unplaced) > 0 }

// Placed returns the number of ids that received a layer.
func (o Organization) Placed() int { return o.Layers.Count() }

// AssignLayers partitions every id of rel into layers.
//
// A node is placed once all of its relevant parents sit in finished layers.
// Relevant parents are the parents that share no detected cycle with the
// node, plus the needed predecessor the rule picks on each of its cycles. A
// node is never its own relevant parent, so self-loops cannot block it.
//
// Each round scans the unplaced ids in graph order and collects the ones
// whose relevant parents are all placed; the collected ids become the next
// layer. The result is the minimum number of layers satisfying those
// constraints. Cycle edges may point from a later layer back to an earlier
// one.
//
// If a round places nothing while ids remain, the remaining ids are retried
// once with the stall fallback rule. If that places nothing either, the
// assigner stops and returns the remaining ids in [Organization.Unplaced].
// The only error is [ErrCycleMembership].
func AssignLayers(rel *Relationships, cycles *Cycles, opts ...Option) (Organization, error) {
	cfg := newConfig(opts)

	needs, err := neededParents(rel.IDs(), rel, cycles, cfg.rule)
	if err != nil {
		return Organization{}, err
	}

	state := layering{placed: map[string]struct{}{}}
	remaining := slices.Clone(rel.IDs())
	retried := false
	for len(remaining) > 0 {
		next := state.collect(remaining, needs)
		if len(next) == 0 {
			if retried || cfg.fallback == nil {
				break
			}
			retried = true
			cfg.logger.Debug("rule blocked layering, retrying with fallback", "remaining", len(remaining))
			fallback, err := neededParents(remaining, rel, cycles, cfg.fallback)
			if err != nil {
				return Organization{}, err
			}
			maps.Copy(needs, fallback)
			continue
		}
		cfg.logger.Debug("layer assigned", "layer", len(state.layers), "nodes", len(next))
		state = state.finish(next)
		remaining = slices.DeleteFunc(remaining, state.isPlaced)
	}

	org := Organization{Layers: state.layers}
	if len(remaining) > 0 {
		org.Unplaced = slices.Clone(remaining)
		cfg.logger.Warn("layer assignment stalled",
			"placed", org.Placed(), "unplaced", len(org.Unplaced), "total", rel.Len())
	}
	return org, nil
}

// Organize runs the whole layering stage on g: relationship indexing, cycle
// detection and layer assignment.
func Organize(g *dag.Graph, opts ...Option) (Organization, error) {
	rel := IndexRelationships(g, opts...)
	cycles := DetectCycles(rel)
	org, err := AssignLayers(rel, cycles, opts...)
	if err != nil {
		return Organization{}, err
	}
	org.Relationships = rel
	org.Cycles = cycles
	return org, nil
}

func neededParents(ids []string, rel *Relationships, cycles *Cycles, rule PredecessorRule) (map[string][]string, error) {
	needs := make(map[string][]string, len(ids))
	for _, id := range ids {
		parents, err := relevantParents(id, rel, cycles.Membership(id), rule)
		if err != nil {
			return nil, err
		}
		needs[id] = parents
	}
	return needs, nil
}

func relevantParents(id string, rel *Relationships, m Membership, rule PredecessorRule) ([]string, error) {
	needed, err := m.NeededPredecessors(rule)
	if err != nil {
		return nil, err
	}

	var out []string
	seen := map[string]struct{}{id: {}}
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range rel.Parents[id] {
		if !m.Contains(p) {
			add(p)
		}
	}
	for _, p := range needed {
		add(p)
	}
	return out, nil
}

// layering is the state threaded through the assignment fold. Values are
// never mutated in place: finish returns a new state.
type layering struct {
	placed map[string]struct{}
	layers Layers
}

func (s layering) isPlaced(id string) bool {
	_, ok := s.placed[id]
	return ok
}

// collect scans ids in order and returns the ones whose needs are all in
// finished layers. Repeated ids are collected once.
func (s layering) collect(ids []string, needs map[string][]string) Layer {
	var next Layer
	seen := make(map[string]struct{})
	for _, id := range ids {
		if _, dup := seen[id]; dup || s.isPlaced(id) {
			continue
		}
		if !s.ready(needs[id]) {
			continue
		}
		seen[id] = struct{}{}
		next = append(next, id)
	}
	return next
}

func (s layering) ready(needs []string) bool {
	for _, p := range needs {
		if !s.isPlaced(p) {
			return false
		}
	}
	return true
}

// finish seals layer as the next rank.
func (s layering) finish(layer Layer) layering {
	placed := maps.Clone(s.placed)
	for _, id := range layer {
		placed[id] = struct{}{}
	}
	return layering{
		placed: placed,
		layers: append(slices.Clip(s.layers), layer),
	}
}
