package transform

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrCycleMembership is returned when a node is registered on a cycle whose
// path does not contain it. It signals a defect in cycle bookkeeping, never a
// property of the input graph.
var ErrCycleMembership = errors.New("node missing from assigned cycle")

// Cycle is a closed path of node ids [n0, n1, ..., nk] where nk points back
// to n0. A self-loop is the single-element cycle [n].
type Cycle []string

// Index returns the position of id in the cycle, or -1.
func (c Cycle) Index(id string) int { return slices.Index(c, id) }

// Predecessor returns the element preceding position i on the closed path:
// c[i-1], or the closing element c[len(c)-1] for i == 0.
func (c Cycle) Predecessor(i int) string {
	if i == 0 {
		return c[len(c)-1]
	}
	return c[i-1]
}

// String renders the cycle as "a -> b -> a".
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	return strings.Join(c, " -> ") + " -> " + c[0]
}

func (c Cycle) key() string { return strings.Join(c, "\x00") }

// Membership records every detected cycle a node lies on.
// The zero value (no cycles) is valid.
type Membership struct {
	Node    string
	Paths   []Cycle
	Members map[string]struct{}

	keys map[string]struct{}
}

// InCycle reports whether the node lies on at least one detected cycle.
func (m Membership) InCycle() bool { return len(m.Paths) > 0 }

// Contains reports whether id shares a detected cycle with the node.
func (m Membership) Contains(id string) bool {
	_, ok := m.Members[id]
	return ok
}

// Predecessors returns the structural predecessor of the node on each of its
// cycles, in discovery order.
func (m Membership) Predecessors() ([]string, error) {
	out := make([]string, 0, len(m.Paths))
	for _, c := range m.Paths {
		i := c.Index(m.Node)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s not on %s", ErrCycleMembership, m.Node, c)
		}
		out = append(out, c.Predecessor(i))
	}
	return out, nil
}

// NeededPredecessors returns, per cycle, the in-cycle parent that rule says
// must be placed before the node. Cycles the node enters contribute nothing.
func (m Membership) NeededPredecessors(rule PredecessorRule) ([]string, error) {
	var out []string
	for _, c := range m.Paths {
		i := c.Index(m.Node)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s not on %s", ErrCycleMembership, m.Node, c)
		}
		if p, ok := rule(c, i); ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Membership) add(c Cycle) {
	k := c.key()
	if _, seen := m.keys[k]; seen {
		return
	}
	if m.keys == nil {
		m.keys = make(map[string]struct{})
		m.Members = make(map[string]struct{})
	}
	m.keys[k] = struct{}{}
	m.Paths = append(m.Paths, c)
	for _, id := range c {
		m.Members[id] = struct{}{}
	}
}

// Cycles is the per-node cycle store produced by [DetectCycles].
type Cycles struct {
	byNode map[string]*Membership
	all    []Cycle
	seen   map[string]struct{}
}

// Membership returns the cycles id lies on. Nodes outside every cycle get an
// empty Membership.
func (c *Cycles) Membership(id string) Membership {
	if m, ok := c.byNode[id]; ok {
		return *m
	}
	return Membership{Node: id}
}

// InCycle reports whether id lies on a detected cycle.
func (c *Cycles) InCycle(id string) bool {
	_, ok := c.byNode[id]
	return ok
}

// All returns the distinct detected cycles in discovery order.
func (c *Cycles) All() []Cycle { return slices.Clone(c.all) }

// Count returns the number of distinct detected cycles.
func (c *Cycles) Count() int { return len(c.all) }

func (c *Cycles) record(cycle Cycle) {
	if k := cycle.key(); !hasKey(c.seen, k) {
		c.seen[k] = struct{}{}
		c.all = append(c.all, cycle)
	}
	for _, id := range cycle {
		m, ok := c.byNode[id]
		if !ok {
			m = &Membership{Node: id}
			c.byNode[id] = m
		}
		m.add(cycle)
	}
}

func hasKey(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}

// DetectCycles enumerates cycles by depth-first traversal along the
// dependency lists of rel.
//
// Traversal starts from every not-yet-explored id in insertion order. When a
// candidate is already on the current path, the path slice starting at its
// occurrence is recorded as a cycle on every member. A candidate that has
// been explored before is never descended into again.
//
// # Limitation
//
// Because exploration is global, a cycle reachable only through a second,
// later path into an already explored node is not enumerated. The result is
// a bounded-cost approximation: every node on some cycle found this way gets
// at least one membership, which is what [AssignLayers] needs. It is not an
// exhaustive elementary-cycle enumeration.
//
// Time complexity is O(V + E) plus the size of the recorded cycles.
func DetectCycles(rel *Relationships) *Cycles {
	out := &Cycles{
		byNode: make(map[string]*Membership),
		seen:   make(map[string]struct{}),
	}

	explored := make(map[string]bool, rel.Len())
	onPath := make(map[string]int)
	var path []string

	var visit func(id string)
	visit = func(id string) {
		if i, ok := onPath[id]; ok {
			out.record(slices.Clone(Cycle(path[i:])))
		}
		if explored[id] {
			return
		}
		explored[id] = true

		onPath[id] = len(path)
		path = append(path, id)
		for _, dep := range rel.Dependencies[id] {
			visit(dep)
		}
		path = path[:len(path)-1]
		delete(onPath, id)
	}

	for _, id := range rel.IDs() {
		visit(id)
	}
	return out
}
