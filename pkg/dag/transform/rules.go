package transform

import (
	"fmt"
	"slices"
)

// PredecessorRule decides which in-cycle parent must be placed before the
// element at index of cycle. Returning ok == false marks the element as the
// cycle's entry: it waits for nothing inside that cycle.
//
// Rules only choose among cycle members; parents outside the cycle are always
// required by [AssignLayers] regardless of the rule.
type PredecessorRule func(cycle Cycle, index int) (pred string, ok bool)

// Rule names accepted by [RuleByName].
const (
	RuleDiscovery     = "discovery"
	RuleLexicographic = "lexicographic"
)

// DiscoveryOrder threads cycle members in the order the traversal found them.
// The first element entered the cycle and needs no predecessor; every other
// element waits for the element discovered just before it. For a self-loop
// [n] this means n never waits for itself.
func DiscoveryOrder(c Cycle, i int) (string, bool) {
	if i == 0 {
		return "", false
	}
	return c[i-1], true
}

// LexicographicEntry enters every cycle at its lexicographically smallest
// member and threads the rest along the closed path from there. Unlike
// [DiscoveryOrder] the result does not depend on where traversal started.
//
// Entries are chosen per cycle, so overlapping cycles can deadlock; the
// assigner then places the blocked ids with its stall fallback.
func LexicographicEntry(c Cycle, i int) (string, bool) {
	if i == slices.Index(c, slices.Min(c)) {
		return "", false
	}
	return c.Predecessor(i), true
}

// RuleByName resolves a configured rule name. The empty name selects
// [DiscoveryOrder].
func RuleByName(name string) (PredecessorRule, error) {
	switch name {
	case "", RuleDiscovery:
		return DiscoveryOrder, nil
	case RuleLexicographic:
		return LexicographicEntry, nil
	default:
		return nil, fmt.Errorf("unknown predecessor rule %q (must be one of: %s, %s)", name, RuleDiscovery, RuleLexicographic)
	}
}
