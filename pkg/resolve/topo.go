package resolve

import (
	"sort"

	"github.com/kernelkit/kernel/pkg/graph"
)

// TopoSort implements C4: Kahn's algorithm over g, augmented with the
// synthetic before/after edges carried on each plugin's Hint. Ties among
// ready nodes (no unordered dependencies left) break on (priority DESC,
// name ASC). A synthetic
// edge that would close a cycle is dropped with a warning rather than
// rejected outright — before/after are scheduling hints, not hard
// dependencies, so they never turn a resolvable set into a fatal conflict.
func TopoSort(g *graph.Graph, hints map[string]Hint) (order []string, warnings []string) {
	all := g.AllNodes()
	present := make(map[string]bool, len(all))
	for _, n := range all {
		present[n] = true
	}

	var added [][2]string
	for _, name := range all {
		h := hints[name]
		for _, before := range h.Before {
			if !present[before] || g.HasEdge(before, name) {
				continue
			}
			g.AddEdge(before, name)
			added = append(added, [2]string{before, name})
		}
		for _, after := range h.After {
			if !present[after] || g.HasEdge(name, after) {
				continue
			}
			g.AddEdge(name, after)
			added = append(added, [2]string{name, after})
		}
	}

	// A synthetic edge that introduces a cycle is dropped: walk the cycles
	// post-insertion and remove any added edge that participates in one.
	for _, cycle := range g.DetectCycles() {
		for i := 0; i < len(cycle)-1; i++ {
			from, to := cycle[i], cycle[i+1]
			for _, a := range added {
				if a[0] == from && a[1] == to {
					g.RemoveEdge(from, to)
					warnings = append(warnings, "dropped load-order hint "+from+" -> "+to+": would introduce a cycle")
				}
			}
		}
	}

	priority := make(map[string]int, len(all))
	for _, name := range all {
		priority[name] = hints[name].Priority
	}

	// remaining counts each node's not-yet-ordered dependencies (its
	// Successors, since an edge A -> B means A depends on B). A node
	// becomes ready once every plugin it depends on has already been
	// placed in order, which is what keeps index(B) < index(A) for every
	// edge A -> B. Edges to targets that are not registered nodes (a
	// missing optional dependency) are not counted.
	remaining := make(map[string]int, len(all))
	for _, name := range all {
		for _, dep := range g.Successors(name) {
			if present[dep] {
				remaining[name]++
			}
		}
	}

	var ready []string
	for _, name := range all {
		if remaining[name] == 0 {
			ready = append(ready, name)
		}
	}

	less := func(a, b string) bool {
		if priority[a] != priority[b] {
			return priority[a] > priority[b]
		}
		return a < b
	}

	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		for _, dependent := range g.Predecessors(next) {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) < len(all) {
		// Nodes left out of order are on a cycle through a non-optional edge
		// that DetectCycles/classify already reported as fatal upstream;
		// Resolve never reaches TopoSort in that case, but append the
		// remainder deterministically as a defensive fallback.
		done := make(map[string]bool, len(order))
		for _, n := range order {
			done[n] = true
		}
		var rest []string
		for _, n := range all {
			if !done[n] {
				rest = append(rest, n)
			}
		}
		sort.Strings(rest)
		order = append(order, rest...)
	}

	return order, warnings
}

// ValidateOrder re-checks every non-optional edge A -> B (A depends on B) for
// index(B) < index(A): the dependency must load before its dependent.
func ValidateOrder(g *graph.Graph, order []string, plugins map[string]Input) []string {
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i
	}

	var violations []string
	for _, name := range g.AllNodes() {
		p, ok := plugins[name]
		if !ok {
			continue
		}
		for _, dep := range p.Dependencies {
			if dep.Optional {
				continue
			}
			depIdx, depOk := index[dep.Target]
			nameIdx, nameOk := index[name]
			if !depOk || !nameOk {
				continue
			}
			if depIdx >= nameIdx {
				violations = append(violations, name)
			}
		}
	}
	return violations
}
