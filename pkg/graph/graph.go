// Package graph is the dependency graph the kernel resolver walks: an
// adjacency store over plugin names with cycle detection and traversal.
package graph

import (
	"fmt"
	"sort"

	"github.com/kernelkit/kernel/pkg/semver"
)

// Node is a single plugin entry in the graph.
type Node struct {
	Name     string
	Version  semver.Version
	Optional bool
}

// Graph is an adjacency mapping name -> set<name> (outgoing = depends-on)
// plus a reverse index, over a fixed set of named nodes.
type Graph struct {
	nodes   map[string]*Node
	out     map[string]map[string]bool
	in      map[string]map[string]bool
	edgeSeq []edge // insertion order, for deterministic traversal
}

type edge struct{ from, to string }

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		out:   make(map[string]map[string]bool),
		in:    make(map[string]map[string]bool),
	}
}

// AddNode registers a plugin name in the graph. Re-adding an existing name
// updates its version/optional flag in place.
func (g *Graph) AddNode(name string, version semver.Version, optional bool) {
	if _, exists := g.nodes[name]; !exists {
		g.out[name] = make(map[string]bool)
		g.in[name] = make(map[string]bool)
	}
	g.nodes[name] = &Node{Name: name, Version: version, Optional: optional}
}

// AddEdge records that from depends on to. to need not yet exist as a node
// — optional missing targets are tolerated, but the edge is still recorded
// so ordering can account for it once/if the target appears.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.out[from]; !ok {
		g.out[from] = make(map[string]bool)
	}
	if _, ok := g.in[to]; !ok {
		g.in[to] = make(map[string]bool)
	}
	if g.out[from][to] {
		return
	}
	g.out[from][to] = true
	g.in[to][from] = true
	g.edgeSeq = append(g.edgeSeq, edge{from, to})
}

// RemoveEdge undoes a prior AddEdge. Used when a synthetic before/after
// hint would introduce a cycle and must be dropped.
func (g *Graph) RemoveEdge(from, to string) {
	if g.out[from] != nil {
		delete(g.out[from], to)
	}
	if g.in[to] != nil {
		delete(g.in[to], from)
	}
	for i, e := range g.edgeSeq {
		if e.from == from && e.to == to {
			g.edgeSeq = append(g.edgeSeq[:i], g.edgeSeq[i+1:]...)
			break
		}
	}
}

// GetNode returns the node registered under name, if any.
func (g *Graph) GetNode(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// AllNodes returns every registered node name in sorted order.
func (g *Graph) AllNodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Predecessors returns the names that declare a dependency on name.
func (g *Graph) Predecessors(name string) []string {
	return sortedKeys(g.in[name])
}

// Successors returns the names that name declares a dependency on.
func (g *Graph) Successors(name string) []string {
	return sortedKeys(g.out[name])
}

// HasEdge reports whether from declares a dependency on to.
func (g *Graph) HasEdge(from, to string) bool {
	return g.out[from][to]
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type color int

const (
	white color = iota
	gray
	black
)

// DetectCycles runs a tri-state-colored DFS over every registered node and
// returns every distinct cycle found, each in canonical
// form: rotated so its lexicographically smallest name comes first, so that
// the same cycle discovered from different starting nodes collapses to one
// entry. A cycle is returned as the walk a -> b -> ... -> a.
func (g *Graph) DetectCycles() [][]string {
	colors := make(map[string]color, len(g.nodes))
	var cycles [][]string
	seen := make(map[string]bool)

	var stack []string

	var visit func(name string)
	visit = func(name string) {
		colors[name] = gray
		stack = append(stack, name)

		for _, next := range g.Successors(name) {
			switch colors[next] {
			case white:
				visit(next)
			case gray:
				cycle := extractCycle(stack, next)
				canon := canonicalize(cycle)
				key := fmt.Sprint(canon)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, canon)
				}
			case black:
				// already fully explored, no cycle through it
			}
		}

		stack = stack[:len(stack)-1]
		colors[name] = black
	}

	for _, name := range g.AllNodes() {
		if colors[name] == white {
			visit(name)
		}
	}

	return cycles
}

// extractCycle slices the DFS stack from the first occurrence of target to
// its end, then closes the loop by repeating target.
func extractCycle(stack []string, target string) []string {
	idx := -1
	for i, n := range stack {
		if n == target {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	cycle := append([]string{}, stack[idx:]...)
	cycle = append(cycle, target)
	return cycle
}

// canonicalize rotates a closed cycle path (a -> b -> ... -> a) so its
// lexicographically smallest node leads, keeping the closing repeat.
func canonicalize(cycle []string) []string {
	if len(cycle) <= 1 {
		return cycle
	}
	open := cycle[:len(cycle)-1] // drop the closing repeat for rotation
	minIdx := 0
	for i, n := range open {
		if n < open[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, open[minIdx:]...)
	rotated = append(rotated, open[:minIdx]...)
	rotated = append(rotated, rotated[0])
	return rotated
}
