// Package resolve is the resolver facade (C6): it orchestrates the version
// algebra, dependency graph, version resolver, topological sorter and
// conflict engine to turn a plugin set into a ResolutionResult.
package resolve

import (
	"sort"
	"strings"
	"time"

	"github.com/kernelkit/kernel/pkg/graph"
	"github.com/kernelkit/kernel/pkg/plugin"
	"github.com/kernelkit/kernel/pkg/semver"
)

// Strategy is the resolution policy governing how the conflict engine
// treats each conflict kind.
type Strategy string

const (
	Strict     Strategy = "strict"
	Permissive Strategy = "permissive"
	Auto       Strategy = "auto"
)

// Hint carries the load-order tie-break priority and the before/after
// ordering hints a kernel builder may attach to a plugin's use() call.
type Hint struct {
	Priority int
	Before   []string
	After    []string
}

// Input is a single plugin entry submitted to Resolve.
type Input struct {
	Name         string
	Version      semver.Version
	Dependencies []plugin.Dependency
	Hint         Hint
}

// Result is the resolver facade's output: the §3 ResolutionResult.
type Result struct {
	Order          []string
	Conflicts      []Conflict
	Versions       map[string]semver.Version
	Warnings       []string
	ResolutionTime time.Duration
}

// Resolve runs the full pipeline: build graph -> resolve versions ->
// detect conflicts -> apply strategy -> synthesize load-order specs ->
// topological sort -> validate -> assemble report.
func Resolve(plugins map[string]Input, strategy Strategy, allowCircularDependencies bool, conditionCtx map[string]string) (*Result, error) {
	start := time.Now()

	g := graph.New()
	names := sortedNames(plugins)
	for _, name := range names {
		p := plugins[name]
		g.AddNode(name, p.Version, false)
	}

	hints := make(map[string]Hint, len(plugins))
	for _, name := range names {
		p := plugins[name]
		hints[name] = p.Hint
		for _, dep := range p.Dependencies {
			if !conditionsHold(dep, conditionCtx) {
				continue
			}
			g.AddEdge(name, dep.Target)
		}
	}

	var conflicts []Conflict
	var warnings []string

	conflicts = append(conflicts, missingConflicts(plugins, g, conditionCtx)...)

	// Cycles through any non-optional edge are fatal regardless of
	// allowCircularDependencies; only a cycle whose every edge is optional,
	// under allowCircularDependencies, is tolerated and its edges dropped
	// before ordering so the sorter doesn't stall on it.
	var allowedCycles [][]string
	for _, cycle := range g.DetectCycles() {
		if allowCircularDependencies && cycleFullyOptional(cycle, plugins) {
			allowedCycles = append(allowedCycles, cycle)
			warnings = append(warnings, "permitting optional-only cycle: "+strings.Join(cycle, " -> "))
			continue
		}
		conflicts = append(conflicts, Conflict{Kind: KindCircular, Cycle: cycle})
	}

	versions, versionConflicts := resolveVersions(plugins, conditionCtx)
	conflicts = append(conflicts, versionConflicts...)

	fatal, strategyWarnings := classify(strategy, conflicts)
	warnings = append(warnings, strategyWarnings...)

	if len(fatal) > 0 {
		return &Result{Conflicts: fatal, Warnings: warnings, ResolutionTime: time.Since(start)}, firstFatalError(fatal)
	}

	for _, cycle := range allowedCycles {
		breakCycleEdges(g, cycle, plugins)
	}

	order, topoWarnings := TopoSort(g, hints)
	warnings = append(warnings, topoWarnings...)

	if violations := ValidateOrder(g, order, plugins); len(violations) > 0 {
		var loadConflicts []Conflict
		for _, v := range violations {
			loadConflicts = append(loadConflicts, Conflict{Kind: KindLoadOrder, Target: v})
		}
		fatal, loadWarnings := classify(strategy, loadConflicts)
		warnings = append(warnings, loadWarnings...)
		if len(fatal) > 0 {
			return &Result{Order: order, Conflicts: fatal, Warnings: warnings, ResolutionTime: time.Since(start)}, firstFatalError(fatal)
		}
	}

	return &Result{
		Order:          order,
		Conflicts:      nil,
		Versions:       versions,
		Warnings:       warnings,
		ResolutionTime: time.Since(start),
	}, nil
}

// ValidatePlugins runs constraint-only checks (version + condition + missing
// non-optional targets) without allocating a graph.
func ValidatePlugins(plugins map[string]Input, conditionCtx map[string]string) []Conflict {
	var conflicts []Conflict
	for _, name := range sortedNames(plugins) {
		p := plugins[name]
		for _, dep := range p.Dependencies {
			if !conditionsHold(dep, conditionCtx) {
				conflicts = append(conflicts, Conflict{Kind: KindCondition, Target: dep.Target, RequiredBy: []string{name}})
				continue
			}
			target, ok := plugins[dep.Target]
			if !ok {
				if !dep.Optional {
					conflicts = append(conflicts, Conflict{Kind: KindMissing, Target: dep.Target, RequiredBy: []string{name}})
				}
				continue
			}
			if !semver.Satisfies(dep.Constraint, target.Version) {
				conflicts = append(conflicts, Conflict{
					Kind:       KindVersion,
					Target:     dep.Target,
					Candidates: []string{target.Version.String()},
					RequiredBy: []string{name},
				})
			}
		}
	}
	return conflicts
}

func conditionsHold(dep plugin.Dependency, ctx map[string]string) bool {
	for _, c := range dep.Conditions {
		if !c.Evaluate(ctx) {
			return false
		}
	}
	return true
}

func missingConflicts(plugins map[string]Input, g *graph.Graph, conditionCtx map[string]string) []Conflict {
	var out []Conflict
	for _, name := range sortedNames(plugins) {
		p := plugins[name]
		for _, dep := range p.Dependencies {
			if !conditionsHold(dep, conditionCtx) {
				continue
			}
			if _, ok := plugins[dep.Target]; !ok {
				out = append(out, Conflict{Kind: KindMissing, Target: dep.Target, RequiredBy: []string{name}, optional: dep.Optional})
			}
		}
	}
	return dedupeMissing(out)
}

func dedupeMissing(in []Conflict) []Conflict {
	byTarget := map[string]*Conflict{}
	var order []string
	for _, c := range in {
		existing, ok := byTarget[c.Target]
		if !ok {
			cc := c
			byTarget[c.Target] = &cc
			order = append(order, c.Target)
			continue
		}
		existing.RequiredBy = append(existing.RequiredBy, c.RequiredBy...)
		existing.optional = existing.optional && c.optional
	}
	out := make([]Conflict, 0, len(order))
	for _, t := range order {
		out = append(out, *byTarget[t])
	}
	return out
}

func firstFatalError(fatal []Conflict) error {
	if len(fatal) == 0 {
		return nil
	}
	return fatal[0].toError()
}

func sortedNames(plugins map[string]Input) []string {
	names := make([]string, 0, len(plugins))
	for n := range plugins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func breakCycleEdges(g *graph.Graph, cycle []string, plugins map[string]Input) {
	for i := 0; i < len(cycle)-1; i++ {
		from, to := cycle[i], cycle[i+1]
		if isOptionalEdge(plugins, from, to) {
			g.RemoveEdge(from, to)
		}
	}
}

func isOptionalEdge(plugins map[string]Input, from, to string) bool {
	p, ok := plugins[from]
	if !ok {
		return false
	}
	for _, dep := range p.Dependencies {
		if dep.Target == to {
			return dep.Optional
		}
	}
	return false
}

// cycleFullyOptional reports whether every edge along cycle (a -> b -> ...
// -> a) is an optional dependency, the precondition for
// allowCircularDependencies to tolerate it.
func cycleFullyOptional(cycle []string, plugins map[string]Input) bool {
	for i := 0; i < len(cycle)-1; i++ {
		if !isOptionalEdge(plugins, cycle[i], cycle[i+1]) {
			return false
		}
	}
	return true
}
