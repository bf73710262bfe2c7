package resolve

import (
	"sort"

	"github.com/kernelkit/kernel/pkg/plugin"
	"github.com/kernelkit/kernel/pkg/semver"
)

// resolveVersions implements C3: each plugin declares exactly one concrete
// version; every non-optional dependency on it contributes a constraint that
// version must satisfy. There is no candidate selection — a single plugin
// set carries one version per name — so a failure to satisfy every
// constraint is reported as a KindVersion conflict rather than resolved by
// picking an alternative.
func resolveVersions(plugins map[string]Input, conditionCtx map[string]string) (map[string]semver.Version, []Conflict) {
	versions := make(map[string]semver.Version, len(plugins))
	for name, p := range plugins {
		versions[name] = p.Version
	}

	type declaredDependency struct {
		declarer string
		dep      plugin.Dependency
	}

	constraintsByTarget := map[string][]declaredDependency{}
	for _, name := range sortedNames(plugins) {
		p := plugins[name]
		for _, dep := range p.Dependencies {
			if !conditionsHold(dep, conditionCtx) {
				continue
			}
			if _, ok := plugins[dep.Target]; !ok {
				continue
			}
			constraintsByTarget[dep.Target] = append(constraintsByTarget[dep.Target], declaredDependency{declarer: name, dep: dep})
		}
	}

	var conflicts []Conflict
	for _, target := range sortedTargets(constraintsByTarget) {
		have := versions[target]
		var requiredBy []string
		unsatisfied := false
		for _, dd := range constraintsByTarget[target] {
			requiredBy = append(requiredBy, dd.declarer)
			if !semver.Satisfies(dd.dep.Constraint, have) {
				unsatisfied = true
			}
		}
		if unsatisfied {
			conflicts = append(conflicts, Conflict{
				Kind:       KindVersion,
				Target:     target,
				Candidates: []string{have.String()},
				RequiredBy: requiredBy,
			})
		}
	}

	return versions, conflicts
}

func sortedTargets[V any](m map[string][]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
