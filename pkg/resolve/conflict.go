package resolve

import (
	"strings"

	"github.com/kernelkit/kernel/pkg/kernelerr"
)

// ConflictKind names one of the diagnostics the resolver facade raises.
type ConflictKind string

const (
	KindMissing   ConflictKind = "missing"
	KindCircular  ConflictKind = "circular"
	KindVersion   ConflictKind = "version"
	KindLoadOrder ConflictKind = "load_order"
	KindCondition ConflictKind = "condition"
)

// Conflict is a single classified diagnostic raised while resolving a
// plugin set, carrying only the fields relevant to its Kind.
type Conflict struct {
	Kind       ConflictKind
	Target     string
	RequiredBy []string
	Cycle      []string
	Candidates []string

	optional bool // missing-only: every requiredBy edge into Target was optional
}

func (c Conflict) toError() error {
	switch c.Kind {
	case KindMissing:
		return kernelerr.NewMissingDependency(c.Target, c.RequiredBy)
	case KindCircular:
		return kernelerr.NewCircularDependency(c.Cycle)
	case KindVersion:
		return kernelerr.NewVersionConflict(c.Target, c.Candidates, c.RequiredBy)
	case KindLoadOrder:
		return &kernelerr.Error{Kind: kernelerr.IllegalStateTransition, Message: "load order violated for " + c.Target, Target: c.Target}
	case KindCondition:
		return kernelerr.NewConditionUnmet(c.Target, strings.Join(c.RequiredBy, ","))
	default:
		return kernelerr.NewMissingDependency(c.Target, c.RequiredBy)
	}
}

// classify applies the resolution-strategy table to each conflict,
// returning the conflicts that remain fatal and the warnings generated for
// the ones that were downgraded. Circular conflicts reaching this function
// are always fatal — resolve.go filters out cycles that
// allowCircularDependencies permits (every edge on them optional) before
// ever constructing a KindCircular Conflict for them.
func classify(strategy Strategy, conflicts []Conflict) (fatal []Conflict, warnings []string) {
	for _, c := range conflicts {
		switch c.Kind {
		case KindMissing:
			switch strategy {
			case Strict:
				fatal = append(fatal, c)
			case Permissive, Auto:
				if c.optional {
					warnings = append(warnings, "missing optional dependency "+c.Target+" required by "+strings.Join(c.RequiredBy, ", "))
				} else {
					fatal = append(fatal, c)
				}
			}

		case KindCircular:
			// Cycles through any non-optional edge are fatal regardless of
			// strategy.
			fatal = append(fatal, c)

		case KindVersion:
			switch strategy {
			case Strict:
				fatal = append(fatal, c)
			case Permissive:
				warnings = append(warnings, "version conflict on "+c.Target+" required by "+strings.Join(c.RequiredBy, ", "))
			case Auto:
				// versions.go only emits a KindVersion conflict once no
				// candidate satisfies every constraint, so auto has
				// nothing left to pick from: it downgrades to fatal too.
				fatal = append(fatal, c)
			}

		case KindLoadOrder:
			switch strategy {
			case Strict:
				fatal = append(fatal, c)
			case Permissive:
				warnings = append(warnings, "load order violated at "+c.Target)
			case Auto:
				warnings = append(warnings, "load order adjusted around "+c.Target)
			}

		case KindCondition:
			warnings = append(warnings, "condition unmet for dependency on "+c.Target)
		}
	}
	return fatal, warnings
}
