package kernel

import (
	"fmt"
	"strings"

	"github.com/kernelkit/kernel/pkg/resolve"
)

// Report is a human-readable rendering of a resolution result, built the
// same way a validation layer should separate "what went wrong" from "how
// to show it": a pure function over resolve.Result, never embedded in the
// resolver itself.
type Report struct {
	Order     []string
	Conflicts []string
	Warnings  []string
}

// NewReport renders result into display-ready lines. It never mutates
// result and performs no I/O; callers choose how to print it.
func NewReport(result *resolve.Result) Report {
	if result == nil {
		return Report{}
	}
	r := Report{
		Order:    append([]string{}, result.Order...),
		Warnings: append([]string{}, result.Warnings...),
	}
	for _, c := range result.Conflicts {
		r.Conflicts = append(r.Conflicts, renderConflict(c))
	}
	return r
}

func renderConflict(c resolve.Conflict) string {
	switch c.Kind {
	case resolve.KindMissing:
		return fmt.Sprintf("missing: %q required by %s", c.Target, strings.Join(c.RequiredBy, ", "))
	case resolve.KindCircular:
		return fmt.Sprintf("circular: %s", strings.Join(c.Cycle, " -> "))
	case resolve.KindVersion:
		return fmt.Sprintf("version: %q (%s) does not satisfy constraints from %s", c.Target, strings.Join(c.Candidates, ", "), strings.Join(c.RequiredBy, ", "))
	case resolve.KindLoadOrder:
		return fmt.Sprintf("load_order: violated at %q", c.Target)
	case resolve.KindCondition:
		return fmt.Sprintf("condition: unmet for %q required by %s", c.Target, strings.Join(c.RequiredBy, ", "))
	default:
		return fmt.Sprintf("%s: %q", c.Kind, c.Target)
	}
}

// String renders the report as a multi-line summary.
func (r Report) String() string {
	var b strings.Builder
	if len(r.Order) > 0 {
		fmt.Fprintf(&b, "order: %s\n", strings.Join(r.Order, " -> "))
	}
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "conflict: %s\n", c)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	return b.String()
}
