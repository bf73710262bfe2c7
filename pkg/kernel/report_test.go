package kernel

import (
	"strings"
	"testing"

	"github.com/kernelkit/kernel/pkg/resolve"
)

func TestNewReportRendersConflicts(t *testing.T) {
	result := &resolve.Result{
		Order:    []string{"a", "b"},
		Warnings: []string{"missing optional dependency ghost required by a"},
		Conflicts: []resolve.Conflict{
			{Kind: resolve.KindCircular, Cycle: []string{"x", "y", "x"}},
		},
	}

	report := NewReport(result)
	if len(report.Order) != 2 {
		t.Fatalf("Order = %v, want 2 entries", report.Order)
	}
	if len(report.Conflicts) != 1 || !strings.Contains(report.Conflicts[0], "x -> y -> x") {
		t.Fatalf("Conflicts = %v, want cycle rendered", report.Conflicts)
	}

	s := report.String()
	if !strings.Contains(s, "order: a -> b") {
		t.Errorf("String() = %q, want order line", s)
	}
	if !strings.Contains(s, "circular:") {
		t.Errorf("String() = %q, want conflict line", s)
	}
	if !strings.Contains(s, "warning:") {
		t.Errorf("String() = %q, want warning line", s)
	}
}

func TestNewReportNilResult(t *testing.T) {
	report := NewReport(nil)
	if report.Order != nil || report.Conflicts != nil || report.Warnings != nil {
		t.Errorf("NewReport(nil) = %+v, want zero value", report)
	}
}
