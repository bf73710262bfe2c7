package graph

import (
	"reflect"
	"testing"

	"github.com/kernelkit/kernel/pkg/semver"
)

func v1() semver.Version { return semver.MustParse("1.0.0") }

func TestAddEdgeAndTraversal(t *testing.T) {
	g := New()
	g.AddNode("a", v1(), false)
	g.AddNode("b", v1(), false)
	g.AddEdge("a", "b")

	if got := g.Successors("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Successors(a) = %v, want [b]", got)
	}
	if got := g.Predecessors("b"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Predecessors(b) = %v, want [a]", got)
	}
	if !g.HasEdge("a", "b") {
		t.Errorf("expected edge a->b")
	}
}

func TestDetectCyclesNone(t *testing.T) {
	g := New()
	g.AddNode("a", v1(), false)
	g.AddNode("b", v1(), false)
	g.AddNode("c", v1(), false)
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}

func TestDetectCyclesSimple(t *testing.T) {
	g := New()
	g.AddNode("a", v1(), false)
	g.AddNode("b", v1(), false)
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d: %v", len(cycles), cycles)
	}
	want := []string{"a", "b", "a"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Errorf("cycle = %v, want %v", cycles[0], want)
	}
}

func TestDetectCyclesCanonicalRotation(t *testing.T) {
	// Same cycle discovered starting from "b" or "c" should collapse to one
	// canonical entry regardless of discovery order.
	g := New()
	g.AddNode("b", v1(), false)
	g.AddNode("c", v1(), false)
	g.AddNode("a", v1(), false)
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected exactly 1 cycle, got %d: %v", len(cycles), cycles)
	}
	want := []string{"a", "b", "c", "a"}
	if !reflect.DeepEqual(cycles[0], want) {
		t.Errorf("cycle = %v, want %v (lexicographically smallest first)", cycles[0], want)
	}
}

func TestDetectCyclesIgnoresOptionalEdgeToMissingTarget(t *testing.T) {
	g := New()
	g.AddNode("a", v1(), false)
	g.AddEdge("a", "missing")

	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles through a missing node, got %v", cycles)
	}
}
