package kernelerr

import (
	"errors"
	"testing"
)

func TestIsComparesByKindOnly(t *testing.T) {
	a := NewMissingDependency("db", []string{"api"})
	b := NewMissingDependency("cache", []string{"web"})

	if !errors.Is(a, b) {
		t.Errorf("expected errors of the same kind to match via errors.Is")
	}
	if errors.Is(a, NewCircularDependency([]string{"a", "b", "a"})) {
		t.Errorf("expected errors of different kinds not to match")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	e := NewPluginSetupFailed("db", cause)
	if errors.Unwrap(e) != cause {
		t.Errorf("Unwrap() did not expose the wrapped cause")
	}
}

func TestNewExtensionCycleCarriesPathAndSelfExtensionKind(t *testing.T) {
	e := NewExtensionCycle([]string{"a", "b", "a"})
	if e.Kind != SelfExtension {
		t.Errorf("Kind = %s, want SelfExtension (taxonomy has no dedicated cycle kind)", e.Kind)
	}
	if len(e.Cycle) != 3 {
		t.Errorf("Cycle = %v, want the full closed path", e.Cycle)
	}
	if e.Message == `plugin "a" cannot extend itself` {
		t.Errorf("expected a cycle-specific message, got the self-extension one")
	}
}

func TestSuggestionsNonEmptyForEveryKind(t *testing.T) {
	kinds := []*Error{
		NewInvalidPluginName("X"),
		NewInvalidVersion("1.x", nil),
		NewInvalidConstraint("^x", nil),
		NewDuplicatePlugin("db"),
		NewMissingDependency("db", []string{"api"}),
		NewCircularDependency([]string{"a", "b", "a"}),
		NewVersionConflict("db", []string{"1.0.0"}, []string{"api", "web"}),
		NewConditionUnmet("db", "env"),
		NewPluginSetupFailed("db", errors.New("x")),
		NewPluginDestroyFailed("db", errors.New("x")),
		NewPluginTimeout("db", "setup"),
		NewInvalidExtensionTarget("logger"),
		NewSelfExtension("logger"),
		NewExtensionFailed("trace", "logger", errors.New("x")),
		NewKernelNotInitialized(),
		NewKernelAlreadyInitialized(),
		NewIllegalStateTransition("db", "registered", "destroyed"),
	}
	for _, e := range kinds {
		if len(Suggestions(e)) == 0 {
			t.Errorf("Suggestions(%s) returned none", e.Kind)
		}
	}
}
