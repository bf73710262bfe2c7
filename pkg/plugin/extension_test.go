package plugin

import (
	"context"
	"testing"
	"time"

	"github.com/kernelkit/kernel/pkg/kernelerr"
)

func initializedEntity(t *testing.T, name string, api any) *Entity {
	t.Helper()
	decl, err := New(name, "1.0.0").Setup(func(DependencyContext) (any, error) { return api, nil }).Build()
	if err != nil {
		t.Fatalf("Build() unexpected error: %v", err)
	}
	e := NewEntity(decl)
	if err := e.Initialize(context.Background(), DependencyContext{}, time.Second); err != nil {
		t.Fatalf("Initialize() unexpected error: %v", err)
	}
	return e
}

func TestApplyExtensionShallowMergeOverwrite(t *testing.T) {
	target := initializedEntity(t, "logger", map[string]any{"log": "base-log", "level": "info"})

	ext := Extension{TargetName: "logger", Callback: func(api any) any {
		return map[string]any{"log": "extended-log", "trace": "trace-fn"}
	}}

	if err := ApplyExtension(context.Background(), "trace", ext, target, time.Second); err != nil {
		t.Fatalf("ApplyExtension() unexpected error: %v", err)
	}

	api, _ := target.API()
	merged := api.(map[string]any)
	if merged["log"] != "extended-log" {
		t.Errorf("expected overwritten key, got %v", merged["log"])
	}
	if merged["level"] != "info" {
		t.Errorf("expected preserved key 'level', got %v", merged["level"])
	}
	if merged["trace"] != "trace-fn" {
		t.Errorf("expected new key 'trace', got %v", merged["trace"])
	}
}

func TestApplyExtensionTimeout(t *testing.T) {
	target := initializedEntity(t, "logger", map[string]any{"log": "base"})
	ext := Extension{TargetName: "logger", Callback: func(api any) any {
		time.Sleep(50 * time.Millisecond)
		return map[string]any{}
	}}

	err := ApplyExtension(context.Background(), "trace", ext, target, time.Millisecond)
	if !kernelerr.Is(err, kernelerr.ExtensionFailed) {
		t.Errorf("expected ExtensionFailed on timeout, got %v", err)
	}
}

func TestValidateExtensionsRejectsSelfExtension(t *testing.T) {
	decls := map[string]Declaration{
		"logger": {Name: "logger", Extensions: []Extension{{TargetName: "logger"}}},
	}
	if err := ValidateExtensions(decls); !kernelerr.Is(err, kernelerr.SelfExtension) {
		t.Errorf("expected SelfExtension, got %v", err)
	}
}

func TestValidateExtensionsRejectsCycles(t *testing.T) {
	decls := map[string]Declaration{
		"a": {Name: "a", Extensions: []Extension{{TargetName: "b"}}},
		"b": {Name: "b", Extensions: []Extension{{TargetName: "a"}}},
	}
	err := ValidateExtensions(decls)
	if !kernelerr.Is(err, kernelerr.SelfExtension) {
		t.Fatalf("expected a SelfExtension-kinded error for a cyclic extension chain, got %v", err)
	}
	kerr, ok := err.(*kernelerr.Error)
	if !ok {
		t.Fatalf("expected *kernelerr.Error, got %T", err)
	}
	if len(kerr.Cycle) == 0 {
		t.Errorf("expected the cycle path to be populated, got %v", kerr.Cycle)
	}
	if kerr.Message == `plugin "a" cannot extend itself` || kerr.Message == `plugin "b" cannot extend itself` {
		t.Errorf("expected a cycle-specific message distinct from self-extension, got %q", kerr.Message)
	}
}

func TestValidateExtensionsAcceptsAcyclic(t *testing.T) {
	decls := map[string]Declaration{
		"a": {Name: "a", Extensions: []Extension{{TargetName: "b"}}},
		"b": {Name: "b"},
	}
	if err := ValidateExtensions(decls); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
