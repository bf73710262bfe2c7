package plugin

import (
	"context"
	"time"

	"github.com/kernelkit/kernel/pkg/kernelerr"
)

// DefaultExtensionTimeout is the per-callback deadline used when none is
// configured.
const DefaultExtensionTimeout = 5 * time.Second

// ValidateExtensions rejects self-extension and cyclic extension chains at
// build time, before any plugin has initialized. declarations is keyed by
// plugin name. A direct extend() of a plugin's own name is reported via
// NewSelfExtension; a cycle spanning two or more distinct plugins (a
// extends b, b extends a) is reported via NewExtensionCycle, which carries
// the full path instead of SelfExtension's single-plugin message.
func ValidateExtensions(declarations map[string]Declaration) error {
	extendsGraph := make(map[string]map[string]bool, len(declarations))
	for name, decl := range declarations {
		for _, ext := range decl.Extensions {
			if ext.TargetName == name {
				return kernelerr.NewSelfExtension(name)
			}
			if extendsGraph[name] == nil {
				extendsGraph[name] = make(map[string]bool)
			}
			extendsGraph[name][ext.TargetName] = true
		}
	}

	var visit func(start, cur string, visited map[string]bool) []string
	visit = func(start, cur string, visited map[string]bool) []string {
		if visited[cur] {
			if cur == start {
				return []string{cur}
			}
			return nil
		}
		visited[cur] = true
		for next := range extendsGraph[cur] {
			if next == start {
				return []string{cur, next}
			}
			if path := visit(start, next, visited); path != nil {
				return append([]string{cur}, path...)
			}
		}
		return nil
	}

	for name := range extendsGraph {
		// path is already a closed walk (e.g. ["a", "b", "a"]) for any
		// genuine multi-plugin cycle; a single-element result here would
		// mean cur == start on the very first visited check, which can't
		// happen since visited starts empty.
		if path := visit(name, name, map[string]bool{}); path != nil {
			return kernelerr.NewExtensionCycle(path)
		}
	}
	return nil
}

// ApplyExtension runs ext.Callback against target's current API and
// shallow-merges the result over it: keys on target are overwritten by
// keys the callback returns, keys unique to target are preserved. The
// callback is bounded by timeout and its result installed on target via
// SetExtendedAPI.
func ApplyExtension(parent context.Context, from string, ext Extension, target *Entity, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultExtensionTimeout
	}

	api, ok := target.API()
	if !ok {
		return kernelerr.NewInvalidExtensionTarget(ext.TargetName)
	}

	runCtx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	type result struct {
		partial any
	}
	done := make(chan result, 1)
	errs := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errs <- panicToError(r)
			}
		}()
		done <- result{partial: ext.Callback(api)}
	}()

	select {
	case r := <-done:
		merged := shallowMergeOverwrite(api, r.partial)
		if err := target.SetExtendedAPI(merged); err != nil {
			return kernelerr.NewExtensionFailed(from, ext.TargetName, err)
		}
		return nil
	case err := <-errs:
		return kernelerr.NewExtensionFailed(from, ext.TargetName, err)
	case <-runCtx.Done():
		return kernelerr.NewExtensionFailed(from, ext.TargetName, runCtx.Err())
	}
}

// shallowMergeOverwrite merges partial over base when both are
// map[string]any, with partial's keys winning; non-map APIs are replaced
// wholesale by a non-nil partial.
func shallowMergeOverwrite(base, partial any) any {
	baseMap, baseIsMap := base.(map[string]any)
	partialMap, partialIsMap := partial.(map[string]any)

	if !baseIsMap || !partialIsMap {
		if partial == nil {
			return base
		}
		return partial
	}

	merged := make(map[string]any, len(baseMap)+len(partialMap))
	for k, v := range baseMap {
		merged[k] = v
	}
	for k, v := range partialMap {
		merged[k] = v
	}
	return merged
}
