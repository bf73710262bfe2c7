package kernelerr

import (
	"fmt"
	"strings"
)

// Error is the kernel's single error value, tagged by Kind. Only the fields
// relevant to a given Kind are populated; callers render a report from Kind
// plus these fields without secondary lookups.
type Error struct {
	Kind       Kind
	Message    string
	Err        error
	Target     string   // MissingDependency, VersionConflict, ConditionUnmet, InvalidExtensionTarget
	RequiredBy []string // MissingDependency, VersionConflict
	Cycle      []string // CircularDependency
	Candidates []string // VersionConflict
	From       string   // IllegalStateTransition (also extension source)
	To         string   // IllegalStateTransition (also extension target)
	Plugin     string   // PluginSetupFailed, PluginDestroyFailed, PluginTimeout, IllegalStateTransition
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is compares by Kind only, so errors.Is matches any instance of a kind
// regardless of its other fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func NewInvalidPluginName(name string) *Error {
	return &Error{Kind: InvalidPluginName, Message: fmt.Sprintf("plugin name %q must match ^[a-z][a-z0-9-]*$", name), Target: name}
}

func NewInvalidVersion(raw string, cause error) *Error {
	return &Error{Kind: InvalidVersion, Message: fmt.Sprintf("invalid version %q", raw), Err: cause, Target: raw}
}

func NewInvalidConstraint(raw string, cause error) *Error {
	return &Error{Kind: InvalidConstraint, Message: fmt.Sprintf("invalid constraint %q", raw), Err: cause, Target: raw}
}

func NewDuplicatePlugin(name string) *Error {
	return &Error{Kind: DuplicatePlugin, Message: fmt.Sprintf("plugin %q already registered", name), Target: name}
}

func NewMissingDependency(target string, requiredBy []string) *Error {
	return &Error{
		Kind:       MissingDependency,
		Message:    fmt.Sprintf("dependency %q is required by %s but not registered", target, strings.Join(requiredBy, ", ")),
		Target:     target,
		RequiredBy: requiredBy,
	}
}

func NewCircularDependency(cycle []string) *Error {
	return &Error{
		Kind:    CircularDependency,
		Message: fmt.Sprintf("circular dependency: %s", strings.Join(cycle, " -> ")),
		Cycle:   cycle,
	}
}

func NewVersionConflict(target string, candidates []string, requiredBy []string) *Error {
	return &Error{
		Kind:       VersionConflict,
		Message:    fmt.Sprintf("no version of %q satisfies constraints from %s", target, strings.Join(requiredBy, ", ")),
		Target:     target,
		Candidates: candidates,
		RequiredBy: requiredBy,
	}
}

func NewConditionUnmet(target, key string) *Error {
	return &Error{Kind: ConditionUnmet, Message: fmt.Sprintf("condition %q unmet for dependency %q", key, target), Target: target}
}

func NewPluginSetupFailed(plugin string, cause error) *Error {
	return &Error{Kind: PluginSetupFailed, Message: fmt.Sprintf("plugin %q setup failed", plugin), Err: cause, Plugin: plugin}
}

func NewPluginDestroyFailed(plugin string, cause error) *Error {
	return &Error{Kind: PluginDestroyFailed, Message: fmt.Sprintf("plugin %q destroy failed", plugin), Err: cause, Plugin: plugin}
}

func NewPluginTimeout(plugin, operation string) *Error {
	return &Error{Kind: PluginTimeout, Message: fmt.Sprintf("plugin %q timed out during %s", plugin, operation), Plugin: plugin}
}

func NewInvalidExtensionTarget(target string) *Error {
	return &Error{Kind: InvalidExtensionTarget, Message: fmt.Sprintf("extension target %q is not initialized", target), Target: target}
}

func NewSelfExtension(name string) *Error {
	return &Error{Kind: SelfExtension, Message: fmt.Sprintf("plugin %q cannot extend itself", name), Target: name}
}

// NewExtensionCycle reports a cyclic chain of extend() declarations across
// two or more distinct plugins (e.g. a extends b, b extends a). It shares
// SelfExtension's Kind — the taxonomy has no dedicated kind for a
// multi-plugin cycle — but carries the cycle path and a message that
// describes a cycle rather than a single plugin extending itself.
func NewExtensionCycle(cycle []string) *Error {
	return &Error{
		Kind:    SelfExtension,
		Message: fmt.Sprintf("extension cycle: %s", strings.Join(cycle, " -> ")),
		Cycle:   cycle,
	}
}

func NewExtensionFailed(from, to string, cause error) *Error {
	return &Error{Kind: ExtensionFailed, Message: fmt.Sprintf("extension from %q onto %q failed", from, to), Err: cause, From: from, To: to}
}

func NewKernelNotInitialized() *Error {
	return &Error{Kind: KernelNotInitialized, Message: "kernel has not completed init()"}
}

func NewKernelAlreadyInitialized() *Error {
	return &Error{Kind: KernelAlreadyInitialized, Message: "kernel has already completed init()"}
}

func NewIllegalStateTransition(plugin, from, to string) *Error {
	return &Error{
		Kind:    IllegalStateTransition,
		Message: fmt.Sprintf("plugin %q cannot transition from %s to %s", plugin, from, to),
		Plugin:  plugin,
		From:    from,
		To:      to,
	}
}

// Is reports whether err is a *Error of the given kind, mirroring the
// package-level errors.Is(err, errType) convenience.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.Kind == kind
}
