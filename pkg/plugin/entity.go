// Package plugin implements the plugin entity and its lifecycle: identity,
// the strict state machine, dependency/condition/extension declarations,
// and the fluent builder used to declare a plugin.
package plugin

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kernelkit/kernel/pkg/kernelerr"
	"github.com/kernelkit/kernel/pkg/semver"
)

// ConditionOp is one of the comparison operators a Condition evaluates with.
type ConditionOp string

const (
	CondEquals    ConditionOp = "="
	CondNotEquals ConditionOp = "!="
	CondExists    ConditionOp = "exists"
	CondNotExists ConditionOp = "not_exists"
)

// Condition gates a Dependency on a name->value context supplied to Resolve.
type Condition struct {
	Type  string
	Key   string
	Value string
	Op    ConditionOp
}

// Evaluate checks the condition against a resolve-time context.
func (c Condition) Evaluate(ctx map[string]string) bool {
	v, exists := ctx[c.Key]
	switch c.Op {
	case CondExists:
		return exists
	case CondNotExists:
		return !exists
	case CondEquals:
		return exists && v == c.Value
	case CondNotEquals:
		return !exists || v != c.Value
	default:
		return false
	}
}

// Dependency is a declared edge from the owning plugin to target, gated by
// a version constraint, optionality, and zero or more conditions.
type Dependency struct {
	Target     string
	Constraint semver.Constraint
	Optional   bool
	Conditions []Condition

	rawConstraint string // set by the builder, consumed by Build
}

// Extension bundles a callback that augments target's published API once
// target has initialized.
type Extension struct {
	TargetName string
	Callback   ExtensionFunc
}

// ExtensionFunc receives the target's current API and returns the partial
// API to shallow-merge over it.
type ExtensionFunc func(targetAPI any) any

// DependencyContext is the record passed to a plugin's setup function. It
// restricts Plugins to the plugin's own declared dependencies (never
// transitive ones); Kernel resolves any already-initialized plugin by name.
// Logger is the kernel's own logger, named after the plugin, so a setup
// function can log without needing its own logging dependency.
type DependencyContext struct {
	Plugins map[string]any
	Kernel  KernelView
	Logger  hclog.Logger
}

// KernelView is the narrow kernel surface a plugin's setup function sees.
type KernelView interface {
	Get(name string) (any, bool)
}

// SetupFunc constructs a plugin's API from its dependency context.
type SetupFunc func(ctx DependencyContext) (any, error)

// DestroyFunc releases a plugin's resources. Optional — a declaration with
// no DestroyFunc is a no-op on destroy.
type DestroyFunc func() error

// Declaration is a plugin's immutable definition: identity plus the setup,
// dependency, extension and destroy behavior fixed at build() time.
type Declaration struct {
	ID      string
	Name    string
	Version semver.Version

	Dependencies []Dependency
	Extensions   []Extension

	Setup   SetupFunc
	Destroy DestroyFunc
}

// Entity is a live plugin instance: its immutable Declaration plus mutable
// state, published API and last lifecycle error.
type Entity struct {
	Declaration Declaration

	tracker   *stateTracker
	api       any
	lastError error
}

// NewEntity wraps a validated declaration as a freshly registered entity.
func NewEntity(decl Declaration) *Entity {
	return &Entity{
		Declaration: decl,
		tracker:     newStateTracker(decl.Name),
	}
}

func (e *Entity) State() State     { return e.tracker.Get() }
func (e *Entity) LastError() error { return e.lastError }

// API returns the plugin's currently published API and whether it has one.
func (e *Entity) API() (any, bool) {
	if e.tracker.Get() != StateInitialized {
		return nil, false
	}
	return e.api, true
}

// Initialize runs setup(ctx), honoring deadline as the per-plugin
// maxInitializationTime. Legal only from StateRegistered; on success the
// entity moves to StateInitialized and stores the returned API. On failure
// or timeout the entity returns to StateRegistered with lastError set.
func (e *Entity) Initialize(parent context.Context, ctx DependencyContext, deadline time.Duration) error {
	if cur := e.tracker.Get(); cur != StateRegistered {
		return kernelerr.NewIllegalStateTransition(e.Declaration.Name, cur.String(), StateInitializing.String())
	}
	if err := e.tracker.Set(StateInitializing); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(parent, deadline)
	defer cancel()

	type result struct {
		api any
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: panicToError(r)}
			}
		}()
		api, err := e.Declaration.Setup(ctx)
		done <- result{api: api, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			e.lastError = r.err
			_ = e.tracker.Set(StateRegistered)
			return kernelerr.NewPluginSetupFailed(e.Declaration.Name, r.err)
		}
		e.api = r.api
		return e.tracker.Set(StateInitialized)

	case <-runCtx.Done():
		e.lastError = runCtx.Err()
		_ = e.tracker.Set(StateRegistered)
		return kernelerr.NewPluginTimeout(e.Declaration.Name, "setup")
	}
}

// DestroyEntity runs destroy(), honoring the same deadline as Initialize.
// Legal only from StateInitialized; on success the entity moves to
// StateDestroyed, on failure it returns to StateInitialized with
// lastError set.
func (e *Entity) DestroyEntity(parent context.Context, deadline time.Duration) error {
	if cur := e.tracker.Get(); cur != StateInitialized {
		return kernelerr.NewIllegalStateTransition(e.Declaration.Name, cur.String(), StateDestroying.String())
	}
	if err := e.tracker.Set(StateDestroying); err != nil {
		return err
	}

	if e.Declaration.Destroy == nil {
		return e.tracker.Set(StateDestroyed)
	}

	runCtx, cancel := context.WithTimeout(parent, deadline)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- panicToError(r)
			}
		}()
		done <- e.Declaration.Destroy()
	}()

	select {
	case err := <-done:
		if err != nil {
			e.lastError = err
			_ = e.tracker.Set(StateInitialized)
			return kernelerr.NewPluginDestroyFailed(e.Declaration.Name, err)
		}
		return e.tracker.Set(StateDestroyed)

	case <-runCtx.Done():
		e.lastError = runCtx.Err()
		_ = e.tracker.Set(StateInitialized)
		return kernelerr.NewPluginTimeout(e.Declaration.Name, "destroy")
	}
}

// SetExtendedAPI installs api as the plugin's published surface. Legal only
// while the entity is initialized.
func (e *Entity) SetExtendedAPI(api any) error {
	if cur := e.tracker.Get(); cur != StateInitialized {
		return kernelerr.NewIllegalStateTransition(e.Declaration.Name, cur.String(), StateInitialized.String())
	}
	e.api = api
	return nil
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicError{value: r}
}

type panicError struct{ value any }

func (p *panicError) Error() string { return "panic during plugin lifecycle callback" }
