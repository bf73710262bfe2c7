package kernel

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/kernelkit/kernel/pkg/kernelerr"
	"github.com/kernelkit/kernel/pkg/plugin"
	"github.com/kernelkit/kernel/pkg/resolve"
)

// kernelStatus tracks the kernel's own lifecycle, separate from each
// plugin's Entity state.
type kernelStatus int

const (
	statusBuilt kernelStatus = iota
	statusInitializing
	statusRunning
	statusDestroying
	statusDestroyed
)

// BuiltKernel is a resolved, not-yet-started kernel: dependency order is
// fixed, but no plugin's setup() has run yet.
type BuiltKernel struct {
	config       Config
	declarations map[string]plugin.Declaration
	order        []string
	resolution   *resolve.Result
	entities     map[string]*plugin.Entity
	logger       hclog.Logger

	mu     sync.Mutex
	status kernelStatus
}

// Order returns the dependency-resolved plugin load order.
func (k *BuiltKernel) Order() []string { return append([]string{}, k.order...) }

// Warnings returns the non-fatal diagnostics the resolver accumulated.
func (k *BuiltKernel) Warnings() []string { return append([]string{}, k.resolution.Warnings...) }

// Resolution returns the resolver facade's full report for this build,
// suitable for rendering via NewReport.
func (k *BuiltKernel) Resolution() *resolve.Result { return k.resolution }

// Start runs init(): the resolved order's setup() calls plus extension
// application, in sequence. Start is idempotent only in the sense that
// calling it twice on an already-running kernel returns
// KernelAlreadyInitialized; it never re-runs setup() for an initialized
// plugin.
func (k *BuiltKernel) Start(ctx context.Context) error {
	k.mu.Lock()
	if k.status != statusBuilt {
		k.mu.Unlock()
		return kernelerr.NewKernelAlreadyInitialized()
	}
	k.status = statusInitializing
	k.mu.Unlock()

	for _, name := range k.order {
		entity := k.entities[name]
		decl := k.declarations[name]

		depCtx := plugin.DependencyContext{
			Plugins: make(map[string]any, len(decl.Dependencies)),
			Kernel:  (*kernelView)(k),
			Logger:  k.logger.Named(name),
		}
		for _, dep := range decl.Dependencies {
			depEntity, ok := k.entities[dep.Target]
			if !ok {
				continue
			}
			if api, ready := depEntity.API(); ready {
				depCtx.Plugins[dep.Target] = api
			}
		}

		k.logger.Debug("initializing plugin", "name", name)
		if err := entity.Initialize(ctx, depCtx, k.config.InitializationTimeout); err != nil {
			k.logger.Error("plugin initialization failed", "name", name, "error", err)
			k.rollbackFailedStart(ctx)
			return err
		}

		if err := k.applyExtensionsFrom(ctx, name); err != nil {
			k.logger.Error("extension application failed", "from", name, "error", err)
			k.rollbackFailedStart(ctx)
			return err
		}
	}

	k.mu.Lock()
	k.status = statusRunning
	k.mu.Unlock()

	if k.config.AutoGlobal {
		setGlobal(k)
	}

	k.logger.Info("kernel initialized", "plugins", len(k.order))
	return nil
}

// applyExtensionsFrom runs every extension declared by name, in declaration
// order, onto its target, after name has initialized. A target that is not
// registered or not yet initialized fails with InvalidExtensionTarget.
func (k *BuiltKernel) applyExtensionsFrom(ctx context.Context, name string) error {
	for _, ext := range k.declarations[name].Extensions {
		if !k.config.EnableExtensions {
			k.logger.Warn("extensions disabled, skipping", "from", name, "target", ext.TargetName)
			continue
		}
		target, ok := k.entities[ext.TargetName]
		if !ok {
			return kernelerr.NewInvalidExtensionTarget(ext.TargetName)
		}
		if err := plugin.ApplyExtension(ctx, name, ext, target, k.config.ExtensionTimeout); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the published API of an initialized plugin.
func (k *BuiltKernel) Get(name string) (any, bool) {
	entity, ok := k.entities[name]
	if !ok {
		return nil, false
	}
	return entity.API()
}

// Has reports whether name was registered with this kernel, regardless of
// its current lifecycle state.
func (k *BuiltKernel) Has(name string) bool {
	_, ok := k.entities[name]
	return ok
}

// Plugins lists every registered plugin name in resolved load order.
func (k *BuiltKernel) Plugins() []string { return k.Order() }

// Metadata describes a single registered plugin's static identity.
type Metadata struct {
	Name       string
	Version    string
	State      plugin.State
	Dependents []string
}

// GetMetadata reports a plugin's identity and current lifecycle state.
func (k *BuiltKernel) GetMetadata(name string) (Metadata, bool) {
	entity, ok := k.entities[name]
	if !ok {
		return Metadata{}, false
	}
	decl := k.declarations[name]
	return Metadata{
		Name:    decl.Name,
		Version: decl.Version.String(),
		State:   entity.State(),
	}, true
}

// Destroy tears the kernel down in reverse initialization order, honoring
// each plugin's InitializationTimeout on destroy() too. Destroy attempts
// every plugin's teardown even if an earlier one fails, and returns the
// first error encountered.
func (k *BuiltKernel) Destroy(ctx context.Context) error {
	k.mu.Lock()
	if k.status != statusRunning {
		k.mu.Unlock()
		return kernelerr.NewKernelNotInitialized()
	}
	k.status = statusDestroying
	k.mu.Unlock()

	firstErr := k.reverseDestroyInitialized(ctx, "plugin destroy failed")

	k.mu.Lock()
	k.status = statusDestroyed
	k.mu.Unlock()

	if k.config.AutoGlobal {
		clearGlobal(k)
	}

	return firstErr
}

// reverseDestroyInitialized walks k.order back to front, destroying every
// plugin currently in StateInitialized and continuing regardless of
// individual failures; it returns the first error encountered, if any.
func (k *BuiltKernel) reverseDestroyInitialized(ctx context.Context, failureLogMsg string) error {
	var firstErr error
	for i := len(k.order) - 1; i >= 0; i-- {
		name := k.order[i]
		entity := k.entities[name]
		if entity.State() != plugin.StateInitialized {
			continue
		}
		k.logger.Debug("destroying plugin", "name", name)
		if err := entity.DestroyEntity(ctx, k.config.InitializationTimeout); err != nil {
			k.logger.Error(failureLogMsg, "name", name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// rollbackFailedStart best-effort destroys every plugin that did
// initialize before a later plugin's setup or extension application
// failed, honoring the same per-plugin deadline as a normal Destroy, then
// leaves the kernel in statusDestroyed: a kernel that failed init has
// nothing left running to retry or tear down again.
func (k *BuiltKernel) rollbackFailedStart(ctx context.Context) {
	k.reverseDestroyInitialized(ctx, "plugin destroy failed during init rollback")
	k.mu.Lock()
	k.status = statusDestroyed
	k.mu.Unlock()
}

// kernelView adapts *BuiltKernel to plugin.KernelView for injection into
// dependency contexts, without exposing the full BuiltKernel surface to
// setup functions.
type kernelView BuiltKernel

func (v *kernelView) Get(name string) (any, bool) {
	return (*BuiltKernel)(v).Get(name)
}
