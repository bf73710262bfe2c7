// Package kernel implements the kernel builder (C9) and built kernel (C10):
// the orchestration layer that turns a set of plugin declarations into a
// running, dependency-ordered application.
package kernel

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/kernelkit/kernel/pkg/kernelerr"
	"github.com/kernelkit/kernel/pkg/plugin"
	"github.com/kernelkit/kernel/pkg/resolve"
)

// DefaultInitializationTimeout bounds a single plugin's setup()/destroy()
// call when the builder doesn't override it.
const DefaultInitializationTimeout = 30 * time.Second

// Config is the builder's assembled configuration.
type Config struct {
	StrictVersioning          bool
	AllowCircularDependencies bool
	EnableExtensions          bool
	InitializationTimeout     time.Duration
	ExtensionTimeout          time.Duration
	LogLevel                  hclog.Level
	AutoGlobal                bool
	Strategy                  resolve.Strategy
	Conditions                map[string]string

	// MaxPlugins caps the number of plugins a single build may register.
	// Zero means unlimited.
	MaxPlugins int
	// MaxDependencyDepth caps the longest dependency chain a build may
	// contain. Zero means unlimited.
	MaxDependencyDepth int
}

// DefaultConfig returns the builder's baseline configuration, matching the
// baseline defaults for withConfig: strictVersioning: true,
// allowCircularDependencies: false, enableExtensions: true,
// maxInitializationTime: 30000, logLevel: info.
func DefaultConfig() Config {
	return Config{
		StrictVersioning:          true,
		AllowCircularDependencies: false,
		EnableExtensions:          true,
		InitializationTimeout:     DefaultInitializationTimeout,
		ExtensionTimeout:          plugin.DefaultExtensionTimeout,
		LogLevel:                  hclog.Info,
		AutoGlobal:                false,
		Strategy:                  resolve.Strict,
		Conditions:                map[string]string{},
	}
}

// ProductionConfig presets a kernel for production: strict versioning,
// conservative timeouts, warn-level logging.
func ProductionConfig() Config {
	c := DefaultConfig()
	c.LogLevel = hclog.Warn
	return c
}

// DevelopmentConfig presets a kernel for local development: permissive
// conflict handling and verbose debug logging, so a broken plugin set warns
// instead of refusing to start.
func DevelopmentConfig() Config {
	c := DefaultConfig()
	c.StrictVersioning = false
	c.Strategy = resolve.Permissive
	c.LogLevel = hclog.Debug
	return c
}

// TestConfig presets a kernel for automated tests: short timeouts so a
// hung setup()/destroy() fails fast, and error-level logging to keep test
// output quiet.
func TestConfig() Config {
	c := DefaultConfig()
	c.InitializationTimeout = 2 * time.Second
	c.ExtensionTimeout = 1 * time.Second
	c.LogLevel = hclog.Error
	return c
}

// Builder accumulates plugin declarations and configuration, then produces
// a BuiltKernel via Build.
type Builder struct {
	config     Config
	hints      map[string]resolve.Hint
	decls      map[string]plugin.Declaration
	order      []string // insertion order, for stable duplicate-detection errors
	err        error
	logger     hclog.Logger
}

// New starts a kernel builder with DefaultConfig, the createKernel() entry
// point.
func New() *Builder {
	return newWithConfig(DefaultConfig())
}

// NewProduction starts a builder preset with ProductionConfig, the
// createProductionKernel() entry point.
func NewProduction() *Builder {
	return newWithConfig(ProductionConfig())
}

// NewDevelopment starts a builder preset with DevelopmentConfig, the
// createDevelopmentKernel() entry point.
func NewDevelopment() *Builder {
	return newWithConfig(DevelopmentConfig())
}

// NewTest starts a builder preset with TestConfig, the createTestKernel()
// entry point.
func NewTest() *Builder {
	return newWithConfig(TestConfig())
}

func newWithConfig(cfg Config) *Builder {
	return &Builder{
		config: cfg,
		hints:  make(map[string]resolve.Hint),
		decls:  make(map[string]plugin.Declaration),
	}
}

// Use registers a single plugin built by b.
func (b *Builder) Use(decl plugin.Declaration, hint ...resolve.Hint) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.decls[decl.Name]; exists {
		b.err = kernelerr.NewDuplicatePlugin(decl.Name)
		return b
	}
	b.decls[decl.Name] = decl
	b.order = append(b.order, decl.Name)
	if len(hint) > 0 {
		b.hints[decl.Name] = hint[0]
	} else {
		b.hints[decl.Name] = resolve.Hint{}
	}
	return b
}

// UsePlugins registers several plugins at once, in slice order.
func (b *Builder) UsePlugins(decls ...plugin.Declaration) *Builder {
	for _, d := range decls {
		b.Use(d)
	}
	return b
}

// WithStrictVersioning toggles the resolver strategy between strict and
// permissive handling of version/missing/load-order conflicts.
func (b *Builder) WithStrictVersioning(strict bool) *Builder {
	b.config.StrictVersioning = strict
	if strict {
		b.config.Strategy = resolve.Strict
	} else {
		b.config.Strategy = resolve.Permissive
	}
	return b
}

// WithStrategy sets the resolver strategy directly, overriding
// WithStrictVersioning's implied strict/permissive choice.
func (b *Builder) WithStrategy(strategy resolve.Strategy) *Builder {
	b.config.Strategy = strategy
	return b
}

// WithCircularDependencies permits cycles through optional-only edges rather
// than treating every detected cycle as fatal.
func (b *Builder) WithCircularDependencies(allow bool) *Builder {
	b.config.AllowCircularDependencies = allow
	return b
}

// WithInitializationTimeout sets the per-plugin setup()/destroy() deadline.
func (b *Builder) WithInitializationTimeout(d time.Duration) *Builder {
	b.config.InitializationTimeout = d
	return b
}

// WithExtensionTimeout sets the per-extension-callback deadline.
func (b *Builder) WithExtensionTimeout(d time.Duration) *Builder {
	b.config.ExtensionTimeout = d
	return b
}

// WithLogLevel sets the kernel logger's minimum level.
func (b *Builder) WithLogLevel(level hclog.Level) *Builder {
	b.config.LogLevel = level
	return b
}

// WithAutoGlobal installs the kernel into the package-level global slot
// (see global.go) once Start succeeds; Destroy removes it again.
func (b *Builder) WithAutoGlobal(auto bool) *Builder {
	b.config.AutoGlobal = auto
	return b
}

// WithConditions sets the resolve-time condition evaluation context.
func (b *Builder) WithConditions(ctx map[string]string) *Builder {
	b.config.Conditions = ctx
	return b
}

// WithExtensions toggles extension application. When disabled, every
// declared extension is skipped with a warning instead of being applied,
// per the builder's enableExtensions option.
func (b *Builder) WithExtensions(enabled bool) *Builder {
	b.config.EnableExtensions = enabled
	return b
}

// WithMaxPlugins caps the number of plugins a build may register; zero
// means unlimited. Build fails once the cap is exceeded.
func (b *Builder) WithMaxPlugins(max int) *Builder {
	b.config.MaxPlugins = max
	return b
}

// WithMaxDependencyDepth caps the longest dependency chain a build may
// contain; zero means unlimited. Build fails once the cap is exceeded.
func (b *Builder) WithMaxDependencyDepth(max int) *Builder {
	b.config.MaxDependencyDepth = max
	return b
}

// ConfigOverride carries the optional fields withConfig(partial) may
// override; a nil field is left at its current value in the builder,
// distinguishing "not set" from "set to the zero value" for booleans.
type ConfigOverride struct {
	StrictVersioning          *bool
	AllowCircularDependencies *bool
	EnableExtensions          *bool
	InitializationTimeout     *time.Duration
	ExtensionTimeout          *time.Duration
	LogLevel                  *hclog.Level
	AutoGlobal                *bool
	Strategy                  *resolve.Strategy
	Conditions                map[string]string
	MaxPlugins                *int
	MaxDependencyDepth        *int
}

// WithConfig merges every set field of partial into the builder's current
// configuration, the builder's withConfig(partial) operation.
func (b *Builder) WithConfig(partial ConfigOverride) *Builder {
	if partial.StrictVersioning != nil {
		b.config.StrictVersioning = *partial.StrictVersioning
	}
	if partial.AllowCircularDependencies != nil {
		b.config.AllowCircularDependencies = *partial.AllowCircularDependencies
	}
	if partial.EnableExtensions != nil {
		b.config.EnableExtensions = *partial.EnableExtensions
	}
	if partial.InitializationTimeout != nil {
		b.config.InitializationTimeout = *partial.InitializationTimeout
	}
	if partial.ExtensionTimeout != nil {
		b.config.ExtensionTimeout = *partial.ExtensionTimeout
	}
	if partial.LogLevel != nil {
		b.config.LogLevel = *partial.LogLevel
	}
	if partial.AutoGlobal != nil {
		b.config.AutoGlobal = *partial.AutoGlobal
	}
	if partial.Strategy != nil {
		b.config.Strategy = *partial.Strategy
	}
	if partial.Conditions != nil {
		b.config.Conditions = partial.Conditions
	}
	if partial.MaxPlugins != nil {
		b.config.MaxPlugins = *partial.MaxPlugins
	}
	if partial.MaxDependencyDepth != nil {
		b.config.MaxDependencyDepth = *partial.MaxDependencyDepth
	}
	return b
}

// WithLogger overrides the default hclog logger the kernel constructs from
// LogLevel.
func (b *Builder) WithLogger(logger hclog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates every registered declaration, runs dependency resolution,
// and returns a BuiltKernel ready for Start. It does not run any plugin's
// setup() — that happens in Start/init().
func (b *Builder) Build() (*BuiltKernel, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := plugin.ValidateExtensions(b.decls); err != nil {
		return nil, err
	}

	if b.config.MaxPlugins > 0 && len(b.decls) > b.config.MaxPlugins {
		return nil, &kernelerr.Error{
			Kind:    kernelerr.IllegalStateTransition,
			Message: "plugin count exceeds maxPlugins",
		}
	}

	if b.config.MaxDependencyDepth > 0 {
		if depth, name := maxDependencyDepth(b.decls); depth > b.config.MaxDependencyDepth {
			return nil, &kernelerr.Error{
				Kind:    kernelerr.IllegalStateTransition,
				Message: "dependency chain through " + name + " exceeds maxDependencyDepth",
				Plugin:  name,
			}
		}
	}

	result, err := b.Resolve()
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.New(&hclog.LoggerOptions{Name: "kernel", Level: b.config.LogLevel})
	}

	k := &BuiltKernel{
		config:       b.config,
		declarations: b.decls,
		order:        result.Order,
		resolution:   result,
		entities:     make(map[string]*plugin.Entity, len(b.decls)),
		logger:       logger,
	}
	for name, decl := range b.decls {
		k.entities[name] = plugin.NewEntity(decl)
	}

	return k, nil
}

// Resolve runs the dependency-resolution pipeline over b's registered
// declarations and returns the raw result, independent of Build. Unlike
// Build, the returned *resolve.Result is never nil on a fatal conflict —
// it carries whatever Order/Conflicts the pipeline produced before
// failing, which is what a report renderer needs to show a caller what
// went wrong.
func (b *Builder) Resolve() (*resolve.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	inputs := make(map[string]resolve.Input, len(b.decls))
	for name, decl := range b.decls {
		inputs[name] = resolve.Input{
			Name:         name,
			Version:      decl.Version,
			Dependencies: decl.Dependencies,
			Hint:         b.hints[name],
		}
	}
	return resolve.Resolve(inputs, b.config.Strategy, b.config.AllowCircularDependencies, b.config.Conditions)
}

// Start builds b and immediately runs init() on the result, equivalent to
// the builder's start() = build().init().
func (b *Builder) Start(ctx context.Context) (*BuiltKernel, error) {
	k, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := k.Start(ctx); err != nil {
		return nil, err
	}
	return k, nil
}

// maxDependencyDepth returns the longest chain of non-optional dependency
// edges found among decls and the name of a plugin at the deep end of it.
// Cycles are walked defensively (the resolver rejects them separately) by
// tracking the current path and stopping recursion on repeat.
func maxDependencyDepth(decls map[string]plugin.Declaration) (int, string) {
	memo := make(map[string]int, len(decls))
	var depth func(name string, path map[string]bool) int
	depth = func(name string, path map[string]bool) int {
		if d, ok := memo[name]; ok {
			return d
		}
		if path[name] {
			return 0
		}
		decl, ok := decls[name]
		if !ok {
			return 0
		}
		path[name] = true
		best := 0
		for _, dep := range decl.Dependencies {
			if dep.Optional {
				continue
			}
			if d := depth(dep.Target, path); d+1 > best {
				best = d + 1
			}
		}
		delete(path, name)
		memo[name] = best
		return best
	}

	maxDepth, maxName := 0, ""
	for name := range decls {
		if d := depth(name, map[string]bool{}); d > maxDepth {
			maxDepth, maxName = d, name
		}
	}
	return maxDepth, maxName
}
