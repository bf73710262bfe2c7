package plugin

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/kernelkit/kernel/pkg/kernelerr"
	"github.com/kernelkit/kernel/pkg/semver"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Builder is the fluent plugin declaration surface:
// plugin(name, version).setup(fn).depends(...).extend(...).destroy(fn).build().
type Builder struct {
	name    string
	version string
	setup   SetupFunc
	destroy DestroyFunc
	deps    []Dependency
	exts    []Extension
}

// New starts declaring a plugin named name at the given version string.
func New(name, version string) *Builder {
	return &Builder{name: name, version: version}
}

// Setup registers the plugin's setup function. Required by Build.
func (b *Builder) Setup(fn SetupFunc) *Builder {
	b.setup = fn
	return b
}

// Destroy registers an optional teardown function.
func (b *Builder) Destroy(fn DestroyFunc) *Builder {
	b.destroy = fn
	return b
}

// DependencyOption configures a single Depends call.
type DependencyOption func(*Dependency)

// WithConstraint sets the version constraint string for a dependency,
// defaulting to "*" (any) when omitted.
func WithConstraint(constraint string) DependencyOption {
	return func(d *Dependency) { d.rawConstraint = constraint }
}

// Optional marks a dependency as optional: an unresolved optional
// dependency downgrades to a warning instead of a fatal conflict.
func Optional() DependencyOption {
	return func(d *Dependency) { d.Optional = true }
}

// When attaches a resolve-time condition to the dependency.
func When(c Condition) DependencyOption {
	return func(d *Dependency) { d.Conditions = append(d.Conditions, c) }
}

// Depends declares a dependency on target, repeatable across calls.
func (b *Builder) Depends(target string, opts ...DependencyOption) *Builder {
	d := Dependency{Target: target, rawConstraint: "*"}
	for _, opt := range opts {
		opt(&d)
	}
	b.deps = append(b.deps, d)
	return b
}

// Extend declares that this plugin augments target's API once target and
// this plugin have both initialized, repeatable across calls.
func (b *Builder) Extend(target string, fn ExtensionFunc) *Builder {
	b.exts = append(b.exts, Extension{TargetName: target, Callback: fn})
	return b
}

// Build validates the declaration's shape (name format, version syntax,
// constraint syntax, setup presence) and returns the resulting Declaration.
func (b *Builder) Build() (Declaration, error) {
	if !namePattern.MatchString(b.name) {
		return Declaration{}, kernelerr.NewInvalidPluginName(b.name)
	}
	v, err := semver.Parse(b.version)
	if err != nil {
		return Declaration{}, kernelerr.NewInvalidVersion(b.version, err)
	}
	if b.setup == nil {
		return Declaration{}, &kernelerr.Error{Kind: kernelerr.PluginSetupFailed, Message: "plugin \"" + b.name + "\" declares no setup function", Plugin: b.name}
	}

	deps := make([]Dependency, 0, len(b.deps))
	for _, d := range b.deps {
		raw := d.rawConstraint
		if raw == "" {
			raw = "*"
		}
		c, err := semver.ParseConstraint(raw)
		if err != nil {
			return Declaration{}, kernelerr.NewInvalidConstraint(raw, err)
		}
		d.Constraint = c
		d.rawConstraint = ""
		deps = append(deps, d)
	}

	return Declaration{
		ID:           uuid.New().String(),
		Name:         b.name,
		Version:      v,
		Dependencies: deps,
		Extensions:   append([]Extension{}, b.exts...),
		Setup:        b.setup,
		Destroy:      b.destroy,
	}, nil
}
