package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kernelkit/kernel/pkg/kernel"
	"github.com/kernelkit/kernel/pkg/plugin"
	"github.com/kernelkit/kernel/pkg/resolve"
)

// Manifest is the declarative, YAML-encoded description of a plugin set
// that kernelctl resolves without running any plugin's setup.
type Manifest struct {
	Strict                    *bool             `yaml:"strict"`
	AllowCircularDependencies bool              `yaml:"allowCircularDependencies"`
	Conditions                map[string]string `yaml:"conditions"`
	Plugins                   []ManifestPlugin  `yaml:"plugins"`
}

// ManifestPlugin is one plugin entry in a Manifest.
type ManifestPlugin struct {
	Name     string               `yaml:"name"`
	Version  string               `yaml:"version"`
	Priority int                  `yaml:"priority"`
	Before   []string             `yaml:"before"`
	After    []string             `yaml:"after"`
	Depends  []ManifestDependency `yaml:"depends"`
	Extends  []string             `yaml:"extends"`
}

// ManifestDependency is one declared dependency edge in a ManifestPlugin.
type ManifestDependency struct {
	Target     string `yaml:"target"`
	Constraint string `yaml:"constraint"`
	Optional   bool   `yaml:"optional"`
}

// loadManifest reads and parses a plugin manifest from path.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// build turns the manifest into a kernel builder, wiring every declared
// plugin, dependency and extension. Every plugin gets a no-op setup: this
// command resolves and reports, it never starts a kernel.
func (m *Manifest) build() (*kernel.Builder, error) {
	b := kernel.New().
		WithCircularDependencies(m.AllowCircularDependencies).
		WithConditions(m.Conditions)
	if m.Strict != nil {
		b = b.WithStrictVersioning(*m.Strict)
	}

	for _, mp := range m.Plugins {
		pb := plugin.New(mp.Name, mp.Version).Setup(noopSetup)
		for _, d := range mp.Depends {
			opts := []plugin.DependencyOption{plugin.WithConstraint(d.Constraint)}
			if d.Optional {
				opts = append(opts, plugin.Optional())
			}
			pb = pb.Depends(d.Target, opts...)
		}
		for _, target := range mp.Extends {
			pb = pb.Extend(target, noopExtend)
		}
		decl, err := pb.Build()
		if err != nil {
			return nil, fmt.Errorf("plugin %q: %w", mp.Name, err)
		}
		b = b.Use(decl, resolve.Hint{Priority: mp.Priority, Before: mp.Before, After: mp.After})
	}
	return b, nil
}

func noopSetup(ctx plugin.DependencyContext) (any, error) { return map[string]any{}, nil }

func noopExtend(targetAPI any) any { return map[string]any{} }
