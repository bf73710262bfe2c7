// Package plugin implements the plugin entity (C7) and extension engine
// (C8): a plugin's identity, its strict lifecycle state machine, the
// dependency/condition/extension declarations a plugin carries, the
// fluent builder used to declare one, and the shallow-merge extension
// application that augments another plugin's published API.
//
// A plugin is declared with the fluent builder:
//
//	decl, err := plugin.New("logger", "1.0.0").
//		Setup(func(ctx plugin.DependencyContext) (any, error) {
//			return map[string]any{"log": log}, nil
//		}).
//		Build()
//
// The kernel package drives a Declaration's lifecycle through Entity:
// Initialize constructs the published API from setup(), DestroyEntity tears
// it down, and SetExtendedAPI installs the result of an extension's
// shallow merge. None of that orchestration lives here — this package only
// defines the entity and its rules.
package plugin
