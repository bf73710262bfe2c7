// Package kernelerr implements the kernel's error taxonomy: a single tagged
// struct carrying a fixed Kind plus the structured fields needed to render
// it, with suggestions produced by a pure function over the Kind rather than
// a virtual method on a class hierarchy of error subtypes.
package kernelerr

// Kind names one of the fixed error variants the kernel can raise.
type Kind string

const (
	InvalidPluginName        Kind = "InvalidPluginName"
	InvalidVersion           Kind = "InvalidVersion"
	InvalidConstraint        Kind = "InvalidConstraint"
	DuplicatePlugin          Kind = "DuplicatePlugin"
	MissingDependency        Kind = "MissingDependency"
	CircularDependency       Kind = "CircularDependency"
	VersionConflict          Kind = "VersionConflict"
	ConditionUnmet           Kind = "ConditionUnmet"
	PluginSetupFailed        Kind = "PluginSetupFailed"
	PluginDestroyFailed      Kind = "PluginDestroyFailed"
	PluginTimeout            Kind = "PluginTimeout"
	InvalidExtensionTarget   Kind = "InvalidExtensionTarget"
	SelfExtension            Kind = "SelfExtension"
	ExtensionFailed          Kind = "ExtensionFailed"
	KernelNotInitialized     Kind = "KernelNotInitialized"
	KernelAlreadyInitialized Kind = "KernelAlreadyInitialized"
	IllegalStateTransition   Kind = "IllegalStateTransition"
)
