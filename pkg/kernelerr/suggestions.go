package kernelerr

import "fmt"

// Suggestions returns human-readable remediation hints for e. It is a pure
// function of the error's Kind and fields — never a method a subclass could
// override — matching the tagged-variant error model the kernel uses
// instead of a class hierarchy with per-type recovery methods.
func Suggestions(e *Error) []string {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case InvalidPluginName:
		return []string{"plugin names must be lowercase and match ^[a-z][a-z0-9-]*$"}
	case InvalidVersion:
		return []string{"versions must be major.minor.patch with optional -prerelease and +build"}
	case InvalidConstraint:
		return []string{"constraints must start with one of =, >=, >, <=, <, ^, ~, * followed by a version"}
	case DuplicatePlugin:
		return []string{fmt.Sprintf("remove the duplicate use(%q, ...) call", e.Target)}
	case MissingDependency:
		return []string{
			fmt.Sprintf("register a plugin named %q before building the kernel", e.Target),
			fmt.Sprintf("or mark the dependency from %s as optional", joinOr(e.RequiredBy)),
		}
	case CircularDependency:
		return []string{
			"break the cycle by removing one of the depends() declarations along it",
			"or enable allowCircularDependencies if every edge on the cycle is optional",
		}
	case VersionConflict:
		return []string{
			fmt.Sprintf("align the version constraints on %q required by %s", e.Target, joinOr(e.RequiredBy)),
			"or set strategy to permissive to downgrade the conflict to a warning",
		}
	case ConditionUnmet:
		return []string{fmt.Sprintf("supply a resolve context value satisfying the condition on %q", e.Target)}
	case PluginSetupFailed:
		return []string{fmt.Sprintf("check plugin %q's setup function for the underlying cause", e.Plugin)}
	case PluginDestroyFailed:
		return []string{fmt.Sprintf("check plugin %q's destroy function for the underlying cause", e.Plugin)}
	case PluginTimeout:
		return []string{"raise maxInitializationTime or make the plugin's setup/destroy faster"}
	case InvalidExtensionTarget:
		return []string{fmt.Sprintf("ensure %q is registered and loaded before the extending plugin", e.Target)}
	case SelfExtension:
		return []string{"remove the extend() call targeting the plugin's own name"}
	case ExtensionFailed:
		return []string{fmt.Sprintf("check the extend() callback from %q onto %q", e.From, e.To)}
	case KernelNotInitialized:
		return []string{"call init() (or start()) before using get()/has()/plugins"}
	case KernelAlreadyInitialized:
		return []string{"build a new kernel instead of calling init() twice"}
	case IllegalStateTransition:
		return []string{fmt.Sprintf("plugin %q is in state %s; the kernel never issues %s from there", e.Plugin, e.From, e.To)}
	default:
		return nil
	}
}

func joinOr(names []string) string {
	if len(names) == 0 {
		return "its dependents"
	}
	if len(names) == 1 {
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}
