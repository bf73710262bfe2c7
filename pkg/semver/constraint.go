package semver

import (
	"fmt"
	"regexp"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

// Operator is one of the constraint operators fixed by the version grammar.
type Operator string

const (
	OpExact        Operator = "="
	OpGreaterEqual Operator = ">="
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpLess         Operator = "<"
	OpCaret        Operator = "^"
	OpTilde        Operator = "~"
	OpWildcard     Operator = "*"
)

var constraintPattern = regexp.MustCompile(`^(\^|~|>=|<=|=|>|<|\*)?\s*(.*)$`)

// Constraint is an operator paired with a version, e.g. "^1.2.3".
type Constraint struct {
	Operator Operator
	Version  Version
	ranged   *mmsemver.Constraints
}

// String renders the constraint in its external grammar form.
func (c Constraint) String() string {
	if c.Operator == OpWildcard {
		return "*"
	}
	return string(c.Operator) + c.Version.String()
}

// InvalidConstraintError is returned by ParseConstraint for malformed input.
type InvalidConstraintError string

func (e InvalidConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %q", string(e))
}

// ParseConstraint parses a constraint string by matching a leading operator
// (^, ~, >=, <=, =, >, <, *) and defaulting to "=" when none is present. A
// partial version ("1" or "1.2") is read as its zero-padded triple, so "^1"
// means "^1.0.0".
func ParseConstraint(s string) (Constraint, error) {
	trimmed := stripV(s)
	if trimmed == "*" || trimmed == "" {
		rc, err := mmsemver.NewConstraint("*")
		if err != nil {
			return Constraint{}, InvalidConstraintError(s)
		}
		return Constraint{Operator: OpWildcard, ranged: rc}, nil
	}

	m := constraintPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Constraint{}, InvalidConstraintError(s)
	}

	op := Operator(m[1])
	versionPart := m[2]
	if op == "" {
		op = OpExact
	}
	switch strings.Count(versionPart, ".") {
	case 0:
		versionPart += ".0.0"
	case 1:
		versionPart += ".0"
	}

	v, err := Parse(versionPart)
	if err != nil {
		return Constraint{}, InvalidConstraintError(s)
	}

	rangeStr := string(op) + v.String()
	if op == OpExact {
		rangeStr = "=" + v.String()
	}
	rc, err := mmsemver.NewConstraint(rangeStr)
	if err != nil {
		return Constraint{}, InvalidConstraintError(s)
	}

	return Constraint{Operator: op, Version: v, ranged: rc}, nil
}

// MustParseConstraint parses s and panics on failure; reserved for static
// in-code constraint literals.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Satisfies reports whether v satisfies c. Prerelease versions do not
// satisfy ^, ~ or comparison constraints unless the constraint's own version
// is a prerelease of the same major.minor.patch. That rule is checked here;
// the range itself is then delegated to Masterminds/semver.
func Satisfies(c Constraint, v Version) bool {
	if c.Operator == OpWildcard {
		return true
	}
	if v.IsPrerelease() && !(c.Version.IsPrerelease() && c.Version.sameTriple(v)) {
		return false
	}
	return c.ranged.Check(v.raw)
}

// PickHighest returns the maximum version in available that satisfies c, or
// ok=false if none does.
func PickHighest(available []Version, c Constraint) (best Version, ok bool) {
	for _, v := range available {
		if !Satisfies(c, v) {
			continue
		}
		if !ok || v.Compare(best) > 0 {
			best = v
			ok = true
		}
	}
	return best, ok
}
