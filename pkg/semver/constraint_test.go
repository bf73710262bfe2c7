package semver

import "testing"

func TestParseConstraintOperators(t *testing.T) {
	cases := map[string]Operator{
		"1.2.3":  OpExact,
		"=1.2.3": OpExact,
		">=1.2.3": OpGreaterEqual,
		">1.2.3":  OpGreater,
		"<=1.2.3": OpLessEqual,
		"<1.2.3":  OpLess,
		"^1.2.3":  OpCaret,
		"~1.2.3":  OpTilde,
		"*":       OpWildcard,
		"":        OpWildcard,
	}
	for in, want := range cases {
		c, err := ParseConstraint(in)
		if err != nil {
			t.Fatalf("ParseConstraint(%q) unexpected error: %v", in, err)
		}
		if c.Operator != want {
			t.Errorf("ParseConstraint(%q).Operator = %q, want %q", in, c.Operator, want)
		}
	}
}

func TestParseConstraintInvalid(t *testing.T) {
	for _, in := range []string{"^", "~x", ">=", "?1.2.3"} {
		if _, err := ParseConstraint(in); err == nil {
			t.Errorf("ParseConstraint(%q) expected error", in)
		}
	}
}

func TestSatisfiesCaret(t *testing.T) {
	c := MustParseConstraint("^1.2.3")
	mustSatisfy(t, c, "1.2.3", true)
	mustSatisfy(t, c, "1.9.0", true)
	mustSatisfy(t, c, "2.0.0", false)
	mustSatisfy(t, c, "1.2.2", false)
}

func TestSatisfiesCaretZeroMajorLocksMinor(t *testing.T) {
	c := MustParseConstraint("^0.2.3")
	mustSatisfy(t, c, "0.2.3", true)
	mustSatisfy(t, c, "0.2.9", true)
	mustSatisfy(t, c, "0.3.0", false)
}

func TestSatisfiesTilde(t *testing.T) {
	c := MustParseConstraint("~1.2.3")
	mustSatisfy(t, c, "1.2.3", true)
	mustSatisfy(t, c, "1.2.9", true)
	mustSatisfy(t, c, "1.3.0", false)
}

func TestSatisfiesComparisons(t *testing.T) {
	mustSatisfy(t, MustParseConstraint(">=1.0.0"), "1.0.0", true)
	mustSatisfy(t, MustParseConstraint(">1.0.0"), "1.0.0", false)
	mustSatisfy(t, MustParseConstraint("<=1.0.0"), "1.0.1", false)
	mustSatisfy(t, MustParseConstraint("<1.0.0"), "0.9.9", true)
}

func TestSatisfiesWildcard(t *testing.T) {
	c := MustParseConstraint("*")
	mustSatisfy(t, c, "0.0.1", true)
	mustSatisfy(t, c, "9.9.9-alpha", true)
}

func TestSatisfiesPrereleaseRule(t *testing.T) {
	c := MustParseConstraint("^1.2.3")
	mustSatisfy(t, c, "1.2.4-beta.1", false)

	preConstraint := MustParseConstraint("^1.2.3-beta.0")
	mustSatisfy(t, preConstraint, "1.2.3-beta.1", true)
	mustSatisfy(t, preConstraint, "1.3.0-beta.1", false)
}

func TestPickHighest(t *testing.T) {
	available := []Version{MustParse("1.0.0"), MustParse("1.4.0"), MustParse("2.0.0")}
	c := MustParseConstraint("^1.0.0")
	best, ok := PickHighest(available, c)
	if !ok || best.String() != "1.4.0" {
		t.Fatalf("PickHighest = %v, %v, want 1.4.0, true", best, ok)
	}

	none, ok := PickHighest(available, MustParseConstraint("^3.0.0"))
	if ok {
		t.Fatalf("PickHighest expected no match, got %v", none)
	}
}

func mustSatisfy(t *testing.T, c Constraint, version string, want bool) {
	t.Helper()
	v, err := Parse(version)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", version, err)
	}
	if got := Satisfies(c, v); got != want {
		t.Errorf("Satisfies(%s, %s) = %v, want %v", c, version, got, want)
	}
}
