package semver

import "testing"

func TestParseValid(t *testing.T) {
	cases := []struct {
		in                 string
		major, minor, patch int
		pre, build         string
	}{
		{"1.2.3", 1, 2, 3, "", ""},
		{"0.0.1", 0, 0, 1, "", ""},
		{"1.2.3-beta.1", 1, 2, 3, "beta.1", ""},
		{"1.2.3+build5", 1, 2, 3, "", "build5"},
		{"1.2.3-rc.1+build5", 1, 2, 3, "rc.1", "build5"},
	}
	for _, c := range cases {
		v, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", c.in, err)
		}
		if v.Major != c.major || v.Minor != c.minor || v.Patch != c.patch {
			t.Errorf("Parse(%q) = %d.%d.%d, want %d.%d.%d", c.in, v.Major, v.Minor, v.Patch, c.major, c.minor, c.patch)
		}
		if v.Prerelease != c.pre {
			t.Errorf("Parse(%q).Prerelease = %q, want %q", c.in, v.Prerelease, c.pre)
		}
		if v.Build != c.build {
			t.Errorf("Parse(%q).Build = %q, want %q", c.in, v.Build, c.build)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "1.2", "1.2.x", "v1.2.3", "1.2.3.4", "-1.2.3"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got none", in)
		}
	}
}

func TestCompareIgnoresBuildMetadata(t *testing.T) {
	a := MustParse("1.2.3+build1")
	b := MustParse("1.2.3+build2")
	if a.Compare(b) != 0 {
		t.Errorf("expected build metadata to be ignored in comparison")
	}
}

func TestCompareOrdering(t *testing.T) {
	if MustParse("1.0.0").Compare(MustParse("2.0.0")) >= 0 {
		t.Errorf("1.0.0 should be less than 2.0.0")
	}
	if MustParse("1.2.3-alpha").Compare(MustParse("1.2.3")) >= 0 {
		t.Errorf("prerelease should sort before release of same triple")
	}
}
