// Package semver implements the version algebra the kernel resolver runs on:
// parsing plugin versions and constraint strings, checking satisfaction, and
// picking the highest version in a set that satisfies a constraint.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-.]+))?(?:\+([0-9A-Za-z-.]+))?$`)

// Version is a parsed major.minor.patch triple with optional prerelease and
// build metadata. Equality ignores build metadata; ordering is standard semver.
type Version struct {
	Major, Minor, Patch int
	Prerelease          string
	Build               string
	raw                 *mmsemver.Version
}

// String renders the version in canonical major.minor.patch[-pre][+build] form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// IsPrerelease reports whether this version carries a prerelease tag.
func (v Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

// sameTriple reports whether two versions share major.minor.patch.
func (v Version) sameTriple(o Version) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than o,
// ignoring build metadata.
func (v Version) Compare(o Version) int {
	return v.raw.Compare(o.raw)
}

// Parse parses a version string matching
// ^(\d+)\.(\d+)\.(\d+)(?:-PRE)?(?:+BUILD)?$.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil {
		return Version{}, InvalidVersionError(s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	raw, err := mmsemver.NewVersion(s)
	if err != nil {
		return Version{}, InvalidVersionError(s)
	}
	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[4],
		Build:      m[5],
		raw:        raw,
	}, nil
}

// MustParse parses s and panics on failure; reserved for static
// in-code version literals, never for external input.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// InvalidVersionError is returned by Parse for malformed version strings.
type InvalidVersionError string

func (e InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: must match major.minor.patch[-prerelease][+build]", string(e))
}

// stripV removes a leading "v" some constraint authors add out of habit.
func stripV(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "v")
}
