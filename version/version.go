// Package version implements the DOL Version literal: major.minor.patch
// with an optional suffix, ordered lexicographically by tuple then suffix
// (spec.md 3). The numeric-tuple half of the ordering is delegated to
// golang.org/x/mod/semver -- the same dependency the teacher repo already
// carries -- by canonicalizing to the "vMAJOR.MINOR.PATCH" form that
// package expects; the optional DOL suffix (which does not follow Go's
// prerelease/build-metadata grammar) is compared separately.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is major.minor.patch plus an optional free-form suffix.
type Version struct {
	Major, Minor, Patch uint64
	Suffix              string
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix != "" {
		s += "-" + v.Suffix
	}
	return s
}

func (v Version) canonical() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than
// o, ordering first by the numeric tuple (via semver.Compare) and, when
// equal, lexicographically by suffix.
func (v Version) Compare(o Version) int {
	if c := semver.Compare(v.canonical(), o.canonical()); c != 0 {
		return c
	}
	return strings.Compare(v.Suffix, o.Suffix)
}

// Less reports whether v orders strictly before o.
func (v Version) Less(o Version) bool { return v.Compare(o) < 0 }

// Equal reports whether v and o compare equal.
func (v Version) Equal(o Version) bool { return v.Compare(o) == 0 }

// Parse parses "major.minor.patch" or "major.minor.patch-suffix" into a
// Version. It does not accept a leading "v" -- DOL version literals are
// bare numeric triples, unlike Go module versions.
func Parse(s string) (Version, error) {
	body, suffix, _ := strings.Cut(s, "-")
	parts := strings.Split(body, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("version %q: expected major.minor.patch", s)
	}
	nums := make([]uint64, 3)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return Version{}, fmt.Errorf("version %q: component %q is not numeric", s, p)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Suffix: suffix}, nil
}

// ConstraintOp is a requirement comparison operator used by system
// declarations (spec.md 3: "each: name, constraint operator in {>=,>,=},
// version") and by registry-dependency constraints in the system manifest.
type ConstraintOp int

const (
	OpGE ConstraintOp = iota // >=
	OpGT                     // >
	OpEQ                     // =
)

func (op ConstraintOp) String() string {
	switch op {
	case OpGE:
		return ">="
	case OpGT:
		return ">"
	case OpEQ:
		return "="
	}
	return "?"
}

// Satisfies reports whether candidate satisfies "op required".
func Satisfies(candidate Version, op ConstraintOp, required Version) bool {
	c := candidate.Compare(required)
	switch op {
	case OpGE:
		return c >= 0
	case OpGT:
		return c > 0
	case OpEQ:
		return c == 0
	}
	return false
}
