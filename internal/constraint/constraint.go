// Package constraint parses version requirement strings such as
// ">= 4.13.1 <= 4.14.0" and selects a release that satisfies them.
package constraint

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	// ErrInvalidConstraintSyntax is returned when operators and versions
	// in a requirement string cannot be paired up.
	ErrInvalidConstraintSyntax = errors.New("invalid version requirement")

	// ErrNoMatchingVersion is returned when no candidate satisfies every constraint.
	ErrNoMatchingVersion = errors.New("no release version found")
)

// Operator is a version comparison operator
type Operator string

const (
	OpEqual        Operator = "="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
)

// Constraint is a single operator/version pair
type Constraint struct {
	Op      Operator
	Version string
}

// String returns the constraint as written, e.g. ">= 4.13.1"
func (c Constraint) String() string {
	return string(c.Op) + " " + c.Version
}

// operatorPattern lists two-character operators first so "<=" is not read as "<"
var operatorPattern = regexp.MustCompile(`<=|>=|<|>|=`)

// versionPattern matches numeric-dot version tokens like 4, 1.4 or 4.13.1
var versionPattern = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)*`)

// Parse splits a requirement string into constraints in the order they
// appear. Operators and versions are scanned independently and paired by
// position; an input without operators yields no constraints.
func Parse(text string) ([]Constraint, error) {
	ops := operatorPattern.FindAllString(text, -1)
	if len(ops) == 0 {
		return nil, nil
	}

	versions := versionPattern.FindAllString(text, -1)
	if len(ops) != len(versions) {
		return nil, fmt.Errorf("%w %q: found %d operators and %d versions",
			ErrInvalidConstraintSyntax, text, len(ops), len(versions))
	}

	constraints := make([]Constraint, len(ops))
	for i, op := range ops {
		constraints[i] = Constraint{Op: Operator(op), Version: versions[i]}
	}
	return constraints, nil
}

// Check reports whether version satisfies the constraint. Versions that
// are not valid semantic versions never match.
func (c Constraint) Check(version string) bool {
	v := canonical(version)
	want := canonical(c.Version)
	if !semver.IsValid(v) || !semver.IsValid(want) {
		return false
	}

	cmp := semver.Compare(v, want)
	switch c.Op {
	case OpEqual:
		return cmp == 0
	case OpLess:
		return cmp < 0
	case OpGreater:
		return cmp > 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreaterEqual:
		return cmp >= 0
	default:
		return false
	}
}

// Matches reports whether version satisfies every constraint. Pre-release
// versions only match when one of the constraints names a pre-release.
func Matches(constraints []Constraint, version string) bool {
	if semver.Prerelease(canonical(version)) != "" && !namesPrerelease(constraints) {
		return false
	}
	for _, c := range constraints {
		if !c.Check(version) {
			return false
		}
	}
	return true
}

func namesPrerelease(constraints []Constraint) bool {
	for _, c := range constraints {
		if semver.Prerelease(canonical(c.Version)) != "" {
			return true
		}
	}
	return false
}

// Select returns the highest candidate that satisfies all constraints.
// Among equal versions the earliest candidate wins.
func Select(constraints []Constraint, candidates []string) (string, error) {
	best := ""
	for _, candidate := range candidates {
		if !Matches(constraints, candidate) {
			continue
		}
		if best == "" || semver.Compare(canonical(candidate), canonical(best)) > 0 {
			best = candidate
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w satisfying %q among %d candidates",
			ErrNoMatchingVersion, Join(constraints), len(candidates))
	}
	return best, nil
}

// Join renders constraints back into a requirement string
func Join(constraints []Constraint) string {
	parts := make([]string, len(constraints))
	for i, c := range constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// canonical adds the "v" prefix x/mod/semver expects
func canonical(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
