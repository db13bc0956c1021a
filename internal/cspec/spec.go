// Package cspec models compiler specs ("gcc@11.2.0") and architecture
// specs (operating system plus target microarchitecture) and the
// constraint-satisfaction primitive between them.
package cspec

import (
	"fmt"
	"strings"
)

// Spec identifies a compiler by family name with an optional version
// constraint. A Spec with an exact version is concrete; one with a bare
// name or an open range is a query constraint.
type Spec struct {
	Name     string
	Versions VersionRange
}

// Parse parses "gcc", "gcc@11", or "gcc@11:13".
func Parse(s string) (Spec, error) {
	name, versions, _ := strings.Cut(strings.TrimSpace(s), "@")
	// Tolerate the "@=11" exact-version syntax by treating it as "@11".
	versions = strings.TrimPrefix(versions, "=")
	if name == "" {
		return Spec{}, fmt.Errorf("compiler spec %q has no name", s)
	}
	if strings.ContainsAny(name, " \t@") {
		return Spec{}, fmt.Errorf("malformed compiler spec %q", s)
	}
	return Spec{Name: name, Versions: ParseVersionRange(versions)}, nil
}

// MustParse is Parse for specs known valid at compile time; it panics on
// malformed input.
func MustParse(s string) Spec {
	spec, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return spec
}

func (s Spec) String() string {
	if s.Versions.Any() {
		return s.Name
	}
	return s.Name + "@" + s.Versions.String()
}

// Concrete reports whether the spec pins an exact version.
func (s Spec) Concrete() bool {
	return s.Versions.Exact()
}

// Version returns the pinned version of a concrete spec, or nil.
func (s Spec) Version() Version {
	if !s.Concrete() {
		return nil
	}
	return s.Versions.Lo
}

// Satisfies reports whether this spec fits within the given constraint.
// An empty constraint name matches every name. A concrete spec satisfies
// a constraint when its version lies in the constraint's range; two
// non-concrete specs satisfy each other when their ranges overlap.
func (s Spec) Satisfies(constraint Spec) bool {
	if constraint.Name != "" && constraint.Name != s.Name {
		return false
	}
	if constraint.Versions.Any() {
		return true
	}
	if s.Concrete() {
		return constraint.Versions.Includes(s.Version())
	}
	return s.Versions.Overlaps(constraint.Versions)
}
