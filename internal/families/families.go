// Package families holds the static table of supported compiler
// families: vendor toolchains with their recognized executable names per
// language role, platform support, and detection hints. The table is
// populated once from a fixed list and is not mutable at runtime.
package families

import "sort"

// Role is one of the four compiler slots.
type Role string

const (
	RoleCC  Role = "cc"  // C
	RoleCXX Role = "cxx" // C++
	RoleF77 Role = "f77" // Fortran fixed-form
	RoleFC  Role = "fc"  // Fortran free-form
)

// Roles lists all roles in canonical order.
var Roles = []Role{RoleCC, RoleCXX, RoleF77, RoleFC}

// Family describes one vendor toolchain.
type Family struct {
	Name string

	// Recognized executable basenames per role. Versioned variants like
	// "gcc-12" are matched by stripping the suffix, not by listing them.
	CCNames  []string
	CXXNames []string
	F77Names []string
	FCNames  []string

	// Extra flag keys this family accepts in config beyond the common
	// cflags/cppflags/cxxflags/fflags set.
	FlagNames []string

	// Platforms the family runs on. Empty means every platform.
	Platforms []string

	// Detection hints: the argument used to ask an executable for its
	// version and the pattern extracting the version from the output.
	// Empty values fall back to "--version" and a generic dotted-number
	// pattern.
	VersionArgument string
	VersionRegexp   string
}

// RoleNames returns the recognized basenames for one role.
func (f *Family) RoleNames(role Role) []string {
	switch role {
	case RoleCC:
		return f.CCNames
	case RoleCXX:
		return f.CXXNames
	case RoleF77:
		return f.F77Names
	case RoleFC:
		return f.FCNames
	}
	return nil
}

// SupportedOn reports whether the family runs on the given platform.
func (f *Family) SupportedOn(platform string) bool {
	if len(f.Platforms) == 0 {
		return true
	}
	for _, p := range f.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

var all = []*Family{
	{
		Name:          "gcc",
		CCNames:       []string{"gcc"},
		CXXNames:      []string{"g++"},
		F77Names:      []string{"gfortran"},
		FCNames:       []string{"gfortran"},
		VersionRegexp: `\(GCC\)\s+([\d.]+)|gcc.*?\s([\d.]+)`,
	},
	{
		Name:          "clang",
		CCNames:       []string{"clang"},
		CXXNames:      []string{"clang++"},
		VersionRegexp: `clang version ([\d.]+)`,
	},
	{
		Name:          "apple-clang",
		CCNames:       []string{"clang"},
		CXXNames:      []string{"clang++"},
		Platforms:     []string{"darwin"},
		VersionRegexp: `Apple (?:LLVM|clang) version ([\d.]+)`,
	},
	{
		Name:     "intel",
		CCNames:  []string{"icc"},
		CXXNames: []string{"icpc"},
		F77Names: []string{"ifort"},
		FCNames:  []string{"ifort"},
	},
	{
		Name:     "oneapi",
		CCNames:  []string{"icx"},
		CXXNames: []string{"icpx"},
		F77Names: []string{"ifx"},
		FCNames:  []string{"ifx"},
	},
	{
		Name:     "dpcpp",
		CCNames:  []string{"dpcpp"},
		CXXNames: []string{"dpcpp"},
	},
	{
		Name:          "aocc",
		CCNames:       []string{"clang"},
		CXXNames:      []string{"clang++"},
		F77Names:      []string{"flang"},
		FCNames:       []string{"flang"},
		VersionRegexp: `AOCC_([\d.]+)`,
	},
	{
		Name:     "arm",
		CCNames:  []string{"armclang"},
		CXXNames: []string{"armclang++"},
		F77Names: []string{"armflang"},
		FCNames:  []string{"armflang"},
	},
	{
		Name:      "cce",
		CCNames:   []string{"craycc"},
		CXXNames:  []string{"crayCC"},
		F77Names:  []string{"crayftn"},
		FCNames:   []string{"crayftn"},
		Platforms: []string{"linux"},
	},
	{
		Name:      "fj",
		CCNames:   []string{"fcc"},
		CXXNames:  []string{"FCC"},
		F77Names:  []string{"frt"},
		FCNames:   []string{"frt"},
		Platforms: []string{"linux"},
	},
	{
		Name:            "msvc",
		CCNames:         []string{"cl"},
		CXXNames:        []string{"cl"},
		FCNames:         []string{"ifx"},
		Platforms:       []string{"windows"},
		VersionArgument: "",
		VersionRegexp:   `Version ([\d.]+)`,
	},
	{
		Name:          "nag",
		F77Names:      []string{"nagfor"},
		FCNames:       []string{"nagfor"},
		VersionRegexp: `Release ([\d.]+)`,
	},
	{
		Name:     "nvhpc",
		CCNames:  []string{"nvc"},
		CXXNames: []string{"nvc++"},
		F77Names: []string{"nvfortran"},
		FCNames:  []string{"nvfortran"},
	},
	{
		Name:     "pgi",
		CCNames:  []string{"pgcc"},
		CXXNames: []string{"pgc++"},
		F77Names: []string{"pgfortran"},
		FCNames:  []string{"pgfortran"},
	},
	{
		Name:     "rocmcc",
		CCNames:  []string{"amdclang"},
		CXXNames: []string{"amdclang++"},
		F77Names: []string{"amdflang"},
		FCNames:  []string{"amdflang"},
	},
	{
		Name:      "xl",
		CCNames:   []string{"xlc"},
		CXXNames:  []string{"xlC", "xlc++"},
		F77Names:  []string{"xlf"},
		FCNames:   []string{"xlf90", "xlf95", "xlf2003", "xlf2008"},
		Platforms: []string{"linux", "aix"},
	},
}

var byName = func() map[string]*Family {
	m := make(map[string]*Family, len(all))
	for _, f := range all {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the family descriptor for a name.
func Lookup(name string) (*Family, bool) {
	f, ok := byName[name]
	return f, ok
}

// Supported reports whether name is a known compiler family.
func Supported(name string) bool {
	_, ok := byName[name]
	return ok
}

// All returns every family descriptor in registration order.
func All() []*Family {
	return all
}

// Names returns the sorted names of all supported families.
func Names() []string {
	names := make([]string, 0, len(all))
	for _, f := range all {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// NamesForPlatform returns the sorted names of families supported on the
// given platform.
func NamesForPlatform(platform string) []string {
	names := make([]string, 0, len(all))
	for _, f := range all {
		if f.SupportedOn(platform) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

// AllowedMixedToolchains lists the vendor family combinations that are
// acceptable together even though they classify as distinct families.
// Each entry is sorted. Treated as configuration data: extend the list,
// do not special-case callers.
var AllowedMixedToolchains = [][]string{
	{"aocc", "apple-clang", "clang"},
	{"dpcpp", "msvc", "oneapi"},
	// ifx fills msvc's fortran slot, so a pure oneapi toolchain claims
	// both families.
	{"msvc", "oneapi"},
}
