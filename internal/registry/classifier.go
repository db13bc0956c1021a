package registry

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/quarry-build/quarry/internal/families"
	"github.com/quarry-build/quarry/internal/log"
)

// IsMixedToolchain reports whether a compiler's tool paths appear to
// come from more than one vendor family. A family claims a tool only
// when the family has exactly one recognized name for the role and the
// tool's unversioned basename equals it, which keeps generic wrapper
// names from producing false claims. Combinations listed in
// families.AllowedMixedToolchains are not considered mixed.
func IsMixedToolchain(c *Compiler) bool {
	claimed := map[string]bool{}
	for _, family := range families.All() {
		for _, role := range families.Roles {
			if toolMatchesRole(c.Path(role), family.RoleNames(role)) {
				claimed[family.Name] = true
				break
			}
		}
	}
	if len(claimed) <= 1 {
		return false
	}

	names := make([]string, 0, len(claimed))
	for name := range claimed {
		names = append(names, name)
	}
	sort.Strings(names)

	// A combination is fine only when the claimed family set equals one
	// of the allowed groups. Both sides are sorted.
	for _, allowed := range families.AllowedMixedToolchains {
		if setsEqual(names, allowed) {
			return false
		}
	}

	log.Debug(log.CatRegistry, "mixed toolchain detected",
		"spec", c.Spec.String(), "families", strings.Join(names, ","))
	return true
}

// toolMatchesRole checks one tool path against a family's recognized
// names for a role. Version suffixes like "gcc-12" are stripped at the
// first dash before comparing.
func toolMatchesRole(path string, roleNames []string) bool {
	if path == "" || len(roleNames) != 1 {
		return false
	}
	base, _, _ := strings.Cut(filepath.Base(path), "-")
	return base == roleNames[0]
}

func setsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
