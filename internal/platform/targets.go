package platform

import "sort"

// targetFamilies maps every recognized target microarchitecture to its
// architecture family. Families map to themselves so the table can
// resolve either form.
var targetFamilies = map[string]string{
	// x86_64
	"x86_64":         "x86_64",
	"x86_64_v2":      "x86_64",
	"x86_64_v3":      "x86_64",
	"x86_64_v4":      "x86_64",
	"nocona":         "x86_64",
	"core2":          "x86_64",
	"nehalem":        "x86_64",
	"westmere":       "x86_64",
	"sandybridge":    "x86_64",
	"ivybridge":      "x86_64",
	"haswell":        "x86_64",
	"broadwell":      "x86_64",
	"skylake":        "x86_64",
	"skylake_avx512": "x86_64",
	"cascadelake":    "x86_64",
	"cannonlake":     "x86_64",
	"icelake":        "x86_64",
	"sapphirerapids": "x86_64",
	"mic_knl":        "x86_64",
	"bulldozer":      "x86_64",
	"piledriver":     "x86_64",
	"steamroller":    "x86_64",
	"excavator":      "x86_64",
	"zen":            "x86_64",
	"zen2":           "x86_64",
	"zen3":           "x86_64",
	"zen4":           "x86_64",

	// aarch64
	"aarch64":     "aarch64",
	"armv8.2a":    "aarch64",
	"armv8.3a":    "aarch64",
	"armv8.4a":    "aarch64",
	"armv8.5a":    "aarch64",
	"armv9.0a":    "aarch64",
	"cortex_a72":  "aarch64",
	"neoverse_n1": "aarch64",
	"neoverse_v1": "aarch64",
	"neoverse_v2": "aarch64",
	"thunderx2":   "aarch64",
	"a64fx":       "aarch64",
	"m1":          "aarch64",
	"m2":          "aarch64",

	// ppc64le
	"ppc64le":   "ppc64le",
	"power8le":  "ppc64le",
	"power9le":  "ppc64le",
	"power10le": "ppc64le",

	// ppc64
	"ppc64":  "ppc64",
	"power7": "ppc64",
	"power8": "ppc64",
	"power9": "ppc64",

	// riscv64
	"riscv64": "riscv64",
	"u74mc":   "riscv64",
}

// FamilyFor resolves a target microarchitecture name to its family name.
// The second return is false when the target is unknown.
func FamilyFor(target string) (string, bool) {
	family, ok := targetFamilies[target]
	return family, ok
}

// IsFamily reports whether name is an architecture family name.
func IsFamily(name string) bool {
	family, ok := targetFamilies[name]
	return ok && family == name
}

// Families returns the sorted list of architecture family names.
func Families() []string {
	seen := map[string]bool{}
	for _, family := range targetFamilies {
		seen[family] = true
	}
	families := make([]string, 0, len(seen))
	for family := range seen {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}
