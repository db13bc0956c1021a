package families

import "github.com/quarry-build/quarry/internal/cspec"

// Some compilers are provided by packages whose name differs from the
// compiler family name. These two tables are the single place that
// translation lives; everything else goes through the functions below.

var packageToFamily = map[string]string{
	"llvm":                           "clang",
	"intel-oneapi-compilers":         "oneapi",
	"llvm-amdgpu":                    "rocmcc",
	"intel-oneapi-compilers-classic": "intel",
	"acfl":                           "arm",
}

// familyToPackage maps a compiler spec constraint to the package that
// provides it. Ordered because version-conditional entries must win over
// the plain name ("intel@2020:" is provided by the classic oneapi
// package, older intel by "intel-parallel-studio" is not modeled).
var familyToPackage = []struct {
	constraint cspec.Spec
	pkg        string
}{
	{cspec.MustParse("clang"), "llvm"},
	{cspec.MustParse("oneapi"), "intel-oneapi-compilers"},
	{cspec.MustParse("rocmcc"), "llvm-amdgpu"},
	{cspec.MustParse("intel@2020:"), "intel-oneapi-compilers-classic"},
	{cspec.MustParse("arm"), "acfl"},
}

// FamilyNameForPackage translates a package name into its compiler
// family name, returning the input unchanged when no translation exists.
func FamilyNameForPackage(pkg string) string {
	if family, ok := packageToFamily[pkg]; ok {
		return family
	}
	return pkg
}

// PackageNames returns the package names that provide compilers under a
// different name than the family's own.
func PackageNames() []string {
	names := make([]string, 0, len(packageToFamily))
	for pkg := range packageToFamily {
		names = append(names, pkg)
	}
	return names
}

// KnownCompilerProvider reports whether name is either a supported
// family or a package known to provide one.
func KnownCompilerProvider(name string) bool {
	if Supported(name) {
		return true
	}
	_, ok := packageToFamily[name]
	return ok
}

// PackageSpecForCompiler returns the spec of the package providing the
// given compiler spec. Compilers with no translation are provided by a
// package of the same name.
func PackageSpecForCompiler(spec cspec.Spec) cspec.Spec {
	for _, m := range familyToPackage {
		if spec.Satisfies(m.constraint) {
			return cspec.Spec{Name: m.pkg, Versions: spec.Versions}
		}
	}
	return spec
}

// PackageNameForFamily returns the package name providing a family,
// ignoring version-conditional translations.
func PackageNameForFamily(family string) string {
	for _, m := range familyToPackage {
		if m.constraint.Versions.Any() && m.constraint.Name == family {
			return m.pkg
		}
	}
	return family
}
