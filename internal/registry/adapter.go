package registry

import (
	"strings"

	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/families"
	"github.com/quarry-build/quarry/internal/log"
)

// ExternalDeclaration is one externally-provided package installation
// declared in the packages section or reported by detection. The spec
// names the providing package, which may differ from the compiler
// family it supplies.
type ExternalDeclaration struct {
	Spec            string
	Prefix          string
	Modules         []string
	OperatingSystem string
	Target          string
	ExtraAttributes ExtraAttributes
}

// ExtraAttributes carries the compiler-specific detail of an external
// declaration. Compilers maps language names ("c", "cxx", "fortran") to
// tool paths.
type ExtraAttributes struct {
	Compilers      map[string]string
	Flags          map[string]string
	Environment    map[string]string
	ExtraRPaths    []string
	ImplicitRPaths *bool
}

// entriesFromDeclarations adapts package-level external declarations
// into compiler entries. Packages that are not known compiler providers
// are ignored, as are declarations without a usable C compiler.
func (r *Registry) entriesFromDeclarations(decls map[string][]ExternalDeclaration, source string) []*RawEntry {
	var entries []*RawEntry
	for pkg, list := range decls {
		if !families.KnownCompilerProvider(pkg) {
			continue
		}
		for _, decl := range list {
			if e := r.entryFromDeclaration(decl, source); e != nil {
				entries = append(entries, e)
			}
		}
	}
	return entries
}

// entryFromDeclaration adapts one declaration. Returns nil when the
// declaration cannot serve as a compiler.
func (r *Registry) entryFromDeclaration(decl ExternalDeclaration, source string) *RawEntry {
	spec, err := cspec.Parse(decl.Spec)
	if err != nil {
		log.Warn(log.CatExternal, "skipping malformed external spec",
			"spec", decl.Spec, "error", err.Error())
		return nil
	}

	paths := map[string]any{"cc": nil, "cxx": nil, "f77": nil, "fc": nil}

	cc, ok := decl.ExtraAttributes.Compilers["c"]
	if !ok || cc == "" {
		log.Warn(log.CatExternal, "external package has no C compiler, skipping",
			"spec", decl.Spec)
		return nil
	}
	paths["cc"] = cc

	if cxx, ok := decl.ExtraAttributes.Compilers["cxx"]; ok && cxx != "" {
		paths["cxx"] = cxx
	} else {
		log.Debug(log.CatExternal, "external package has no C++ compiler", "spec", decl.Spec)
	}

	// One fortran path serves both fixed-form and free-form roles.
	if fortran, ok := decl.ExtraAttributes.Compilers["fortran"]; ok && fortran != "" {
		paths["f77"] = fortran
		paths["fc"] = fortran
	} else {
		log.Debug(log.CatExternal, "external package has no Fortran compiler", "spec", decl.Spec)
	}

	familyName := families.FamilyNameForPackage(spec.Name)
	familySpec := cspec.Spec{Name: familyName, Versions: spec.Versions}

	os := decl.OperatingSystem
	if os == "" {
		os = r.platform.DefaultOS()
	}
	target := decl.Target
	if target == "" {
		target = r.platform.DefaultTarget()
	} else if fam, ok := r.platform.FamilyFor(target); ok {
		target = fam
	}

	data := map[string]any{
		"spec":             familySpec.String(),
		"paths":            paths,
		"operating_system": os,
		"target":           target,
	}
	if len(decl.ExtraAttributes.Flags) > 0 {
		flags := map[string]any{}
		for k, v := range decl.ExtraAttributes.Flags {
			flags[k] = v
		}
		data["flags"] = flags
	}
	if len(decl.ExtraAttributes.Environment) > 0 {
		env := map[string]any{}
		for k, v := range decl.ExtraAttributes.Environment {
			env[k] = v
		}
		data["environment"] = env
	}
	if len(decl.ExtraAttributes.ExtraRPaths) > 0 {
		rpaths := make([]any, 0, len(decl.ExtraAttributes.ExtraRPaths))
		for _, p := range decl.ExtraAttributes.ExtraRPaths {
			rpaths = append(rpaths, p)
		}
		data["extra_rpaths"] = rpaths
	}
	if decl.ExtraAttributes.ImplicitRPaths != nil {
		data["implicit_rpaths"] = *decl.ExtraAttributes.ImplicitRPaths
	}
	if len(decl.Modules) > 0 {
		modules := make([]any, 0, len(decl.Modules))
		for _, m := range decl.Modules {
			modules = append(modules, m)
		}
		data["modules"] = modules
	}

	return r.newEntry(data, source, true)
}

// declarationsFromPackages decodes a raw packages section into external
// declarations keyed by package name. Arch constraints embedded in the
// spec string ("os=...", "target=...") are split out into the
// declaration fields.
func declarationsFromPackages(section any) map[string][]ExternalDeclaration {
	pkgs, ok := normalizeMap(section)
	if !ok {
		return nil
	}

	out := map[string][]ExternalDeclaration{}
	for name, raw := range pkgs {
		pkg, ok := normalizeMap(raw)
		if !ok {
			continue
		}
		externals, ok := pkg["externals"].([]any)
		if !ok {
			continue
		}
		for _, rawExt := range externals {
			ext, ok := normalizeMap(rawExt)
			if !ok {
				continue
			}
			decl := ExternalDeclaration{
				Prefix:  stringField(ext, "prefix"),
				Modules: stringList(ext, "modules"),
			}
			decl.Spec, decl.OperatingSystem, decl.Target = splitSpecArch(stringField(ext, "spec"))
			if attrs, ok := normalizeMap(ext["extra_attributes"]); ok {
				decl.ExtraAttributes = ExtraAttributes{
					Compilers:   stringMap(attrs, "compilers"),
					Flags:       stringMap(attrs, "flags"),
					Environment: stringMap(attrs, "environment"),
					ExtraRPaths: stringList(attrs, "extra_rpaths"),
				}
				if b, ok := attrs["implicit_rpaths"].(bool); ok {
					decl.ExtraAttributes.ImplicitRPaths = &b
				}
			}
			out[name] = append(out[name], decl)
		}
	}
	return out
}

// splitSpecArch peels "os=" and "target=" tokens off a spec string.
func splitSpecArch(spec string) (name, os, target string) {
	var kept []string
	for _, tok := range strings.Fields(spec) {
		switch {
		case strings.HasPrefix(tok, "os="):
			os = strings.TrimPrefix(tok, "os=")
		case strings.HasPrefix(tok, "target="):
			target = strings.TrimPrefix(tok, "target=")
		default:
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " "), os, target
}

// normalizeMap coerces a decoded YAML node into map[string]any.
func normalizeMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	}
	return nil, false
}
