package registry

import (
	"strings"

	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/families"
)

// Compiler is a resolved compiler entry: a concrete spec bound to a
// family descriptor, an architecture and the four tool paths.
type Compiler struct {
	Spec   cspec.Spec
	Family *families.Family

	OperatingSystem string
	Target          string

	CC  string
	CXX string
	F77 string
	FC  string

	Flags          map[string]string
	Modules        []string
	Environment    map[string]string
	ExtraRPaths    []string
	ImplicitRPaths *bool
	Alias          string
}

// compilerFromEntry resolves one raw record. A record missing any of
// the four path keys yields InvalidCompilerConfigurationError; a record
// naming an unsupported family yields UnknownCompilerFamilyError.
func compilerFromEntry(e *RawEntry) (*Compiler, error) {
	paths := anyMap(e.data, "paths")
	for _, key := range pathKeys {
		if _, ok := paths[key]; !ok {
			return nil, &InvalidCompilerConfigurationError{Spec: e.SpecString()}
		}
	}

	spec, err := cspec.Parse(e.SpecString())
	if err != nil {
		return nil, &InvalidCompilerConfigurationError{Spec: e.SpecString()}
	}

	family, ok := families.Lookup(spec.Name)
	if !ok {
		return nil, &UnknownCompilerFamilyError{Name: spec.Name}
	}

	c := &Compiler{
		Spec:            spec,
		Family:          family,
		OperatingSystem: stringField(e.data, "operating_system"),
		Target:          stringField(e.data, "target"),
		CC:              pathValue(paths, "cc"),
		CXX:             pathValue(paths, "cxx"),
		F77:             pathValue(paths, "f77"),
		FC:              pathValue(paths, "fc"),
		Flags:           stringMap(e.data, "flags"),
		Modules:         stringList(e.data, "modules"),
		Environment:     stringMap(e.data, "environment"),
		ExtraRPaths:     stringList(e.data, "extra_rpaths"),
		Alias:           stringField(e.data, "alias"),
	}

	// Only a real boolean counts; anything else means unset.
	if b, ok := e.data["implicit_rpaths"].(bool); ok {
		c.ImplicitRPaths = &b
	}

	return c, nil
}

// pathValue reads one tool path. Null entries come back as "".
func pathValue(paths map[string]any, key string) string {
	s, _ := paths[key].(string)
	return s
}

// Path returns the tool path for one role.
func (c *Compiler) Path(role families.Role) string {
	switch role {
	case families.RoleCC:
		return c.CC
	case families.RoleCXX:
		return c.CXX
	case families.RoleF77:
		return c.F77
	case families.RoleFC:
		return c.FC
	}
	return ""
}

// ToRecord serializes the compiler back into the config record shape.
// All four path keys are always present, null for unavailable tools.
// implicit_rpaths is omitted when unset and alias when empty.
func (c *Compiler) ToRecord() map[string]any {
	paths := map[string]any{
		"cc":  nullable(c.CC),
		"cxx": nullable(c.CXX),
		"f77": nullable(c.F77),
		"fc":  nullable(c.FC),
	}

	flags := map[string]any{}
	for k, v := range c.Flags {
		flags[k] = v
	}
	environment := map[string]any{}
	for k, v := range c.Environment {
		environment[k] = v
	}

	modules := make([]any, 0, len(c.Modules))
	for _, m := range c.Modules {
		modules = append(modules, m)
	}
	rpaths := make([]any, 0, len(c.ExtraRPaths))
	for _, p := range c.ExtraRPaths {
		rpaths = append(rpaths, p)
	}

	rec := map[string]any{
		"spec":             c.Spec.String(),
		"paths":            paths,
		"flags":            flags,
		"operating_system": c.OperatingSystem,
		"target":           c.Target,
		"modules":          modules,
		"environment":      environment,
		"extra_rpaths":     rpaths,
	}
	if c.ImplicitRPaths != nil {
		rec["implicit_rpaths"] = *c.ImplicitRPaths
	}
	if c.Alias != "" {
		rec["alias"] = c.Alias
	}
	return rec
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// equalityKey identifies a compiler for deduplication purposes: same
// spec, architecture and tool paths mean the same compiler regardless
// of which scope declared it.
func (c *Compiler) equalityKey() string {
	return strings.Join([]string{
		c.Spec.String(), c.OperatingSystem, c.Target,
		c.CC, c.CXX, c.F77, c.FC,
	}, "|")
}
