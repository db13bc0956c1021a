package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quarry-build/quarry/internal/cspec"
)

// InvalidCompilerConfigurationError marks a compiler entry that is
// structurally unusable: one or more of the four path keys is missing
// from its paths map. It is fatal for merged reads.
type InvalidCompilerConfigurationError struct {
	Spec string
}

func (e *InvalidCompilerConfigurationError) Error() string {
	return fmt.Sprintf(
		"invalid configuration for compiler %q: compiler entries must define all of cc, cxx, f77 and fc (use null for unavailable ones)",
		e.Spec)
}

// UnknownCompilerFamilyError reports a config entry naming a compiler
// family the build has no support for. Soft: callers log and skip.
type UnknownCompilerFamilyError struct {
	Name string
}

func (e *UnknownCompilerFamilyError) Error() string {
	return fmt.Sprintf("unknown compiler family %q", e.Name)
}

// ConfigurationError reports an entry whose target field names a
// specific microarchitecture instead of an architecture family.
type ConfigurationError struct {
	Target string
	Family string
	Spec   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(
		"the target field of compiler %s accepts only architecture families, got %q (did you mean %q?)",
		e.Spec, e.Target, e.Family)
}

// NoCompilerForSpecError reports that no configured compiler satisfies
// a concrete query.
type NoCompilerForSpecError struct {
	Spec cspec.Spec
	OS   string
}

func (e *NoCompilerForSpecError) Error() string {
	os := e.OS
	if os == "" {
		os = "any OS"
	}
	return fmt.Sprintf("no compilers for operating system %s satisfy spec %s", os, e.Spec)
}

// NoCompilersError reports an entirely empty registry.
type NoCompilersError struct{}

func (e *NoCompilersError) Error() string {
	return "no compilers found in the configuration scopes"
}

// DuplicateCompilerError reports multiple entries resolving to the same
// compiler spec and architecture, keyed by the config file they came
// from.
type DuplicateCompilerError struct {
	Spec  cspec.Spec
	Arch  cspec.ArchSpec
	Files map[string][]*Compiler
}

func (e *DuplicateCompilerError) Error() string {
	files := make([]string, 0, len(e.Files))
	for f := range e.Files {
		files = append(files, f)
	}
	sort.Strings(files)
	return fmt.Sprintf("compiler %s for arch %s is defined more than once (in %s)",
		e.Spec, e.Arch, strings.Join(files, ", "))
}
