package registry

import (
	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/platform"
)

// entryMatchesArch reports whether a raw entry applies to an
// architecture query. Empty query fields are unconstrained. Entries
// without a target match everything for backwards compatibility with
// records written before targets were tracked. An entry whose target names a specific microarchitecture of
// the queried family is a configuration mistake and fails the whole
// query rather than being silently skipped.
func entryMatchesArch(e *RawEntry, arch *cspec.ArchSpec, p platform.Info) (bool, error) {
	if arch == nil {
		return true, nil
	}

	if arch.OS != "" {
		if os := stringField(e.data, "operating_system"); os != arch.OS {
			return false, nil
		}
	}

	target := stringField(e.data, "target")
	if target == "" || arch.Target == "" {
		return true, nil
	}

	// The query target may be a specific microarchitecture; entries are
	// matched against its family.
	family, ok := p.FamilyFor(arch.Target)
	if !ok {
		family = arch.Target
	}

	if target == family || target == cspec.TargetAny {
		return true, nil
	}

	if entryFamily, ok := p.FamilyFor(target); ok && entryFamily == family {
		return false, &ConfigurationError{Target: target, Family: family, Spec: e.SpecString()}
	}
	return false, nil
}
