package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarry-build/quarry/internal/cspec"
)

func matcherEntry(reg *Registry, os, target string) *RawEntry {
	data := validEntryData()
	data["operating_system"] = os
	if target == "" {
		delete(data, "target")
	} else {
		data["target"] = target
	}
	return reg.newEntry(data, "test", false)
}

func TestEntryMatchesArchNilQuery(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "x86_64")

	ok, err := entryMatchesArch(entry, nil, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEntryMatchesArchOSMismatch(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu20.04", "x86_64")

	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "x86_64"}, reg.platform)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEntryMatchesArchNoTargetMatchesEverything(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "")

	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "aarch64"}, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEntryMatchesArchEmptyQueryTargetMatchesTargetedEntries(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "x86_64")

	// A query constraining only the OS leaves the target unconstrained.
	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04"}, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)

	// And an empty OS is unconstrained too.
	ok, err = entryMatchesArch(entry,
		&cspec.ArchSpec{Target: "x86_64"}, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEntryMatchesArchFamilyOfMicroarch(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "x86_64")

	// Queries for a specific microarchitecture match family entries.
	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "skylake"}, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEntryMatchesArchWildcardTarget(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "any")

	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "aarch64"}, reg.platform)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEntryMatchesArchDifferentFamily(t *testing.T) {
	reg, _ := newTestRegistry(t)
	entry := matcherEntry(reg, "ubuntu22.04", "aarch64")

	ok, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "x86_64"}, reg.platform)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEntryMatchesArchMicroarchTargetIsConfigurationError(t *testing.T) {
	reg, _ := newTestRegistry(t)
	// The entry names a microarchitecture of the queried family instead
	// of the family itself.
	entry := matcherEntry(reg, "ubuntu22.04", "skylake")

	_, err := entryMatchesArch(entry,
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "x86_64"}, reg.platform)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "skylake", cfgErr.Target)
	require.Equal(t, "x86_64", cfgErr.Family)
}

func TestConfigurationErrorFailsQuery(t *testing.T) {
	reg, store := newTestRegistry(t)
	writeScopeFile(t, store, "user", compilersSection, `
compilers:
- compiler:
    spec: gcc@12.3.0
    paths:
      cc: /usr/bin/gcc
      cxx: /usr/bin/g++
      f77: /usr/bin/gfortran
      fc: /usr/bin/gfortran
    operating_system: ubuntu22.04
    target: skylake
`)

	_, err := reg.CompilersFor(cspec.MustParse("gcc"),
		&cspec.ArchSpec{OS: "ubuntu22.04", Target: "x86_64"}, "", false)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	// Without an arch query the same entry resolves fine.
	matches, err := reg.Find(cspec.MustParse("gcc"), "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}
