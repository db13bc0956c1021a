package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarry-build/quarry/internal/families"
	"github.com/quarry-build/quarry/internal/platform"
	"github.com/quarry-build/quarry/internal/registry"
)

// fakeProber confirms versions from a fixed table keyed by family name
// and tool basename, and fails everything else the way a real probe
// would for a lookalike executable.
type fakeProber struct {
	versions map[string]string // "family/basename" -> version
}

func (p *fakeProber) Probe(_ context.Context, family *families.Family, path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), ".exe")
	if version, ok := p.versions[family.Name+"/"+base]; ok {
		return version, nil
	}
	return "", fmt.Errorf("no version in output of %s", path)
}

func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0o755))
}

func newTestScanner(versions map[string]string) *Scanner {
	return NewScanner(
		WithProber(&fakeProber{versions: versions}),
		WithPlatform(platform.NewFixed("linux", "ubuntu22.04", "x86_64")),
	)
}

func TestDetectGroupsToolsByFamilyAndVersion(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "gcc")
	writeExecutable(t, dir, "g++")
	writeExecutable(t, dir, "gfortran")
	writeExecutable(t, dir, "clang")
	writeExecutable(t, dir, "clang++")

	scanner := newTestScanner(map[string]string{
		"gcc/gcc":       "12.3.0",
		"gcc/g++":       "12.3.0",
		"gcc/gfortran":  "12.3.0",
		"clang/clang":   "15.0.7",
		"clang/clang++": "15.0.7",
	})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{dir},
	})
	require.NoError(t, err)

	require.Len(t, decls["gcc"], 1)
	gcc := decls["gcc"][0]
	require.Equal(t, "gcc@12.3.0", gcc.Spec)
	require.Equal(t, filepath.Join(dir, "gcc"), gcc.ExtraAttributes.Compilers["c"])
	require.Equal(t, filepath.Join(dir, "g++"), gcc.ExtraAttributes.Compilers["cxx"])
	require.Equal(t, filepath.Join(dir, "gfortran"), gcc.ExtraAttributes.Compilers["fortran"])

	// clang is provided by the llvm package.
	require.Len(t, decls["llvm"], 1)
	clang := decls["llvm"][0]
	require.Equal(t, "llvm@15.0.7", clang.Spec)
	require.Equal(t, filepath.Join(dir, "clang"), clang.ExtraAttributes.Compilers["c"])
	require.NotContains(t, clang.ExtraAttributes.Compilers, "fortran")
}

func TestDetectSeparatesVersions(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "gcc")
	writeExecutable(t, dir, "gcc-9")

	scanner := newTestScanner(map[string]string{
		"gcc/gcc":   "12.3.0",
		"gcc/gcc-9": "9.4.0",
	})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{dir},
	})
	require.NoError(t, err)
	require.Len(t, decls["gcc"], 2)

	specs := []string{decls["gcc"][0].Spec, decls["gcc"][1].Spec}
	require.Contains(t, specs, "gcc@9.4.0")
	require.Contains(t, specs, "gcc@12.3.0")
}

func TestDetectIgnoresFailedProbes(t *testing.T) {
	dir := t.TempDir()
	writeExecutable(t, dir, "gcc")
	// clang-format matches the clang prefix pattern but probes as
	// nothing.
	writeExecutable(t, dir, "clang-format")

	scanner := newTestScanner(map[string]string{"gcc/gcc": "12.3.0"})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{dir},
	})
	require.NoError(t, err)
	require.Len(t, decls["gcc"], 1)
	require.NotContains(t, decls, "llvm")
}

func TestDetectIgnoresNonExecutables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gcc"), []byte("data"), 0o644))

	scanner := newTestScanner(map[string]string{"gcc/gcc": "12.3.0"})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{dir},
	})
	require.NoError(t, err)
	require.Empty(t, decls)
}

func TestDetectSkipsFamiliesForOtherPlatforms(t *testing.T) {
	dir := t.TempDir()
	// "cl" belongs to msvc, which is windows-only.
	writeExecutable(t, dir, "cl")

	scanner := newTestScanner(map[string]string{"msvc/cl": "19.38"})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{dir},
	})
	require.NoError(t, err)
	require.Empty(t, decls)
}

func TestDetectPrefixIsParentOfBinDir(t *testing.T) {
	root := t.TempDir()
	bin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(bin, 0o755))
	writeExecutable(t, bin, "gcc")

	scanner := newTestScanner(map[string]string{"gcc/gcc": "12.3.0"})

	decls, err := scanner.Detect(context.Background(), registry.DetectOptions{
		PathHints: []string{bin},
	})
	require.NoError(t, err)
	require.Len(t, decls["gcc"], 1)
	require.Equal(t, root, decls["gcc"][0].Prefix)
}

func TestMatchesName(t *testing.T) {
	require.True(t, matchesName("gcc", []string{"gcc"}))
	require.True(t, matchesName("gcc-12", []string{"gcc"}))
	require.True(t, matchesName("gcc.exe", []string{"gcc"}))
	require.False(t, matchesName("gccgo", []string{"gcc"}))
	require.False(t, matchesName("g++", []string{"gcc"}))
}

func TestSearchDirsDeduplicates(t *testing.T) {
	dirs := searchDirs([]string{"/usr/bin", "/usr/bin/", "/opt/bin"})
	require.Equal(t, []string{"/usr/bin", "/opt/bin"}, dirs)
}
