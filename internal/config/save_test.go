package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteSectionCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "compilers.yaml")

	err := WriteSection(path, "compilers", []any{
		map[string]any{"compiler": map[string]any{"spec": "gcc@12.3.0"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Contains(t, doc, "compilers")
}

func TestWriteSectionPreservesOtherSectionsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	original := `# site toolchain policy
packages:
  # pinned on purpose
  llvm:
    externals:
    - spec: llvm@15.0.0
compilers: []
`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

	err := WriteSection(path, "compilers", []any{
		map[string]any{"compiler": map[string]any{"spec": "gcc@12.3.0"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	require.Contains(t, text, "# site toolchain policy")
	require.Contains(t, text, "# pinned on purpose")
	require.Contains(t, text, "llvm@15.0.0")
	require.Contains(t, text, "gcc@12.3.0")
}

func TestWriteSectionAppendsNewSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("packages: {}\n"), 0o644))

	require.NoError(t, WriteSection(path, "compilers", []any{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Contains(t, doc, "packages")
	require.Contains(t, doc, "compilers")
}

func TestWriteSectionReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteSection(path, "compilers", []any{"a"}))
	require.NoError(t, WriteSection(path, "compilers", []any{"b", "c"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string][]string
	require.NoError(t, yaml.Unmarshal(data, &doc))
	require.Equal(t, []string{"b", "c"}, doc["compilers"])
}

func TestWriteSectionLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compilers.yaml")
	require.NoError(t, WriteSection(path, "compilers", []any{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "compilers.yaml", entries[0].Name())
}
