package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		target string
		family string
		known  bool
	}{
		{"skylake", "x86_64", true},
		{"zen4", "x86_64", true},
		{"x86_64", "x86_64", true},
		{"neoverse_v2", "aarch64", true},
		{"m1", "aarch64", true},
		{"power9le", "ppc64le", true},
		{"u74mc", "riscv64", true},
		{"sparc64", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			family, ok := FamilyFor(tt.target)
			require.Equal(t, tt.known, ok)
			require.Equal(t, tt.family, family)
		})
	}
}

func TestIsFamily(t *testing.T) {
	require.True(t, IsFamily("x86_64"))
	require.True(t, IsFamily("aarch64"))
	require.False(t, IsFamily("skylake"))
	require.False(t, IsFamily("nope"))
}

func TestFamilies(t *testing.T) {
	families := Families()
	require.Contains(t, families, "x86_64")
	require.Contains(t, families, "aarch64")
	require.IsIncreasing(t, families)
}

func TestNewFixed(t *testing.T) {
	p := NewFixed("linux", "ubuntu22.04", "x86_64")
	require.Equal(t, "linux", p.Name())
	require.Equal(t, "ubuntu22.04", p.DefaultOS())
	require.Equal(t, "x86_64", p.DefaultTarget())

	family, ok := p.FamilyFor("haswell")
	require.True(t, ok)
	require.Equal(t, "x86_64", family)
}

func TestNewHost(t *testing.T) {
	h := NewHost()
	require.NotEmpty(t, h.Name())
	require.NotEmpty(t, h.DefaultOS())
	require.NotEmpty(t, h.DefaultTarget())
}
