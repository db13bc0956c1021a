package cspec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		versions string
		concrete bool
	}{
		{"gcc", "gcc", "", false},
		{"gcc@11.2.0", "gcc", "11.2.0", true},
		{"gcc@=11.2.0", "gcc", "11.2.0", true},
		{"clang@11:13", "clang", "11:13", false},
		{"oneapi@2024:", "oneapi", "2024:", false},
		{"intel@:2021", "intel", ":2021", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			spec, err := Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.name, spec.Name)
			require.Equal(t, tt.versions, spec.Versions.String())
			require.Equal(t, tt.concrete, spec.Concrete())
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"", "@11", "gcc clang"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
		})
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		spec       string
		constraint string
		want       bool
	}{
		{"gcc@11.2.0", "gcc", true},
		{"gcc@11.2.0", "gcc@11", true},
		{"gcc@11.2.0", "gcc@11.2.0", true},
		{"gcc@11.2.0", "gcc@12", false},
		{"gcc@11.2.0", "clang", false},
		{"gcc@13.2", "gcc@11:13", true},
		{"gcc@14.1", "gcc@11:13", false},
		{"gcc@10.5", "gcc@11:", false},
		{"gcc@11", "gcc@11.2.0", false},
		{"clang@11:13", "clang@12:", true},
		{"clang@11:13", "clang@14:", false},
	}
	for _, tt := range tests {
		t.Run(tt.spec+" vs "+tt.constraint, func(t *testing.T) {
			spec := MustParse(tt.spec)
			constraint := MustParse(tt.constraint)
			require.Equal(t, tt.want, spec.Satisfies(constraint))
		})
	}
}

func TestSatisfiesEmptyConstraintName(t *testing.T) {
	spec := MustParse("gcc@11.2.0")
	require.True(t, spec.Satisfies(Spec{}))
}

func TestVersionCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"11", "11", 0},
		{"9", "11", -1},
		{"11.2", "11.10", -1},
		{"11.2.0", "11.2", 1},
		{"2021.4.0", "2021.4.0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			require.Equal(t, tt.want, ParseVersion(tt.a).Compare(ParseVersion(tt.b)))
		})
	}
}

func TestVersionRangeIncludesPrefix(t *testing.T) {
	r := ParseVersionRange("11")
	require.True(t, r.Includes(ParseVersion("11")))
	require.True(t, r.Includes(ParseVersion("11.2.0")))
	require.False(t, r.Includes(ParseVersion("12.1")))

	r = ParseVersionRange("11:13")
	require.True(t, r.Includes(ParseVersion("13.2")))
	require.True(t, r.Includes(ParseVersion("11.0")))
	require.False(t, r.Includes(ParseVersion("10.5")))
	require.False(t, r.Includes(ParseVersion("14")))
}

func TestSpecStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[a-z][a-z0-9-]{0,10}`).Draw(t, "name")
		major := rapid.IntRange(0, 99).Draw(t, "major")
		minor := rapid.IntRange(0, 99).Draw(t, "minor")
		patch := rapid.IntRange(0, 99).Draw(t, "patch")

		input := fmt.Sprintf("%s@%d.%d.%d", name, major, minor, patch)
		spec, err := Parse(input)
		require.NoError(t, err)
		require.Equal(t, input, spec.String())

		reparsed, err := Parse(spec.String())
		require.NoError(t, err)
		require.Equal(t, spec, reparsed)
		require.True(t, spec.Satisfies(reparsed))
	})
}

func TestArchSpecString(t *testing.T) {
	require.Equal(t, "any", cspecArchString("", ""))
	require.Equal(t, "ubuntu22.04", cspecArchString("ubuntu22.04", ""))
	require.Equal(t, "x86_64", cspecArchString("", "x86_64"))
	require.Equal(t, "ubuntu22.04-x86_64", cspecArchString("ubuntu22.04", "x86_64"))
}

func cspecArchString(os, target string) string {
	return ArchSpec{OS: os, Target: target}.String()
}
