package cspec

import (
	"strconv"
	"strings"
)

// Version is a dotted version split into components, e.g. "11.2.0" ->
// ["11", "2", "0"]. Components compare numerically when both sides are
// numeric and lexically otherwise.
type Version []string

// ParseVersion splits a dotted version string into components.
// An empty string yields a nil Version.
func ParseVersion(s string) Version {
	if s == "" {
		return nil
	}
	return Version(strings.Split(s, "."))
}

func (v Version) String() string {
	return strings.Join(v, ".")
}

// Compare orders versions component-wise. Numeric components compare as
// integers, mixed or non-numeric components compare as strings. A shorter
// version that is a prefix of a longer one sorts first.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v) && i < len(o); i++ {
		a, b := v[i], o[i]
		if a == b {
			continue
		}
		na, errA := strconv.Atoi(a)
		nb, errB := strconv.Atoi(b)
		if errA == nil && errB == nil {
			if na < nb {
				return -1
			}
			return 1
		}
		if a < b {
			return -1
		}
		return 1
	}
	switch {
	case len(v) < len(o):
		return -1
	case len(v) > len(o):
		return 1
	}
	return 0
}

// HasPrefix reports whether p is a component-wise prefix of v, so that
// "11.2.0" has prefix "11" and "11.2" but not "11.2.1".
func (v Version) HasPrefix(p Version) bool {
	if len(p) > len(v) {
		return false
	}
	for i := range p {
		if v[i] != p[i] {
			return false
		}
	}
	return true
}

// VersionRange constrains acceptable versions. Both bounds are inclusive
// and prefix-tolerant: the range "11:13" includes 13.2 because 13.2 has
// the upper bound as a prefix. A nil bound is unbounded on that side, and
// a range with both bounds nil accepts any version.
type VersionRange struct {
	Lo Version
	Hi Version
}

// ParseVersionRange parses "11", "11:13", "11:" or ":13". A bare version
// is a prefix constraint (Lo == Hi).
func ParseVersionRange(s string) VersionRange {
	if s == "" {
		return VersionRange{}
	}
	if lo, hi, ok := strings.Cut(s, ":"); ok {
		return VersionRange{Lo: ParseVersion(lo), Hi: ParseVersion(hi)}
	}
	v := ParseVersion(s)
	return VersionRange{Lo: v, Hi: v}
}

// Any reports whether the range accepts every version.
func (r VersionRange) Any() bool {
	return r.Lo == nil && r.Hi == nil
}

// Exact reports whether the range pins a single version prefix.
func (r VersionRange) Exact() bool {
	return r.Lo != nil && r.Lo.Compare(r.Hi) == 0
}

// Includes reports whether v falls inside the range.
func (r VersionRange) Includes(v Version) bool {
	if r.Any() {
		return true
	}
	if v == nil {
		return false
	}
	if r.Lo != nil && v.Compare(r.Lo) < 0 && !v.HasPrefix(r.Lo) {
		return false
	}
	if r.Hi != nil && v.Compare(r.Hi) > 0 && !v.HasPrefix(r.Hi) {
		return false
	}
	return true
}

// Overlaps reports whether the two ranges can admit a common version.
func (r VersionRange) Overlaps(o VersionRange) bool {
	if r.Any() || o.Any() {
		return true
	}
	if r.Hi != nil && o.Lo != nil && r.Hi.Compare(o.Lo) < 0 && !o.Lo.HasPrefix(r.Hi) {
		return false
	}
	if o.Hi != nil && r.Lo != nil && o.Hi.Compare(r.Lo) < 0 && !r.Lo.HasPrefix(o.Hi) {
		return false
	}
	return true
}

func (r VersionRange) String() string {
	switch {
	case r.Any():
		return ""
	case r.Exact():
		return r.Lo.String()
	default:
		return r.Lo.String() + ":" + r.Hi.String()
	}
}
