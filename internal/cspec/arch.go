package cspec

// TargetAny is the wildcard target: an entry declaring it matches every
// concrete target.
const TargetAny = "any"

// ArchSpec pairs an operating system with a target microarchitecture or
// architecture family. Either field may be empty, meaning unconstrained.
type ArchSpec struct {
	OS     string
	Target string
}

func (a ArchSpec) String() string {
	switch {
	case a.OS == "" && a.Target == "":
		return "any"
	case a.Target == "":
		return a.OS
	case a.OS == "":
		return a.Target
	default:
		return a.OS + "-" + a.Target
	}
}
