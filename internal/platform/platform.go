// Package platform resolves host platform identity, the default
// operating system and target, and target microarchitecture families.
package platform

import "runtime"

// Info answers the platform questions the registry needs: what the host
// looks like and which architecture family a target belongs to.
type Info interface {
	// Name identifies the platform, e.g. "linux", "darwin", "windows".
	Name() string
	// DefaultOS is the operating system assumed for entries that carry
	// no architecture information.
	DefaultOS() string
	// DefaultTarget is the architecture family assumed for entries that
	// carry no architecture information.
	DefaultTarget() string
	// FamilyFor resolves a target microarchitecture to its family name.
	FamilyFor(target string) (string, bool)
}

// Host is the Info implementation for the machine the process runs on.
type Host struct {
	name          string
	defaultOS     string
	defaultTarget string
}

// NewHost builds a Host from the runtime's OS and architecture.
func NewHost() *Host {
	return &Host{
		name:          runtime.GOOS,
		defaultOS:     runtime.GOOS,
		defaultTarget: goarchFamily(runtime.GOARCH),
	}
}

// NewFixed builds an Info with explicit values, primarily for tests and
// for cross-platform queries.
func NewFixed(name, defaultOS, defaultTarget string) *Host {
	return &Host{name: name, defaultOS: defaultOS, defaultTarget: defaultTarget}
}

func (h *Host) Name() string          { return h.name }
func (h *Host) DefaultOS() string     { return h.defaultOS }
func (h *Host) DefaultTarget() string { return h.defaultTarget }

func (h *Host) FamilyFor(target string) (string, bool) {
	return FamilyFor(target)
}

// goarchFamily translates Go's GOARCH naming into architecture family
// names.
func goarchFamily(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "ppc64le":
		return "ppc64le"
	case "ppc64":
		return "ppc64"
	case "riscv64":
		return "riscv64"
	default:
		return goarch
	}
}
