package registry

import (
	"context"

	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/log"
)

// Detector discovers compiler installations on the host. Results are
// keyed by providing package name and feed the external-spec adapter.
type Detector interface {
	Detect(ctx context.Context, opts DetectOptions) (map[string][]ExternalDeclaration, error)
}

// DetectOptions controls a detection run.
type DetectOptions struct {
	// PathHints are directories to scan. Empty means the PATH
	// environment variable.
	PathHints []string
	// MaxWorkers bounds probe concurrency. Zero picks a default.
	MaxWorkers int
}

// FindOptions controls DetectCompilers.
type FindOptions struct {
	PathHints []string
	// Scope receives the newly found compilers. Empty means the
	// highest-priority writable scope.
	Scope string
	// MixedToolchain borrows the best detected gfortran into clang
	// toolchains that lack a Fortran compiler.
	MixedToolchain bool
	MaxWorkers     int
}

// DetectCompilers runs the detector, adapts the results into compiler
// entries, keeps the ones not already configured and appends them to
// the target scope. Returns the newly added compilers.
func (r *Registry) DetectCompilers(ctx context.Context, opts FindOptions) ([]*Compiler, error) {
	if r.detector == nil {
		return nil, nil
	}

	existing, err := r.AllCompilers("", false)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, c := range existing {
		known[c.equalityKey()] = true
	}

	detected, err := r.detector.Detect(ctx, DetectOptions{
		PathHints:  opts.PathHints,
		MaxWorkers: opts.MaxWorkers,
	})
	if err != nil {
		return nil, err
	}

	if opts.MixedToolchain {
		fillFortranGaps(detected)
	}

	entries := r.entriesFromDeclarations(detected, "toolchain detection")
	candidates, err := r.resolveEntries(entries)
	if err != nil {
		return nil, err
	}

	var fresh []*Compiler
	for _, c := range candidates {
		if known[c.equalityKey()] {
			continue
		}
		known[c.equalityKey()] = true
		fresh = append(fresh, c)
	}

	log.Info(log.CatDetect, "detection finished",
		"detected", len(candidates), "new", len(fresh))

	if err := r.Add(fresh, opts.Scope); err != nil {
		return nil, err
	}
	return fresh, nil
}

// fillFortranGaps borrows the Fortran compiler of the newest detected
// gcc into clang-based declarations that have none, so mixed gcc/clang
// toolchains come out usable for Fortran.
func fillFortranGaps(detected map[string][]ExternalDeclaration) {
	var best *ExternalDeclaration
	var bestVersion cspec.Version
	for i := range detected["gcc"] {
		decl := &detected["gcc"][i]
		if decl.ExtraAttributes.Compilers["fortran"] == "" {
			continue
		}
		spec, err := cspec.Parse(decl.Spec)
		if err != nil {
			continue
		}
		if best == nil || spec.Version().Compare(bestVersion) > 0 {
			best = decl
			bestVersion = spec.Version()
		}
	}
	if best == nil {
		return
	}
	gfortran := best.ExtraAttributes.Compilers["fortran"]

	for _, pkg := range []string{"llvm", "apple-clang"} {
		for i := range detected[pkg] {
			decl := &detected[pkg][i]
			if decl.ExtraAttributes.Compilers["fortran"] != "" {
				continue
			}
			if decl.ExtraAttributes.Compilers == nil {
				decl.ExtraAttributes.Compilers = map[string]string{}
			}
			decl.ExtraAttributes.Compilers["fortran"] = gfortran
			log.Debug(log.CatDetect, "borrowed gfortran for mixed toolchain",
				"spec", decl.Spec, "fortran", gfortran)
		}
	}
}
