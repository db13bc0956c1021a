// Package registry resolves compiler entries from the layered
// configuration scopes. It merges the compilers section with externally
// declared packages, memoizes entry resolution, matches entries against
// architecture queries and classifies mixed vendor toolchains.
package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/quarry-build/quarry/internal/config"
	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/families"
	"github.com/quarry-build/quarry/internal/log"
	"github.com/quarry-build/quarry/internal/platform"
)

// Registry is the facade over the configuration store for everything
// compiler related.
type Registry struct {
	store    *config.Store
	platform platform.Info
	detector Detector
	cache    *identityCache
	entrySeq atomic.Uint64

	mu         sync.Mutex
	entryLists map[listKey][]*RawEntry
}

type listKey struct {
	section string
	scope   string
}

// Option configures a Registry.
type Option func(*Registry)

// WithPlatform overrides the host platform, mainly for tests and
// cross-platform queries.
func WithPlatform(p platform.Info) Option {
	return func(r *Registry) { r.platform = p }
}

// WithDetector installs a toolchain detector used to seed an empty
// configuration and to back DetectCompilers. Without one, empty
// configurations stay empty.
func WithDetector(d Detector) Option {
	return func(r *Registry) { r.detector = d }
}

// New builds a registry over a configuration store.
func New(store *config.Store, opts ...Option) *Registry {
	r := &Registry{
		store:      store,
		platform:   platform.NewHost(),
		cache:      newIdentityCache(),
		entryLists: make(map[listKey][]*RawEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// newEntry wraps a raw record with a fresh handle. Handles are what the
// identity cache keys on, so records read twice resolve once only when
// the same RawEntry is reused.
func (r *Registry) newEntry(data map[string]any, source string, external bool) *RawEntry {
	return &RawEntry{
		handle:   r.entrySeq.Add(1),
		data:     data,
		source:   source,
		external: external,
	}
}

// AllCompilers resolves every entry visible from a scope (all scopes
// when empty). Entries with unsupported families are skipped.
func (r *Registry) AllCompilers(scope string, initConfig bool) ([]*Compiler, error) {
	entries, err := r.AllEntries(scope, initConfig)
	if err != nil {
		return nil, err
	}
	return r.resolveEntries(entries)
}

// CompilersFor returns the compilers satisfying a spec constraint and an
// optional architecture query. An empty spec name matches every family;
// a nil arch matches every architecture.
func (r *Registry) CompilersFor(spec cspec.Spec, arch *cspec.ArchSpec, scope string, initConfig bool) ([]*Compiler, error) {
	entries, err := r.AllEntries(scope, initConfig)
	if err != nil {
		return nil, err
	}

	var out []*Compiler
	for _, e := range entries {
		compiler, err := r.cache.resolve(e)
		if err != nil {
			return nil, err
		}
		if compiler == nil {
			continue
		}
		if !compiler.Spec.Satisfies(spec) {
			continue
		}
		ok, err := entryMatchesArch(e, arch, r.platform)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, compiler)
	}
	return out, nil
}

// CompilerFor returns the single compiler for a concrete spec and
// architecture. Multiple matches are tolerated: the first one wins and
// the ambiguity is logged.
func (r *Registry) CompilerFor(spec cspec.Spec, arch *cspec.ArchSpec) (*Compiler, error) {
	if !spec.Concrete() {
		return nil, fmt.Errorf("compiler spec %s must be concrete", spec)
	}
	matches, err := r.CompilersFor(spec, arch, "", true)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		var os string
		if arch != nil {
			os = arch.OS
		}
		return nil, &NoCompilerForSpecError{Spec: spec, OS: os}
	}
	if len(matches) > 1 {
		archStr := "any"
		if arch != nil {
			archStr = arch.String()
		}
		log.Debug(log.CatRegistry, "multiple compilers match, using the first",
			"spec", spec.String(), "arch", archStr, "matches", len(matches))
	}
	return matches[0], nil
}

// Find returns the compilers matching a spec constraint across every
// architecture.
func (r *Registry) Find(spec cspec.Spec, scope string) ([]*Compiler, error) {
	return r.CompilersFor(spec, nil, scope, true)
}

// FindByArch returns the compilers configured for one architecture. It
// never triggers detection.
func (r *Registry) FindByArch(arch cspec.ArchSpec, scope string) ([]*Compiler, error) {
	return r.CompilersFor(cspec.Spec{}, &arch, scope, false)
}

// Add appends compilers to a writable scope's compilers section. An
// empty scope targets the highest-priority writable scope. Records
// already visible are appended anyway; merged reads deduplicate.
func (r *Registry) Add(compilers []*Compiler, scope string) error {
	if len(compilers) == 0 {
		return nil
	}

	value, err := r.store.Get(compilersSection, scope)
	if err != nil {
		return err
	}
	list, _ := value.([]any)

	for _, c := range compilers {
		for _, role := range families.Roles {
			if c.Path(role) == "" {
				log.Debug(log.CatRegistry, "compiler is missing a tool",
					"spec", c.Spec.String(), "role", string(role))
			}
		}
		list = append(list, map[string]any{"compiler": c.ToRecord()})
	}

	if err := r.store.Set(compilersSection, list, scope); err != nil {
		return err
	}
	r.invalidateLists()
	return nil
}

// Remove deletes the configured compilers satisfying a spec from one
// writable scope, or from every writable scope when scope is empty.
// Returns whether anything was removed. Compilers adapted from external
// package declarations are not touched.
func (r *Registry) Remove(spec cspec.Spec, scope string) (bool, error) {
	var scopes []string
	if scope == "" {
		for _, sc := range r.store.WritableScopes() {
			scopes = append(scopes, sc.Name)
		}
	} else {
		scopes = []string{scope}
	}

	removed := false
	for _, name := range scopes {
		ok, err := r.removeFromScope(spec, name)
		if err != nil {
			return removed, err
		}
		removed = removed || ok
	}
	if removed {
		r.invalidateLists()
		log.Debug(log.CatRegistry, "removed compilers from configuration",
			"spec", spec.String(), "note", "externally declared compilers are unaffected")
	}
	return removed, nil
}

func (r *Registry) removeFromScope(spec cspec.Spec, scope string) (bool, error) {
	value, err := r.store.Get(compilersSection, scope)
	if err != nil {
		return false, err
	}
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return false, nil
	}

	kept := make([]any, 0, len(list))
	for _, item := range list {
		record, ok := normalizeMap(item)
		if !ok {
			kept = append(kept, item)
			continue
		}
		inner, ok := normalizeMap(record["compiler"])
		if !ok {
			kept = append(kept, item)
			continue
		}
		entrySpec, err := cspec.Parse(stringField(inner, "spec"))
		if err != nil || !entrySpec.Satisfies(spec) {
			kept = append(kept, item)
		}
	}

	if len(kept) == len(list) {
		return false, nil
	}
	if err := r.store.Set(compilersSection, kept, scope); err != nil {
		return false, err
	}
	return true, nil
}

// Duplicates reports the compilers matching a spec and architecture per
// config file, for diagnosing entries defined in more than one scope.
func (r *Registry) Duplicates(spec cspec.Spec, arch *cspec.ArchSpec) (map[string][]*Compiler, error) {
	out := map[string][]*Compiler{}
	for _, sc := range r.store.Scopes() {
		compilers, err := r.CompilersFor(spec, arch, sc.Name, false)
		if err != nil {
			return nil, err
		}
		if len(compilers) > 0 {
			out[r.store.FileFor(sc.Name, compilersSection)] = compilers
		}
	}
	return out, nil
}

// ConfigFiles lists every config file currently contributing compiler
// entries, compilers sections first within each scope.
func (r *Registry) ConfigFiles() ([]string, error) {
	var files []string
	for _, sc := range r.store.Scopes() {
		entries, err := r.readSection(compilersSection, sc.Name)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			files = append(files, r.store.FileFor(sc.Name, compilersSection))
		}
		external, err := r.packagesEntries(sc.Name)
		if err != nil {
			return nil, err
		}
		if len(external) > 0 {
			files = append(files, r.store.FileFor(sc.Name, packagesSection))
		}
	}
	return files, nil
}

// SelectNew filters candidates down to the ones not already configured
// for their spec and architecture.
func (r *Registry) SelectNew(candidates []*Compiler, scope string) ([]*Compiler, error) {
	var fresh []*Compiler
	for _, c := range candidates {
		arch := cspec.ArchSpec{OS: c.OperatingSystem, Target: c.Target}
		same, err := r.CompilersFor(c.Spec, &arch, scope, false)
		if err != nil {
			return nil, err
		}
		if len(same) == 0 {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}

// ResetCache drops every memoized resolution and entry list and forces
// the store back to disk on the next read.
func (r *Registry) ResetCache() {
	r.cache.reset()
	r.invalidateLists()
	for _, sc := range r.store.Scopes() {
		r.store.Invalidate(sc.Name)
	}
}

// SupportedFamilyNames returns the compiler families usable on the
// registry's platform, sorted.
func (r *Registry) SupportedFamilyNames() []string {
	return families.NamesForPlatform(r.platform.Name())
}

func (r *Registry) resolveEntries(entries []*RawEntry) ([]*Compiler, error) {
	out := make([]*Compiler, 0, len(entries))
	for _, e := range entries {
		compiler, err := r.cache.resolve(e)
		if err != nil {
			return nil, err
		}
		if compiler != nil {
			out = append(out, compiler)
		}
	}
	return out, nil
}

func (r *Registry) invalidateLists() {
	r.mu.Lock()
	r.entryLists = make(map[listKey][]*RawEntry)
	r.mu.Unlock()
}
