package registry

import (
	"context"
	"strconv"

	"github.com/quarry-build/quarry/internal/log"
)

const (
	compilersSection = "compilers"
	packagesSection  = "packages"
)

// AllEntries returns the deduplicated compiler entries visible from one
// scope, or from all scopes merged when scope is empty. Entries adapted
// from external package declarations come after entries declared in the
// compilers section. When initConfig is set and no entry exists
// anywhere, the registry's detector (if any) is run once to seed the
// configuration.
func (r *Registry) AllEntries(scope string, initConfig bool) ([]*RawEntry, error) {
	fromPackages, err := r.packagesEntries(scope)
	if err != nil {
		return nil, err
	}
	// External declarations already prove the config is not empty, so
	// detection must not run.
	if len(fromPackages) > 0 {
		initConfig = false
	}

	fromCompilers, err := r.compilersEntries(scope, initConfig)
	if err != nil {
		return nil, err
	}

	combined := make([]*RawEntry, 0, len(fromCompilers)+len(fromPackages))
	combined = append(combined, fromCompilers...)
	combined = append(combined, fromPackages...)
	return r.dedupe(combined)
}

// compilersEntries reads the compilers section of one scope (or merged).
// An empty result with initConfig set triggers detection, but only when
// every other scope is empty too.
func (r *Registry) compilersEntries(scope string, initConfig bool) ([]*RawEntry, error) {
	entries, err := r.readSection(compilersSection, scope)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 || !initConfig || r.detector == nil {
		return entries, nil
	}

	if scope != "" {
		merged, err := r.readSection(compilersSection, "")
		if err != nil {
			return nil, err
		}
		if len(merged) > 0 {
			return entries, nil
		}
	}

	log.Info(log.CatRegistry, "no compilers configured, running detection", "scope", scope)
	if _, err := r.DetectCompilers(context.Background(), FindOptions{Scope: scope}); err != nil {
		return nil, err
	}
	return r.readSection(compilersSection, scope)
}

// packagesEntries adapts the packages section of one scope (or merged)
// into compiler entries.
func (r *Registry) packagesEntries(scope string) ([]*RawEntry, error) {
	if scope == "" {
		var all []*RawEntry
		for _, sc := range r.store.Scopes() {
			entries, err := r.packagesEntries(sc.Name)
			if err != nil {
				return nil, err
			}
			all = append(all, entries...)
		}
		return all, nil
	}

	key := listKey{section: packagesSection, scope: scope}
	r.mu.Lock()
	cached, ok := r.entryLists[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	section, err := r.store.Get(packagesSection, scope)
	if err != nil {
		return nil, err
	}
	entries := r.entriesFromDeclarations(
		declarationsFromPackages(section), r.store.FileFor(scope, packagesSection))

	r.mu.Lock()
	r.entryLists[key] = entries
	r.mu.Unlock()
	return entries, nil
}

// readSection reads the compilers section of one scope, wrapping each
// record in a RawEntry with a stable handle. Merged reads walk the
// scopes individually so every entry keeps its per-file source.
func (r *Registry) readSection(section, scope string) ([]*RawEntry, error) {
	if scope == "" {
		var all []*RawEntry
		for _, sc := range r.store.Scopes() {
			entries, err := r.readSection(section, sc.Name)
			if err != nil {
				return nil, err
			}
			all = append(all, entries...)
		}
		return all, nil
	}

	key := listKey{section: section, scope: scope}
	r.mu.Lock()
	cached, ok := r.entryLists[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	value, err := r.store.Get(section, scope)
	if err != nil {
		return nil, err
	}
	source := r.store.FileFor(scope, section)

	var entries []*RawEntry
	if list, ok := value.([]any); ok {
		for _, item := range list {
			record, ok := normalizeMap(item)
			if !ok {
				continue
			}
			inner, ok := normalizeMap(record["compiler"])
			if !ok {
				log.Warn(log.CatRegistry, "skipping malformed compilers record",
					"source", source)
				continue
			}
			entries = append(entries, r.newEntry(inner, source, false))
		}
	}

	r.mu.Lock()
	r.entryLists[key] = entries
	r.mu.Unlock()
	return entries, nil
}

// dedupe drops entries that resolve to a compiler already seen. Entries
// dismissed by the cache (unknown family) are unique by handle so they
// survive to be skipped later without masking each other.
func (r *Registry) dedupe(entries []*RawEntry) ([]*RawEntry, error) {
	seen := map[string]bool{}
	out := make([]*RawEntry, 0, len(entries))
	for _, e := range entries {
		compiler, err := r.cache.resolve(e)
		if err != nil {
			return nil, err
		}
		var key string
		if compiler == nil {
			key = "entry:" + strconv.FormatUint(e.handle, 10)
		} else {
			key = compiler.equalityKey()
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out, nil
}
