// Package config implements the layered configuration store. A Store is
// an ordered list of scopes, highest priority first; each scope is a
// directory holding one YAML file per section ("compilers.yaml",
// "packages.yaml", ...) with the section name as the single top-level
// key. Direct queries read one scope; merged queries concatenate list
// sections and overlay map sections in precedence order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/quarry-build/quarry/internal/log"
)

// Scope is one named layer of configuration.
type Scope struct {
	Name     string
	Dir      string
	Writable bool
}

// Store reads and writes layered configuration scopes.
type Store struct {
	mu     sync.RWMutex
	scopes []Scope
	loaded map[sectionKey]any
}

type sectionKey struct {
	scope   string
	section string
}

// NewStore builds a store over the given scopes, highest priority first.
func NewStore(scopes ...Scope) (*Store, error) {
	seen := map[string]bool{}
	for _, s := range scopes {
		if s.Name == "" || s.Dir == "" {
			return nil, fmt.Errorf("config scope needs a name and a directory, got %+v", s)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("duplicate config scope %q", s.Name)
		}
		seen[s.Name] = true
	}
	return &Store{
		scopes: scopes,
		loaded: make(map[sectionKey]any),
	}, nil
}

// DefaultScopes returns the standard scope stack: user (highest), site,
// then system. All three are writable.
func DefaultScopes() ([]Scope, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	return []Scope{
		{Name: "user", Dir: filepath.Join(home, ".config", "quarry"), Writable: true},
		{Name: "site", Dir: filepath.Join("/etc", "quarry", "site"), Writable: true},
		{Name: "system", Dir: filepath.Join("/etc", "quarry"), Writable: true},
	}, nil
}

// Scopes returns all scopes, highest priority first.
func (s *Store) Scopes() []Scope {
	out := make([]Scope, len(s.scopes))
	copy(out, s.scopes)
	return out
}

// WritableScopes returns the scopes that accept mutation, highest
// priority first.
func (s *Store) WritableScopes() []Scope {
	var out []Scope
	for _, sc := range s.scopes {
		if sc.Writable {
			out = append(out, sc)
		}
	}
	return out
}

// Scope looks up a scope by name.
func (s *Store) Scope(name string) (Scope, bool) {
	for _, sc := range s.scopes {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scope{}, false
}

// FileFor returns the path of the file backing a section in a scope.
// The file may not exist yet.
func (s *Store) FileFor(scopeName, section string) string {
	sc, ok := s.Scope(scopeName)
	if !ok {
		return ""
	}
	return filepath.Join(sc.Dir, section+".yaml")
}

// Get returns the raw decoded value of a section. With a scope name it
// reads that scope only; with an empty scope name it merges all scopes:
// list sections concatenate in precedence order, map sections overlay
// with higher-priority keys winning. A missing section yields nil.
func (s *Store) Get(section, scopeName string) (any, error) {
	if scopeName != "" {
		if _, ok := s.Scope(scopeName); !ok {
			return nil, fmt.Errorf("unknown config scope %q", scopeName)
		}
		return s.sectionValue(section, scopeName)
	}

	var merged any
	for _, sc := range s.scopes {
		value, err := s.sectionValue(section, sc.Name)
		if err != nil {
			return nil, err
		}
		merged = mergeValues(merged, value)
	}
	return merged, nil
}

// Set replaces a section's value in a writable scope and persists it.
// An empty scope name targets the highest-priority writable scope.
func (s *Store) Set(section string, value any, scopeName string) error {
	var target Scope
	if scopeName == "" {
		writable := s.WritableScopes()
		if len(writable) == 0 {
			return fmt.Errorf("no writable config scope available")
		}
		target = writable[0]
	} else {
		sc, ok := s.Scope(scopeName)
		if !ok {
			return fmt.Errorf("unknown config scope %q", scopeName)
		}
		if !sc.Writable {
			return fmt.Errorf("config scope %q is not writable", scopeName)
		}
		target = sc
	}

	path := filepath.Join(target.Dir, section+".yaml")
	if err := WriteSection(path, section, value); err != nil {
		return err
	}

	s.mu.Lock()
	s.loaded[sectionKey{target.Name, section}] = value
	s.mu.Unlock()

	log.Debug(log.CatConfig, "updated config section",
		"section", section, "scope", target.Name, "file", path)
	return nil
}

// Invalidate drops the in-memory snapshots for a scope so the next read
// goes back to disk. Used by the file watcher.
func (s *Store) Invalidate(scopeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.loaded {
		if key.scope == scopeName {
			delete(s.loaded, key)
		}
	}
	log.Debug(log.CatConfig, "invalidated config scope", "scope", scopeName)
}

func (s *Store) sectionValue(section, scopeName string) (any, error) {
	key := sectionKey{scopeName, section}

	s.mu.RLock()
	value, ok := s.loaded[key]
	s.mu.RUnlock()
	if ok {
		return value, nil
	}

	sc, _ := s.Scope(scopeName)
	path := filepath.Join(sc.Dir, section+".yaml")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.mu.Lock()
			s.loaded[key] = nil
			s.mu.Unlock()
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	value = v.Get(section)

	s.mu.Lock()
	s.loaded[key] = value
	s.mu.Unlock()
	return value, nil
}

// mergeValues combines two section values read from different scopes.
// hi comes from the higher-priority scope.
func mergeValues(hi, lo any) any {
	if hi == nil {
		return lo
	}
	if lo == nil {
		return hi
	}
	switch hiVal := hi.(type) {
	case []any:
		if loVal, ok := lo.([]any); ok {
			out := make([]any, 0, len(hiVal)+len(loVal))
			out = append(out, hiVal...)
			out = append(out, loVal...)
			return out
		}
	case map[string]any:
		if loVal, ok := lo.(map[string]any); ok {
			out := make(map[string]any, len(hiVal)+len(loVal))
			for k, v := range loVal {
				out[k] = v
			}
			for k, v := range hiVal {
				out[k] = v
			}
			return out
		}
	}
	// Scalar or mismatched kinds: higher priority wins.
	return hi
}
