package config

import (
	"path/filepath"

	"github.com/quarry-build/quarry/internal/log"
	"github.com/quarry-build/quarry/internal/watcher"
)

// Watch starts a file watcher over every scope directory and invalidates
// a scope's in-memory snapshots when one of its files changes. Returns a
// stop function. Watching is best-effort: scopes whose directories do
// not exist yet are simply not watched.
func (s *Store) Watch() (func(), error) {
	dirs := make([]string, 0, len(s.scopes))
	byDir := make(map[string]string, len(s.scopes))
	for _, sc := range s.scopes {
		dirs = append(dirs, sc.Dir)
		byDir[filepath.Clean(sc.Dir)] = sc.Name
	}

	w, err := watcher.New(watcher.DefaultConfig(dirs...))
	if err != nil {
		return nil, err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return nil, err
	}

	go func() {
		for path := range changes {
			scope, ok := byDir[filepath.Clean(filepath.Dir(path))]
			if !ok {
				continue
			}
			log.Debug(log.CatWatcher, "config file changed", "path", path, "scope", scope)
			s.Invalidate(scope)
		}
	}()

	return func() { _ = w.Stop() }, nil
}
