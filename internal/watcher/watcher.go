// Package watcher provides file system watching with debouncing for
// configuration scope directories.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors directories for YAML config edits and reports the
// changed paths after a debounce window.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dirs      []string
	debounce  time.Duration
	onChange  chan string
	done      chan struct{}
	closeOnce sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Dirs        []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(dirs ...string) Config {
	return Config{
		Dirs:        dirs,
		DebounceDur: 1 * time.Second,
	}
}

// New creates a new config directory watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dirs:      cfg.Dirs,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan string, 8),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the configured directories. Returns a channel
// that receives the path of each changed config file. Directories that
// do not exist are skipped; at least one must be watchable.
func (w *Watcher) Start() (<-chan string, error) {
	watched := 0
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			continue
		}
		watched++
	}
	if watched == 0 {
		return nil, fmt.Errorf("none of the %d config directories could be watched", len(w.dirs))
	}

	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing. Changed paths are
// accumulated while the timer is pending and flushed together when it
// fires.
func (w *Watcher) loop() {
	var timer *time.Timer
	pending := map[string]struct{}{}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			for path := range pending {
				select {
				case w.onChange <- path:
				default:
					// Channel full - drop rather than block.
				}
				delete(pending, path)
			}

		case _, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Keep watching; callers wrap the watcher if they need
			// error visibility.

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a notification.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	// Atomic config writes land via temp-file rename; ignore the temps.
	if strings.HasPrefix(base, ".") {
		return false
	}
	return strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml")
}
