package registry

import (
	"errors"
	"strconv"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quarry-build/quarry/internal/log"
)

// identityCache memoizes entry resolution per raw-entry handle so each
// record is decoded and validated once per registry lifetime. Failures
// are memoized too: unknown families cache a nil resolution (the
// warning fires only on the first encounter) and invalid configurations
// cache their error, which propagates to every caller.
type identityCache struct {
	mu    sync.Mutex
	store *gocache.Cache
}

type cachedResolution struct {
	compiler *Compiler
	err      error
}

func newIdentityCache() *identityCache {
	return &identityCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// resolve returns the compiler for an entry, or (nil, nil) for entries
// previously dismissed as unknown-family.
func (c *identityCache) resolve(e *RawEntry) (*Compiler, error) {
	key := strconv.FormatUint(e.handle, 10)

	c.mu.Lock()
	defer c.mu.Unlock()

	if hit, ok := c.store.Get(key); ok {
		res := hit.(cachedResolution)
		return res.compiler, res.err
	}

	compiler, err := compilerFromEntry(e)
	if err != nil {
		var unknown *UnknownCompilerFamilyError
		if errors.As(err, &unknown) {
			log.Warn(log.CatCache, "skipping entry with unsupported compiler family",
				"family", unknown.Name, "spec", e.SpecString(), "source", e.source)
			c.store.Set(key, cachedResolution{}, gocache.NoExpiration)
			return nil, nil
		}
		c.store.Set(key, cachedResolution{err: err}, gocache.NoExpiration)
		return nil, err
	}

	c.store.Set(key, cachedResolution{compiler: compiler}, gocache.NoExpiration)
	return compiler, nil
}

// reset drops every memoized resolution.
func (c *identityCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
}
