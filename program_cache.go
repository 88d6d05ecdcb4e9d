package versioned

import lru "github.com/hashicorp/golang-lru/v2"

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *sessionConfig) {
		cfg.programCache = cache
	}
}

// LRUProgramCache is a bounded ProgramCache evicting the least recently used
// program.
type LRUProgramCache struct {
	cache *lru.Cache[string, any]
}

// NewLRUProgramCache constructs a cache holding at most size programs.
func NewLRUProgramCache(size int) (*LRUProgramCache, error) {
	cache, err := lru.New[string, any](size)
	if err != nil {
		return nil, err
	}
	return &LRUProgramCache{cache: cache}, nil
}

// Get implements ProgramCache.
func (c *LRUProgramCache) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// Set implements ProgramCache.
func (c *LRUProgramCache) Set(key string, value any) {
	c.cache.Add(key, value)
}

// Len returns the number of cached programs.
func (c *LRUProgramCache) Len() int {
	return c.cache.Len()
}
