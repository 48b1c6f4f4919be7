// Package cache provides memoization for parse and compile results.
// The editor reparses on every keystroke, so repeated submissions of
// unchanged source should cost a hash, not a parse.
package cache

import (
	"crypto/sha256"
	"sync"

	"github.com/baleybots/go-bal/bal"
	"github.com/baleybots/go-bal/visual"
)

// key hashes BAL source deterministically.
func key(source string) [sha256.Size]byte {
	return sha256.Sum256([]byte(source))
}

// ResultCache caches parse results keyed by a hash of the source.
type ResultCache struct {
	mu        sync.Mutex
	cache     map[[sha256.Size]byte]*bal.Result
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewResultCache creates a cache with the specified maximum size.
// When the cache is full, an arbitrary entry is evicted.
// Set maxSize to 0 for an unlimited cache.
func NewResultCache(maxSize int) *ResultCache {
	return &ResultCache{
		cache:   make(map[[sha256.Size]byte]*bal.Result),
		maxSize: maxSize,
	}
}

// Get retrieves a cached result for the given source.
// Returns nil if not found.
func (c *ResultCache) Get(source string) *bal.Result {
	k := key(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if res, ok := c.cache[k]; ok {
		c.hits++
		return res
	}
	c.misses++
	return nil
}

// Put stores a parse result in the cache.
func (c *ResultCache) Put(source string, res *bal.Result) {
	k := key(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict if necessary (remove first key found)
	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for old := range c.cache {
			delete(c.cache, old)
			c.evictions++
			break
		}
	}

	c.cache[k] = res
}

// GetOrParse retrieves from cache or parses and caches the result.
// Results are never mutated after construction, so sharing the pointer
// across callers is safe.
func (c *ResultCache) GetOrParse(source string) *bal.Result {
	if res := c.Get(source); res != nil {
		return res
	}

	res := bal.Parse(source)
	c.Put(source, res)
	return res
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[[sha256.Size]byte]*bal.Result)
}

// Size returns the current number of cached entries.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats returns cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns cache statistics.
func (c *ResultCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// GraphCache caches visual compilations keyed by a hash of the source.
// Compilation includes layout, so it is cached separately from the
// cheaper parse results.
type GraphCache struct {
	mu      sync.Mutex
	cache   map[[sha256.Size]byte]*visual.Compilation
	maxSize int
	hits    int64
	misses  int64
	opts    []visual.Option
}

// NewGraphCache creates a graph cache. The given compiler options apply
// to every compilation the cache performs.
func NewGraphCache(maxSize int, opts ...visual.Option) *GraphCache {
	return &GraphCache{
		cache:   make(map[[sha256.Size]byte]*visual.Compilation),
		maxSize: maxSize,
		opts:    opts,
	}
}

// Get retrieves a cached compilation.
// Returns nil if not found.
func (c *GraphCache) Get(source string) *visual.Compilation {
	k := key(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if comp, ok := c.cache[k]; ok {
		c.hits++
		return comp
	}
	c.misses++
	return nil
}

// Put stores a compilation.
func (c *GraphCache) Put(source string, comp *visual.Compilation) {
	k := key(source)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for old := range c.cache {
			delete(c.cache, old)
			break
		}
	}

	c.cache[k] = comp
}

// GetOrCompile retrieves from cache or compiles and caches.
func (c *GraphCache) GetOrCompile(source string) *visual.Compilation {
	if comp := c.Get(source); comp != nil {
		return comp
	}

	comp := visual.Compile(source, c.opts...)
	c.Put(source, comp)
	return comp
}

// Size returns current cache size.
func (c *GraphCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Clear removes all entries.
func (c *GraphCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[[sha256.Size]byte]*visual.Compilation)
}

// HitRate returns the cache hit rate.
func (c *GraphCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}
