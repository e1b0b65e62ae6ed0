package query

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/nlstn/go-contactql/internal/metadata"
)

// Cache is a bounded cache of parsed queries. Dynamic group queries are
// re-parsed constantly with identical text, so even a small cache removes
// almost all tokenizer/parser work from the hot membership path.
//
// Keys are xxhash digests of the query text plus the org settings that
// influence parsing: anonymity changes how bare numeric terms materialize,
// so the same text can parse to different trees for different orgs.
//
// Eviction strategy: when the cache reaches its capacity limit the entire
// map is replaced. This is simpler than a true LRU and sufficient for the
// target use-case (a small number of distinct group queries repeated many
// times).
//
// Thread safety: all methods are safe for concurrent use. Cached trees are
// immutable and may be shared freely across goroutines.
type Cache struct {
	mu    sync.RWMutex
	items map[uint64]*ParsedQuery
	max   int
}

// DefaultCacheSize is the capacity used when no explicit size is configured.
const DefaultCacheSize = 256

// NewCache creates a cache holding up to max parsed queries. A max of zero
// or less disables caching entirely.
func NewCache(max int) *Cache {
	return &Cache{
		items: make(map[uint64]*ParsedQuery, max),
		max:   max,
	}
}

// cacheKey hashes the query text together with the parse-relevant org
// settings. A NUL byte separates the two so distinct inputs cannot collide
// by concatenation.
func cacheKey(org metadata.Org, text string) uint64 {
	h := xxhash.New()
	if org.IsAnon() {
		_, _ = h.WriteString("anon")
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(text)
	return h.Sum64()
}

// Get returns the cached parse of text for an org with these settings, or
// nil on a miss.
func (c *Cache) Get(org metadata.Org, text string) *ParsedQuery {
	if c == nil || c.max <= 0 {
		return nil
	}
	key := cacheKey(org, text)

	c.mu.RLock()
	q := c.items[key]
	c.mu.RUnlock()
	return q
}

// Put stores a parsed query. The caller must not mutate the tree afterwards.
func (c *Cache) Put(org metadata.Org, text string, q *ParsedQuery) {
	if c == nil || c.max <= 0 {
		return
	}
	key := cacheKey(org, text)

	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking individual entry ages.
		c.items = make(map[uint64]*ParsedQuery, c.max)
	}
	c.items[key] = q
	c.mu.Unlock()
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
