package search

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// resultCache is a bounded LRU over complete result lists. Each key embeds
// a generation counter; bumping the generation on index rebuild or new
// ingestion orphans every older entry, which the LRU then evicts naturally.
type resultCache struct {
	lru        *lru.Cache[string, []Result]
	generation atomic.Uint64
}

func newResultCache(size int) (*resultCache, error) {
	c, err := lru.New[string, []Result](size)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	return &resultCache{lru: c}, nil
}

// key builds a deterministic cache key from the normalized query and every
// option that changes the result set.
func (c *resultCache) key(query string, opts Options, limit int) string {
	types := append([]string(nil), opts.DocumentTypes...)
	sort.Strings(types)

	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s|%v|%d|%s",
		c.generation.Load(),
		strings.ToLowerSpecial(unicode.TurkishCase, strings.TrimSpace(query)),
		opts.Modality,
		opts.IncludeRepealed,
		limit,
		strings.Join(types, ","))
	return fmt.Sprintf("%016x", h.Sum64())
}

// get returns a copy of the cached results so callers can't mutate the
// cached slice.
func (c *resultCache) get(key string) ([]Result, bool) {
	cached, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	results := make([]Result, len(cached))
	copy(results, cached)
	return results, true
}

func (c *resultCache) put(key string, results []Result) {
	stored := make([]Result, len(results))
	copy(stored, results)
	c.lru.Add(key, stored)
}

// invalidateAll orphans every entry by advancing the generation.
func (c *resultCache) invalidateAll() {
	c.generation.Add(1)
}

func (c *resultCache) len() int {
	return c.lru.Len()
}
