package lang

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// maxCacheEntries bounds the number of parse results retained by a Cache.
const maxCacheEntries = 4096

// Cache memoizes parse results. A line always parses to the same tree given
// the same function arities, and trees are never modified after parsing, so
// one Cache may be shared by any number of sessions and goroutines.
type Cache struct {
	entries sync.Map // uint64 → *cacheEntry
	size    atomic.Int64
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheEntry struct {
	node  Node
	src   string
	arity string
}

// NewCache returns an empty Cache.
func NewCache() *Cache { return new(Cache) }

// Parse returns the tree of src parsed with sigs, parsing only when no
// earlier call saw the same text and arities. Parse errors are not cached.
func (c *Cache) Parse(src string, sigs Signatures) (Node, error) {
	arity := sigs.arityKey()
	key := xxh3.HashString(src + "\x00" + arity)

	if v, ok := c.entries.Load(key); ok {
		if e := v.(*cacheEntry); e.src == src && e.arity == arity {
			c.hits.Add(1)

			return e.node, nil
		}
	}

	c.misses.Add(1)

	node, err := Parse(src, sigs)
	if err != nil {
		return nil, err
	}

	if c.size.Load() < maxCacheEntries {
		if _, loaded := c.entries.LoadOrStore(key, &cacheEntry{
			node:  node,
			src:   src,
			arity: arity,
		}); !loaded {
			c.size.Add(1)
		}
	}

	return node, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// arityKey encodes the names and parameter counts of s, the only parts of
// a signature that affect parsing.
func (s Signatures) arityKey() string {
	var b strings.Builder

	for _, name := range s.Names() {
		b.WriteString(name)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(len(s[name])))
		b.WriteByte(' ')
	}

	return b.String()
}
