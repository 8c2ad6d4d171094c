package compiler

import (
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vango-dev/vdirective/pkg/directive"
	"github.com/vango-dev/vdirective/pkg/vdom"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 256

type cacheKey struct {
	src     string
	reg     *directive.Registry
	version uint64
	policy  Policy
	target  Target
}

// Cache memoizes compiled trees. Entries are keyed by source, registry
// scope and registry version, so registering a new directive makes older
// entries unreachable rather than stale. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[cacheKey, *vdom.VNode]
}

// NewCache creates a cache holding up to size compiled templates.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[cacheKey, *vdom.VNode](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Compile returns the cached tree for src or compiles and stores it.
// Failed compilations are not cached.
func (c *Cache) Compile(src string, reg *directive.Registry, opts ...Option) (*vdom.VNode, error) {
	o := buildOptions(opts)
	key := cacheKey{src: src, reg: reg, policy: o.policy, target: o.target}
	if reg != nil {
		key.version = reg.Version()
	}
	if node, ok := c.entries.Get(key); ok {
		return node, nil
	}
	node, err := CompileString(src, reg, opts...)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, node)
	o.logger.Debug("compiled template", slog.Int("bytes", len(src)), slog.String("target", o.target.String()))
	return node, nil
}

// Purge drops every entry.
func (c *Cache) Purge() { c.entries.Purge() }

// Len returns the number of cached trees.
func (c *Cache) Len() int { return c.entries.Len() }
