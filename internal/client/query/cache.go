package query

import (
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/metrics"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

type cacheEntry struct {
	version uint64
	derived Derived
}

// RowCache keeps Derived values per conversation, tagged with the store
// version they were computed from. An entry is only served for the exact
// version it was stored with, so a write to the conversation makes it stale
// without any explicit invalidation.
type RowCache struct {
	lru     *lru.Cache[uuid.UUID, cacheEntry]
	metrics *metrics.Metrics
}

// NewRowCache returns a cache bounded to size conversations.
func NewRowCache(size int, m *metrics.Metrics) (*RowCache, error) {
	c, err := lru.New[uuid.UUID, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("row cache: %w", err)
	}
	return &RowCache{lru: c, metrics: m}, nil
}

// Get returns the entry for id if it was stored at version.
func (c *RowCache) Get(id uuid.UUID, version uint64) (Derived, bool) {
	e, ok := c.lru.Get(id)
	if !ok || e.version != version {
		c.metrics.CacheMiss()
		return Derived{}, false
	}
	c.metrics.CacheHit()
	return e.derived, true
}

// Put stores d for id at version.
func (c *RowCache) Put(id uuid.UUID, version uint64, d Derived) {
	c.lru.Add(id, cacheEntry{version: version, derived: d})
}

// Remove forgets id.
func (c *RowCache) Remove(id uuid.UUID) {
	c.lru.Remove(id)
}

func (c *RowCache) Len() int {
	return c.lru.Len()
}
