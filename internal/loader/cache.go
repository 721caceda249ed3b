package loader

import (
	"container/list"
	"context"
	"slices"
	"sync"

	"github.com/idp-analytics/identity-reports/internal/core/report"
)

// CachingFetcher keeps the most recently used fragments in memory. Entries never expire;
// only successful fetches are cached.
type CachingFetcher struct {
	next Fetcher

	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	path string
	data []byte
}

// NewCachingFetcher wraps next with an LRU of the given capacity, keyed by fragment path.
func NewCachingFetcher(next Fetcher, capacity int) *CachingFetcher {
	return &CachingFetcher{
		next:     next,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *CachingFetcher) Fetch(ctx context.Context, key report.Key) ([]byte, error) {
	if data, ok := c.get(key); ok {
		return data, nil
	}

	data, err := c.next.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	c.put(key, data)
	return slices.Clone(data), nil
}

// Len is the number of cached fragments.
func (c *CachingFetcher) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *CachingFetcher) get(key report.Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key.Path()]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return slices.Clone(elem.Value.(*cacheEntry).data), true
}

func (c *CachingFetcher) put(key report.Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key.Path()]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).data = slices.Clone(data)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).path)
			c.order.Remove(oldest)
		}
	}

	c.entries[key.Path()] = c.order.PushFront(&cacheEntry{path: key.Path(), data: slices.Clone(data)})
}
