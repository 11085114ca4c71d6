package noaa

import (
	"context"
	"sync"
	"time"

	"github.com/disasterscience/nexrad/internal/observability"
)

// CachedArchiveSource wraps an ArchiveSource with an in-memory LRU cache over
// downloads. Archive objects are immutable once written, so entries never
// expire; they only fall out by size. Listings are never cached because new
// objects appear continuously.
type CachedArchiveSource struct {
	inner   ArchiveSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedArchiveSource creates a cache decorator around a source, holding
// at most maxEntries downloaded archives.
func NewCachedArchiveSource(inner ArchiveSource, maxEntries int, metrics *observability.Metrics) *CachedArchiveSource {
	return &CachedArchiveSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedArchiveSource) List(ctx context.Context, site string, day time.Time) ([]string, error) {
	return c.inner.List(ctx, site, day)
}

func (c *CachedArchiveSource) Download(ctx context.Context, key string) ([]byte, error) {
	if data, ok := c.cache.get(key); ok {
		c.metrics.ArchiveCache.WithLabelValues("hit").Inc()
		return data, nil
	}
	c.metrics.ArchiveCache.WithLabelValues("miss").Inc()

	data, err := c.inner.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	c.cache.put(key, data)
	return data, nil
}

// lruCache is a simple thread-safe LRU cache for downloaded archives.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []byte
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
