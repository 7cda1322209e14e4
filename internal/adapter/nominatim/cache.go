package nominatim

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ryanCYJ/crash-data-etl/internal/domain"
	"github.com/ryanCYJ/crash-data-etl/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by the
// original, unstripped location string. Failed lookups are cached too, so a
// failing location is never retried within a run; inner errors are absorbed
// into a GeocodeFailed result and not surfaced past this decorator.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
		logger:  logger,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, location string) (domain.GeocodeResult, error) {
	if result, ok := c.cache.get(location); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, location)
	if err != nil {
		if ctx.Err() != nil {
			// Cancellation is not a lookup verdict; don't poison the cache.
			return domain.GeocodeResult{}, err
		}
		c.logger.Warn("geocode lookup failed", "location", location, "error", err)
		result = domain.GeocodeResult{Status: domain.GeocodeFailed}
	}

	c.cache.put(location, result)
	return result, nil
}

// lruCache is a simple thread-safe LRU cache for GeocodeResults.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.GeocodeResult
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.GeocodeResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.GeocodeResult{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.GeocodeResult) {
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
