package realtime

import (
	"context"
	"sync"
	"time"

	"arrivals.dublintransit.ie/internal/metrics"
)

// FeedCache serves a live feed snapshot with a time-to-live. A snapshot
// younger than the TTL is served as-is; otherwise the cache refreshes from
// upstream. When a refresh fails the last-known-good snapshot is served
// marked stale, so upstream flakiness never fails a request that has ever
// seen data. Concurrent requests may race to refresh an expired entry; the
// duplicate upstream fetches are tolerated rather than serialized.
type FeedCache[T any] struct {
	name    string
	ttl     time.Duration
	fetch   func(context.Context) ([]T, error)
	collect *metrics.Collector
	clock   func() time.Time

	mu        sync.Mutex
	data      []T
	hasData   bool
	fetchedAt time.Time
}

// NewFeedCache builds a cache for one feed type. name labels the feed in
// metrics; collect may be nil in tests.
func NewFeedCache[T any](name string, ttl time.Duration, fetch func(context.Context) ([]T, error), collect *metrics.Collector) *FeedCache[T] {
	return &FeedCache[T]{
		name:    name,
		ttl:     ttl,
		fetch:   fetch,
		collect: collect,
		clock:   time.Now,
	}
}

// Get returns the current snapshot. The second return reports staleness:
// true when the snapshot survived a failed refresh past its TTL. The error
// is non-nil only when there is no snapshot to serve at all.
func (c *FeedCache[T]) Get(ctx context.Context) ([]T, bool, error) {
	c.mu.Lock()
	if c.hasData && c.clock().Sub(c.fetchedAt) < c.ttl {
		data := c.data
		c.mu.Unlock()
		c.count(func(m *metrics.Collector) { m.FeedCacheHits.WithLabelValues(c.name).Inc() })
		return data, false, nil
	}
	c.mu.Unlock()

	// Fetch outside the lock so a slow upstream never blocks requests that
	// can be answered from cache.
	c.count(func(m *metrics.Collector) { m.FeedFetches.WithLabelValues(c.name).Inc() })
	data, err := c.fetch(ctx)
	if err != nil {
		c.count(func(m *metrics.Collector) { m.FeedFetchErrors.WithLabelValues(c.name).Inc() })
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hasData {
			c.count(func(m *metrics.Collector) { m.FeedStaleServes.WithLabelValues(c.name).Inc() })
			return c.data, true, nil
		}
		return nil, true, err
	}

	c.mu.Lock()
	c.data = data
	c.hasData = true
	c.fetchedAt = c.clock()
	c.mu.Unlock()
	return data, false, nil
}

func (c *FeedCache[T]) count(fn func(*metrics.Collector)) {
	if c.collect != nil {
		fn(c.collect)
	}
}
