package realtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchStub struct {
	calls int
	data  []string
	err   error
}

func (f *fetchStub) fetch(context.Context) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newTestCache(stub *fetchStub, ttl time.Duration, now *time.Time) *FeedCache[string] {
	cache := NewFeedCache("test", ttl, stub.fetch, nil)
	cache.clock = func() time.Time { return *now }
	return cache
}

func TestFeedCacheServesFreshSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stub := &fetchStub{data: []string{"a", "b"}}
	cache := newTestCache(stub, 30*time.Second, &now)

	data, stale, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []string{"a", "b"}, data)
	assert.Equal(t, 1, stub.calls)

	// Within the TTL the upstream is not touched again.
	now = now.Add(29 * time.Second)
	data, stale, err = cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []string{"a", "b"}, data)
	assert.Equal(t, 1, stub.calls)
}

func TestFeedCacheRefreshesAfterTTL(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stub := &fetchStub{data: []string{"a"}}
	cache := newTestCache(stub, 30*time.Second, &now)

	_, _, err := cache.Get(context.Background())
	require.NoError(t, err)

	stub.data = []string{"b"}
	now = now.Add(31 * time.Second)

	data, stale, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, []string{"b"}, data)
	assert.Equal(t, 2, stub.calls)
}

func TestFeedCacheServesStaleOnFailure(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stub := &fetchStub{data: []string{"a"}}
	cache := newTestCache(stub, 30*time.Second, &now)

	_, _, err := cache.Get(context.Background())
	require.NoError(t, err)

	stub.err = errors.New("upstream down")
	now = now.Add(time.Minute)

	data, stale, err := cache.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, []string{"a"}, data)
}

func TestFeedCacheFailureWithoutSnapshot(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stub := &fetchStub{err: errors.New("upstream down")}
	cache := newTestCache(stub, 30*time.Second, &now)

	data, stale, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.True(t, stale)
	assert.Nil(t, data)
}
