package cache_test

import (
	"testing"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/cache"
	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := cache.New[string](2, time.Minute)

	_, ok := c.Get(cache.Key("sketch", "etoro.com"))
	assert.False(t, ok)

	c.Add(cache.Key("sketch", "etoro.com"), "trusted")
	c.Add(cache.Key("sketch", "a.com"), "a")
	v, ok := c.Get("sketch:etoro.com")
	assert.True(t, ok)
	assert.Equal(t, "trusted", v)

	c.Add(cache.Key("sketch", "b.com"), "b")
	assert.Equal(t, 2, c.Len())
	_, ok = c.Get("sketch:a.com")
	assert.False(t, ok, "least recently used entry should be evicted")

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestCacheExpiry(t *testing.T) {
	c := cache.New[int](10, 20*time.Millisecond)
	c.Add("k", 1)
	assert.Eventually(t, func() bool {
		_, ok := c.Get("k")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestDisabledCache(t *testing.T) {
	c := cache.New[int](0, time.Minute)
	assert.Nil(t, c)

	c.Add("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	c.Purge()
}
