package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meal-planner/internal/infrastructure/config"
)

func TestCacheManager_GetSet(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 2, TTL: time.Minute})

	_, ok := m.Get("prompt", 100)
	assert.False(t, ok)

	m.Set("prompt", 100, "answer")
	got, ok := m.Get("prompt", 100)
	assert.True(t, ok)
	assert.Equal(t, "answer", got)

	// 不同 maxTokens 視為不同鍵
	_, ok = m.Get("prompt", 200)
	assert.False(t, ok)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestCacheManager_EvictsLeastRecentlyUsed(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 2, TTL: time.Minute})
	m.Set("a", 1, "A")
	m.Set("b", 1, "B")
	_, _ = m.Get("a", 1)
	m.Set("c", 1, "C")

	_, ok := m.Get("b", 1)
	assert.False(t, ok)
	_, ok = m.Get("a", 1)
	assert.True(t, ok)
}

func TestCacheManager_Expires(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: 20 * time.Millisecond})
	m.Set("a", 1, "A")
	assert.Eventually(t, func() bool {
		_, ok := m.Get("a", 1)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCacheManager_DisabledIsNilSafe(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: false})
	assert.Nil(t, m)

	m.Set("a", 1, "A")
	_, ok := m.Get("a", 1)
	assert.False(t, ok)
	assert.Equal(t, false, m.GetStats()["enabled"])
	assert.NoError(t, m.Close())
}
