package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

// CacheManager 生成式模型回應的記憶體快取（LRU + TTL）
type CacheManager struct {
	lru     *expirable.LRU[string, string]
	maxSize int
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewManager 創建新的緩存管理器；停用時回傳 nil
func NewManager(cfg config.CacheConfig) *CacheManager {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &CacheManager{
		lru:     expirable.NewLRU[string, string](cfg.MaxSize, nil, cfg.TTL),
		maxSize: cfg.MaxSize,
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.MaxSize),
		zap.Duration("存活時間", cfg.TTL),
	)
	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(prompt string, maxTokens int) (string, bool) {
	if m == nil {
		return "", false
	}
	key := GenerateKey(prompt, maxTokens)
	value, ok := m.lru.Get(key)
	if !ok {
		m.misses.Add(1)
		common.LogCacheMiss("ai_response", key)
		metrics.CacheLookups.WithLabelValues("ai_response", metrics.OutcomeMiss).Inc()
		return "", false
	}
	m.hits.Add(1)
	common.LogCacheHit("ai_response", key)
	metrics.CacheLookups.WithLabelValues("ai_response", metrics.OutcomeHit).Inc()
	return value, true
}

// Set 設置緩存值
func (m *CacheManager) Set(prompt string, maxTokens int, value string) {
	if m == nil || value == "" {
		return
	}
	m.lru.Add(GenerateKey(prompt, maxTokens), value)
}

// GenerateKey 生成緩存鍵
func GenerateKey(prompt string, maxTokens int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", maxTokens, prompt)))
	return "text:" + hex.EncodeToString(hash[:])
}

// GetStats 獲取緩存統計信息
func (m *CacheManager) GetStats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}
	hits, misses := m.hits.Load(), m.misses.Load()
	ratio := 0.0
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	return map[string]interface{}{
		"enabled":   true,
		"size":      m.lru.Len(),
		"max_size":  m.maxSize,
		"hits":      hits,
		"misses":    misses,
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	if m == nil {
		return nil
	}
	m.lru.Purge()
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.hits.Load()),
		zap.Int64("未命中次數", m.misses.Load()),
	)
	return nil
}
