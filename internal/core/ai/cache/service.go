package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// Service Redis 緩存服務（食譜搜尋結果）
type Service struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewService 創建緩存服務；Redis 停用時回傳 nil
func NewService(cfg config.RedisConfig) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewServiceWithClient(client, "meal-planner:", cfg.SearchTTL), nil
}

// NewServiceWithClient 以既有的 Redis 客戶端建立緩存服務
func NewServiceWithClient(client *redis.Client, prefix string, ttl time.Duration) *Service {
	return &Service{client: client, prefix: prefix, ttl: ttl}
}

// Get 獲取緩存並解碼到 out
func (s *Service) Get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return common.ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return nil
}

// Set 設置緩存
func (s *Service) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Ping 檢查 Redis 連線
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *Service) Close() error {
	return s.client.Close()
}
