package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

const (
	planKeyPrefix    = "plan:"
	groceryKeyPrefix = "grocery:"
)

// RedisStore 以 JSON 將週計畫與購物清單存入 Redis
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 連線 Redis 並建立儲存
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("使用 Redis 儲存週計畫",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", cfg.PlanTTL),
	)
	return NewRedisStoreWithClient(client, "meal-planner:", cfg.PlanTTL), nil
}

// NewRedisStoreWithClient 以既有的客戶端建立儲存
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// SavePlan 保存週計畫
func (s *RedisStore) SavePlan(ctx context.Context, plan *common.WeeklyPlan) error {
	return s.put(ctx, planKeyPrefix+plan.ID, plan)
}

// GetPlan 取得週計畫
func (s *RedisStore) GetPlan(ctx context.Context, id string) (*common.WeeklyPlan, error) {
	var plan common.WeeklyPlan
	if err := s.get(ctx, planKeyPrefix+id, &plan); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// SaveGroceryList 保存購物清單
func (s *RedisStore) SaveGroceryList(ctx context.Context, list *common.GroceryList) error {
	return s.put(ctx, groceryKeyPrefix+list.PlanID, list)
}

// GetGroceryList 取得計畫的購物清單
func (s *RedisStore) GetGroceryList(ctx context.Context, planID string) (*common.GroceryList, error) {
	var list common.GroceryList
	if err := s.get(ctx, groceryKeyPrefix+planID, &list); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrGroceryNotFound
		}
		return nil, err
	}
	return &list, nil
}

// Ping 檢查 Redis 連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return err
		}
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}
