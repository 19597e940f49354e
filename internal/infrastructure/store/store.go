// Package store 保存已組裝的週計畫與購物清單，供後續查詢
package store

import (
	"context"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// PlanStore 週計畫與購物清單的存取介面
type PlanStore interface {
	SavePlan(ctx context.Context, plan *common.WeeklyPlan) error
	// GetPlan 找不到時回傳 common.ErrPlanNotFound
	GetPlan(ctx context.Context, id string) (*common.WeeklyPlan, error)
	// SaveGroceryList 以 PlanID 保存，同一計畫只保留最新的清單
	SaveGroceryList(ctx context.Context, list *common.GroceryList) error
	// GetGroceryList 找不到時回傳 common.ErrGroceryNotFound
	GetGroceryList(ctx context.Context, planID string) (*common.GroceryList, error)
}

const defaultMaxEntries = 256

// New 依設定建立儲存層：Redis 啟用時使用 Redis，否則使用記憶體
func New(cfg config.RedisConfig) (PlanStore, error) {
	if !cfg.Enabled {
		return NewMemoryStore(defaultMaxEntries, cfg.PlanTTL), nil
	}
	s, err := NewRedisStore(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
