package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

// MemoryStore 以 LRU + TTL 保存最近的週計畫與購物清單
type MemoryStore struct {
	plans     *expirable.LRU[string, *common.WeeklyPlan]
	groceries *expirable.LRU[string, *common.GroceryList]
}

// NewMemoryStore 創建記憶體儲存；ttl 為 0 表示不過期
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	common.LogInfo("使用記憶體儲存週計畫",
		zap.Int("max_entries", maxEntries),
		zap.Duration("ttl", ttl),
	)
	return &MemoryStore{
		plans:     expirable.NewLRU[string, *common.WeeklyPlan](maxEntries, nil, ttl),
		groceries: expirable.NewLRU[string, *common.GroceryList](maxEntries, nil, ttl),
	}
}

// SavePlan 保存週計畫
func (s *MemoryStore) SavePlan(_ context.Context, plan *common.WeeklyPlan) error {
	s.plans.Add(plan.ID, plan)
	return nil
}

// GetPlan 取得週計畫
func (s *MemoryStore) GetPlan(_ context.Context, id string) (*common.WeeklyPlan, error) {
	plan, ok := s.plans.Get(id)
	if !ok {
		return nil, common.ErrPlanNotFound
	}
	return plan, nil
}

// SaveGroceryList 保存購物清單
func (s *MemoryStore) SaveGroceryList(_ context.Context, list *common.GroceryList) error {
	s.groceries.Add(list.PlanID, list)
	return nil
}

// GetGroceryList 取得計畫的購物清單
func (s *MemoryStore) GetGroceryList(_ context.Context, planID string) (*common.GroceryList, error) {
	list, ok := s.groceries.Get(planID)
	if !ok {
		return nil, common.ErrGroceryNotFound
	}
	return list, nil
}
