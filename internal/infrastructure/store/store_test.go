package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

func samplePlan() *common.WeeklyPlan {
	plan := &common.WeeklyPlan{
		ID:             uuid.New().String(),
		Days:           make([]common.DaySlot, common.PlanDays),
		TotalBudgetUSD: 70,
		Cuisine:        "italian",
		PeopleCount:    2,
		CreatedAt:      time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC),
	}
	for i := range plan.Days {
		plan.Days[i].DayIndex = i
		plan.Days[i].DayName = common.WeekDays[i]
	}
	plan.Days[0].Meals.Set(common.MealDinner, common.MealCandidate{
		Name:             "Pasta Primavera",
		Type:             common.MealDinner,
		Ingredients:      []common.Ingredient{{Name: "penne", Quantity: 200, Unit: "g"}},
		Instructions:     []string{"Boil."},
		EstimatedCostUSD: 5,
		SourceTier:       common.TierFallback,
		Servings:         2,
	})
	plan.Recompute()
	return plan
}

func sampleList(planID string) *common.GroceryList {
	return &common.GroceryList{
		ID:           uuid.New().String(),
		PlanID:       planID,
		Currency:     "USD",
		ExchangeRate: 1,
		Items: []common.GroceryItem{
			{Name: "penne", Quantity: 200, Unit: "g", EstimatedCostUSD: 0.8},
		},
		TotalCostUSD:   0.8,
		TotalCostLocal: 0.8,
	}
}

func exerciseStore(t *testing.T, s PlanStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.GetPlan(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrPlanNotFound)
	_, err = s.GetGroceryList(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrGroceryNotFound)

	plan := samplePlan()
	require.NoError(t, s.SavePlan(ctx, plan))
	got, err := s.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, got.ID)
	assert.Equal(t, 5.0, got.TotalCostUSD)
	assert.Equal(t, "Pasta Primavera", got.Days[0].Meals.Dinner.Name)
	assert.True(t, plan.CreatedAt.Equal(got.CreatedAt))

	list := sampleList(plan.ID)
	require.NoError(t, s.SaveGroceryList(ctx, list))
	gotList, err := s.GetGroceryList(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, list.Items, gotList.Items)
	assert.Equal(t, list.ID, gotList.ID)

	newer := sampleList(plan.ID)
	require.NoError(t, s.SaveGroceryList(ctx, newer))
	gotList, err = s.GetGroceryList(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, gotList.ID, "latest list replaces the previous one")
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(4, time.Minute))
}

func TestMemoryStore_Evicts(t *testing.T) {
	s := NewMemoryStore(1, 0)
	ctx := context.Background()
	first, second := samplePlan(), samplePlan()
	require.NoError(t, s.SavePlan(ctx, first))
	require.NoError(t, s.SavePlan(ctx, second))

	_, err := s.GetPlan(ctx, first.ID)
	assert.ErrorIs(t, err, common.ErrPlanNotFound)
	_, err = s.GetPlan(ctx, second.ID)
	assert.NoError(t, err)
}

func TestNew_DisabledRedisUsesMemory(t *testing.T) {
	s, err := New(config.RedisConfig{Enabled: false, PlanTTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)
}

// 需要真實 Redis：設定 REDIS_TEST_ADDR 才會執行
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	s := NewRedisStoreWithClient(client, "test:"+t.Name()+":", time.Minute)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}
