// Package planner 組裝七天三餐的週計畫
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meal-planner/internal/core/sourcing"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

// MealSourcer 為單一欄位取得餐點
type MealSourcer interface {
	// SourceMeal 依序嘗試所有層級，永遠回傳一道餐點
	SourceMeal(ctx context.Context, slot sourcing.Slot) common.MealCandidate
	// Fallback 直接使用備援層級
	Fallback(slot sourcing.Slot) common.MealCandidate
}

// Assembler 週計畫組裝器
type Assembler struct {
	cfg     config.PlannerConfig
	sourcer MealSourcer
	now     func() time.Time
}

// NewAssembler 創建週計畫組裝器
func NewAssembler(cfg config.PlannerConfig, sourcer MealSourcer) *Assembler {
	if cfg.RetryFactor <= 0 {
		cfg.RetryFactor = 3
	}
	if cfg.FallbackAttempts <= 0 {
		cfg.FallbackAttempts = 1
	}
	return &Assembler{cfg: cfg, sourcer: sourcer, now: time.Now}
}

// Assemble 組裝週計畫；任一天無法以不重複的餐點填滿時回傳 *common.PlanAssemblyError，不回傳部分計畫
func (a *Assembler) Assemble(ctx context.Context, req common.PlanRequest) (*common.WeeklyPlan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	plan, err := a.assemble(ctx, req)
	metrics.PlanAssemblyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlansAssembled.WithLabelValues(metrics.OutcomeFailure).Inc()
		common.LogError("週計畫組裝失敗",
			zap.String("cuisine", req.Cuisine),
			zap.String("diet", req.Dietary),
			zap.Error(err),
			zap.String("request_id", common.RequestIDFrom(ctx)),
		)
		return nil, err
	}

	metrics.PlansAssembled.WithLabelValues(metrics.OutcomeSuccess).Inc()
	common.LogInfo("Weekly plan assembled",
		zap.String("plan_id", plan.ID),
		zap.Float64("total_cost_usd", plan.TotalCostUSD),
		zap.Float64("budget_remaining_usd", plan.BudgetRemainingUSD),
		zap.Any("tier_counts", plan.TierCounts),
		zap.Bool("degraded", plan.Degraded),
		zap.Duration("duration", time.Since(start)),
	)
	return plan, nil
}

// assembly 單次組裝的狀態，只在組裝流程的 goroutine 中修改
type assembly struct {
	req        common.PlanRequest
	slotBudget float64
	used       map[string]struct{}
	filled     int
	retries    int
}

func (a *Assembler) assemble(ctx context.Context, req common.PlanRequest) (*common.WeeklyPlan, error) {
	total := common.PlanDays * len(common.PlanMealTypes)
	st := &assembly{
		req:        req,
		slotBudget: req.MaxDailyBudget / float64(len(common.PlanMealTypes)),
		used:       make(map[string]struct{}, total),
	}

	plan := &common.WeeklyPlan{
		ID:             uuid.New().String(),
		Days:           make([]common.DaySlot, common.PlanDays),
		TotalBudgetUSD: common.RoundMoney(req.MaxDailyBudget * common.PlanDays),
		Cuisine:        strings.ToLower(strings.TrimSpace(req.Cuisine)),
		DietType:       strings.ToLower(strings.TrimSpace(req.Dietary)),
		PeopleCount:    req.NumberOfPeople,
		CreatedAt:      a.now(),
	}

	// 日與日之間依序進行，同一天的三餐並行
	for d := 0; d < common.PlanDays; d++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan assembly cancelled: %w", err)
		}
		day, err := a.assembleDay(ctx, st, d, total)
		if err != nil {
			return nil, err
		}
		plan.Days[d] = day
	}

	plan.Recompute()
	return plan, nil
}

func (a *Assembler) assembleDay(ctx context.Context, st *assembly, d, total int) (common.DaySlot, error) {
	day := common.DaySlot{DayIndex: d, DayName: common.WeekDays[d]}
	pending := append([]common.MealType(nil), common.PlanMealTypes...)

	for len(pending) > 0 {
		// 即時層級的重試上限為 retryFactor × 尚需的餐數，超過後改用備援
		if st.retries >= a.cfg.RetryFactor*(total-st.filled) {
			for _, t := range pending {
				meal, err := a.forceFallback(a.slot(st, d, t), st)
				if err != nil {
					return common.DaySlot{}, err
				}
				st.claim(&day, t, meal)
			}
			break
		}

		results, err := a.sourceRound(ctx, st, d, pending)
		if err != nil {
			return common.DaySlot{}, err
		}

		// 依欄位順序認領，重複者下一輪重新取得
		var next []common.MealType
		for i, t := range pending {
			meal := results[i]
			if _, dup := st.used[meal.NameKey()]; dup || !meal.Usable() {
				next = append(next, t)
				continue
			}
			st.claim(&day, t, meal)
		}
		if len(next) > 0 {
			st.retries += len(next)
			metrics.PlanSlotRetries.Add(float64(len(next)))
			common.LogDebug("餐名重複，重新取得",
				zap.String("day", day.DayName),
				zap.Int("slots", len(next)),
				zap.Int("retries", st.retries),
			)
		}
		pending = next
	}

	day.Recompute()
	return day, nil
}

// sourceRound 並行取得同一天待填的欄位
func (a *Assembler) sourceRound(ctx context.Context, st *assembly, d int, pending []common.MealType) ([]common.MealCandidate, error) {
	results := make([]common.MealCandidate, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range pending {
		slot := a.slot(st, d, t)
		g.Go(func() error {
			results[i] = a.sourcer.SourceMeal(gctx, slot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("plan assembly cancelled: %w", err)
	}
	return results, nil
}

// forceFallback 最多嘗試 FallbackAttempts 次備援，仍無法取得不重複的餐點時回傳錯誤
func (a *Assembler) forceFallback(slot sourcing.Slot, st *assembly) (common.MealCandidate, error) {
	for i := 0; i < a.cfg.FallbackAttempts; i++ {
		meal := a.sourcer.Fallback(slot)
		if _, dup := st.used[meal.NameKey()]; dup || !meal.Usable() {
			continue
		}
		return meal, nil
	}
	return common.MealCandidate{}, &common.PlanAssemblyError{
		Day:     slot.DayName,
		Cuisine: slot.Cuisine,
		Diet:    slot.DietType,
		Err:     fmt.Errorf("no unique %s after %d fallback attempts", slot.Type, a.cfg.FallbackAttempts),
	}
}

// slot 建立欄位；Exclude 為目前已使用餐名的快照
func (a *Assembler) slot(st *assembly, d int, t common.MealType) sourcing.Slot {
	exclude := make([]string, 0, len(st.used))
	for name := range st.used {
		exclude = append(exclude, name)
	}
	return sourcing.Slot{
		DayIndex:    d,
		DayName:     common.WeekDays[d],
		Type:        t,
		Cuisine:     st.req.Cuisine,
		DietType:    st.req.Dietary,
		BudgetUSD:   st.slotBudget,
		Allergies:   st.req.Allergies,
		PeopleCount: st.req.NumberOfPeople,
		Exclude:     exclude,
	}
}

func (st *assembly) claim(day *common.DaySlot, t common.MealType, meal common.MealCandidate) {
	st.used[meal.NameKey()] = struct{}{}
	st.filled++
	day.Meals.Set(t, meal)
}

// Warnings 給呼叫端的非致命提示（使用了備援或占位資料）
func Warnings(plan *common.WeeklyPlan) []string {
	if plan == nil {
		return nil
	}
	var warnings []string
	if n := plan.TierCounts[common.TierGenerative]; n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d meals were generated and may be less accurate", n))
	}
	if n := plan.TierCounts[common.TierFallback]; n > 0 {
		warnings = append(warnings, fmt.Sprintf("%d meals came from built-in fallback data", n))
	}
	placeholders := 0
	for _, meal := range plan.Meals() {
		if meal.Placeholder {
			placeholders++
		}
	}
	if placeholders > 0 {
		warnings = append(warnings, fmt.Sprintf("%d meals are simple placeholders", placeholders))
	}
	if plan.BudgetRemainingUSD < 0 {
		warnings = append(warnings, fmt.Sprintf("plan exceeds budget by $%.2f", -plan.BudgetRemainingUSD))
	}
	return warnings
}
