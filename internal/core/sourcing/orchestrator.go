// Package sourcing 為單一餐點欄位依序嘗試結構化搜尋、生成式模型與內建備援
package sourcing

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/grocery"
	"meal-planner/internal/core/recipesource"
	"meal-planner/internal/core/recovery"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

var (
	errTierUnavailable = errors.New("tier not configured")
	errNoCandidates    = errors.New("no candidates returned")
	errNoUsable        = errors.New("no usable candidate after filtering")
)

// RecipeSource 結構化食譜來源
type RecipeSource interface {
	Search(ctx context.Context, q recipesource.Query) ([]common.MealCandidate, error)
	AnalyzeNutrition(ctx context.Context, ingredients []string, servings int) (common.Nutrition, error)
}

// Slot 計畫中的一個餐點欄位
type Slot struct {
	DayIndex    int             `json:"dayIndex"`
	DayName     string          `json:"dayName"`
	Type        common.MealType `json:"type"`
	Cuisine     string          `json:"cuisine"`
	DietType    string          `json:"dietType"`
	BudgetUSD   float64         `json:"budgetUSD"`
	Allergies   []string        `json:"allergies"`
	PeopleCount int             `json:"peopleCount"`
	Exclude     []string        `json:"exclude"` // 計畫中已使用的餐名快照
}

func (s Slot) people() int {
	if s.PeopleCount < 1 {
		return 1
	}
	return s.PeopleCount
}

func (s Slot) excluded(meal common.MealCandidate) bool {
	key := meal.NameKey()
	for _, name := range s.Exclude {
		if common.NameKey(name) == key {
			return true
		}
	}
	return false
}

func (s Slot) logFields(tier common.SourceTier) []zap.Field {
	return []zap.Field{
		zap.String("day", s.DayName),
		zap.String("meal_type", string(s.Type)),
		zap.String("cuisine", s.Cuisine),
		zap.String("diet", s.DietType),
		zap.String("tier", string(tier)),
	}
}

// Orchestrator 依序嘗試三個來源層級，永遠回傳一道餐點
type Orchestrator struct {
	cfg       config.PlannerConfig
	recipes   RecipeSource
	generator provider.TextGenerator
	catalogue []common.MealCandidate
	prices    grocery.PriceTable

	mu  sync.Mutex // 保護 rng
	rng *rand.Rand
}

// NewOrchestrator 創建餐點來源協調器
// recipes 或 generator 為 nil 時略過該層；catalogue 為空時使用內建備援；rng 為 nil 時依設定的種子建立
func NewOrchestrator(cfg config.PlannerConfig, recipes RecipeSource, generator provider.TextGenerator,
	catalogue []common.MealCandidate, prices grocery.PriceTable, rng *rand.Rand) *Orchestrator {
	if len(catalogue) == 0 {
		catalogue = DefaultCatalogue()
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	if cfg.Candidates <= 0 {
		cfg.Candidates = 3
	}
	return &Orchestrator{
		cfg:       cfg,
		recipes:   recipes,
		generator: generator,
		catalogue: catalogue,
		prices:    prices,
		rng:       rng,
	}
}

// SourceMeal 依序嘗試結構化、生成式與備援層級；不會回傳錯誤
func (o *Orchestrator) SourceMeal(ctx context.Context, slot Slot) common.MealCandidate {
	if meal, ok := o.attempt(ctx, common.TierStructured, slot, o.structured); ok {
		return meal
	}
	if meal, ok := o.attempt(ctx, common.TierGenerative, slot, o.generative); ok {
		return meal
	}
	meal := o.Fallback(slot)
	metrics.TierAttempts.WithLabelValues(string(common.TierFallback), metrics.OutcomeSuccess).Inc()
	return meal
}

// attempt 在獨立的超時內執行一個層級，記錄指標與日誌
func (o *Orchestrator) attempt(ctx context.Context, tier common.SourceTier, slot Slot,
	fn func(context.Context, Slot) (common.MealCandidate, error)) (common.MealCandidate, bool) {
	start := time.Now()
	meal, err := withTimeout(ctx, o.cfg.TierTimeout, func(ctx context.Context) (common.MealCandidate, error) {
		return fn(ctx, slot)
	})
	metrics.TierDuration.WithLabelValues(string(tier)).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := metrics.OutcomeFailure
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		metrics.TierAttempts.WithLabelValues(string(tier), outcome).Inc()

		fields := append(slot.logFields(tier), zap.Error(err), zap.String("request_id", common.RequestIDFrom(ctx)))
		if errors.Is(err, errTierUnavailable) || errors.Is(err, recipesource.ErrDisabled) || errors.Is(err, provider.ErrNoProvider) {
			common.LogDebug("來源層級未啟用，略過", fields...)
		} else {
			common.LogWarn("Meal source tier failed", fields...)
		}
		return common.MealCandidate{}, false
	}

	metrics.TierAttempts.WithLabelValues(string(tier), metrics.OutcomeSuccess).Inc()
	return meal, true
}

// withTimeout 執行 fn，超時後不等待其返回
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// structured 第一層：結構化食譜搜尋
func (o *Orchestrator) structured(ctx context.Context, slot Slot) (common.MealCandidate, error) {
	if o.recipes == nil {
		return common.MealCandidate{}, errTierUnavailable
	}

	results, err := o.recipes.Search(ctx, recipesource.Query{
		Text:        searchPhrase(slot),
		Cuisine:     slot.Cuisine,
		Diet:        slot.DietType,
		Type:        slot.Type,
		MaxCalories: recipesource.CalorieCeiling(slot.BudgetUSD),
		Servings:    slot.people(),
	})
	if err != nil {
		return common.MealCandidate{}, err
	}
	if len(results) == 0 {
		return common.MealCandidate{}, errNoCandidates
	}

	for _, meal := range results {
		meal = meal.Clone()
		// 來源已依飲食類型篩選，未標註者視為符合
		if meal.DietTag == "" {
			meal.DietTag = strings.ToLower(slot.DietType)
		}
		if len(FilterByDiet([]common.MealCandidate{meal}, slot.DietType)) == 0 || slot.excluded(meal) {
			continue
		}
		if !AllergySafe(meal, slot.Allergies) {
			common.LogDebug("結構化食譜含過敏原，略過", zap.String("name", meal.Name), zap.Strings("allergies", slot.Allergies))
			continue
		}
		if meal.Nutrition.Calories == 0 {
			o.fillNutrition(ctx, &meal)
		}
		if !meal.Usable() {
			continue
		}
		return finish(meal, slot, common.TierStructured), nil
	}
	return common.MealCandidate{}, errNoUsable
}

func (o *Orchestrator) fillNutrition(ctx context.Context, meal *common.MealCandidate) {
	lines := make([]string, 0, len(meal.Ingredients))
	for _, ing := range meal.Ingredients {
		lines = append(lines, common.IngredientSliceToString([]common.Ingredient{ing}))
	}
	nutrition, err := o.recipes.AnalyzeNutrition(ctx, lines, meal.Servings)
	if err != nil {
		common.LogDebug("營養查詢失敗", zap.String("name", meal.Name), zap.Error(err))
		return
	}
	meal.Nutrition = nutrition
}

func searchPhrase(slot Slot) string {
	return strings.Join(strings.Fields(fmt.Sprintf("%s %s %s", slot.Cuisine, slot.Type.Label(), slot.DietType)), " ")
}

// generative 第二層：生成式模型 + 復原解析
func (o *Orchestrator) generative(ctx context.Context, slot Slot) (common.MealCandidate, error) {
	if o.generator == nil {
		return common.MealCandidate{}, errTierUnavailable
	}

	prompt := buildPrompt(promptRequest{
		Type:      slot.Type,
		Cuisine:   slot.Cuisine,
		DietType:  slot.DietType,
		BudgetUSD: slot.BudgetUSD / float64(slot.people()),
		Allergies: slot.Allergies,
		Exclude:   slot.Exclude,
		Count:     o.cfg.Candidates,
	})
	raw, err := o.generator.Generate(ctx, prompt, o.cfg.MaxTokens)
	if err != nil {
		return common.MealCandidate{}, err
	}

	meals := o.recoverMeals(ctx, raw, DecodeDefaults{Type: slot.Type, Cuisine: slot.Cuisine, DietTag: slot.DietType})
	if len(meals) == 0 {
		return common.MealCandidate{}, recovery.ErrUnrecoverable
	}
	for _, meal := range meals {
		if !meal.Usable() || slot.excluded(meal) || !AllergySafe(meal, slot.Allergies) {
			continue
		}
		meal.EstimatedCostUSD = common.RoundMoney(o.perServingCost(meal) * float64(slot.people()))
		return finish(meal, slot, common.TierGenerative), nil
	}
	return common.MealCandidate{}, errNoUsable
}

// recoverMeals 復原、解碼、去重並依飲食類型過濾
func (o *Orchestrator) recoverMeals(ctx context.Context, raw string, defaults DecodeDefaults) []common.MealCandidate {
	value, report := recovery.RecoverWithReport(raw)
	strategy := report.Strategy
	if value == nil {
		strategy = "none"
	}
	metrics.RecoveryStrategy.WithLabelValues(strategy).Inc()

	if value == nil {
		common.LogWarn("Generated output could not be recovered",
			zap.String("preview", common.Preview(raw, 120)),
			zap.String("request_id", common.RequestIDFrom(ctx)),
		)
		return nil
	}
	if report.Partial {
		common.LogWarn("生成內容僅部分復原", zap.String("strategy", strategy))
	} else {
		common.LogDebug("生成內容復原成功", zap.String("strategy", strategy))
	}

	meals := DecodeMeals(value, defaults)
	return FilterByDiet(DedupeMeals(meals), defaults.DietTag)
}

// perServingCost 模型給的每份成本；缺少時以價格表估算食材總價再除以份數
func (o *Orchestrator) perServingCost(meal common.MealCandidate) float64 {
	if meal.EstimatedCostUSD > 0 {
		return meal.EstimatedCostUSD
	}
	var total float64
	for _, ing := range meal.Ingredients {
		total += o.prices.EstimateIngredientCost(ing.Name, ing.Quantity, ing.Unit)
	}
	servings := meal.Servings
	if servings < 1 {
		servings = 1
	}
	return total / float64(servings)
}

// Fallback 第三層：從內建備援挑選，不會失敗
// 依序偏好同餐別、同飲食、同菜系、預算內；過敏原與餐別為硬性條件，皆不符時合成占位餐點
func (o *Orchestrator) Fallback(slot Slot) common.MealCandidate {
	people := float64(slot.people())

	var pool []common.MealCandidate
	for _, meal := range o.catalogue {
		if meal.Type == slot.Type && AllergySafe(meal, slot.Allergies) {
			pool = append(pool, meal)
		}
	}
	pool = prefer(pool, func(m common.MealCandidate) bool {
		return slot.DietType == "" || strings.EqualFold(m.DietTag, slot.DietType)
	})
	pool = prefer(pool, func(m common.MealCandidate) bool {
		return strings.EqualFold(m.Cuisine, slot.Cuisine)
	})
	pool = prefer(pool, func(m common.MealCandidate) bool {
		return slot.BudgetUSD <= 0 || m.EstimatedCostUSD*people <= slot.BudgetUSD
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if len(pool) == 0 {
		common.LogWarn("備援清單沒有符合條件的餐點，合成占位餐點", slot.logFields(common.TierFallback)...)
		meal := placeholderMeal(PlaceholderName(slot.Cuisine, slot.Type, o.rng.Intn(10000)), BackfillOptions{
			Type:      slot.Type,
			Cuisine:   slot.Cuisine,
			DietTag:   slot.DietType,
			Allergies: slot.Allergies,
		})
		meal.Nutrition, meal.EstimatedCostUSD = placeholderProfile(slot.Type, nil)
		meal.EstimatedCostUSD = common.RoundMoney(meal.EstimatedCostUSD * people)
		return finish(meal, slot, common.TierFallback)
	}

	meal := pool[o.rng.Intn(len(pool))].Clone()
	meal.Name = fmt.Sprintf("%s #%04d", meal.Name, o.rng.Intn(10000))
	meal.EstimatedCostUSD = common.RoundMoney(meal.EstimatedCostUSD * people)
	return finish(meal, slot, common.TierFallback)
}

// prefer 只在有符合者時縮小候選範圍
func prefer(pool []common.MealCandidate, match func(common.MealCandidate) bool) []common.MealCandidate {
	var narrowed []common.MealCandidate
	for _, meal := range pool {
		if match(meal) {
			narrowed = append(narrowed, meal)
		}
	}
	if len(narrowed) == 0 {
		return pool
	}
	return narrowed
}

func finish(meal common.MealCandidate, slot Slot, tier common.SourceTier) common.MealCandidate {
	meal.Type = slot.Type
	meal.Servings = slot.people()
	meal.SourceTier = tier
	if meal.Cuisine == "" {
		meal.Cuisine = strings.ToLower(slot.Cuisine)
	}
	meal.Name = strings.TrimSpace(meal.Name)
	return meal
}
