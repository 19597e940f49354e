package sourcing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

// MaxSuggestions 單次建議的最大數量
const MaxSuggestions = 10

// SuggestRequest 批次餐點建議請求
type SuggestRequest struct {
	Type        common.MealType `json:"type"`
	Cuisine     string          `json:"cuisine"`
	DietType    string          `json:"dietType"`
	Count       int             `json:"count"`
	Allergies   []string        `json:"allergies,omitempty"`
	PeopleCount int             `json:"peopleCount"`
	BudgetUSD   float64         `json:"budgetUSD,omitempty"`
}

// Validate 驗證請求內容
func (r SuggestRequest) Validate() error {
	if !r.Type.Valid() {
		return common.NewValidationError(fmt.Sprintf("unknown meal type: %q", r.Type))
	}
	if r.Cuisine == "" {
		return common.NewValidationError("cuisine is required")
	}
	if !common.ValidDiet(r.DietType) {
		return common.NewValidationError(fmt.Sprintf("unsupported dietary type: %s", r.DietType))
	}
	if r.Count < 1 || r.Count > MaxSuggestions {
		return common.NewValidationError(fmt.Sprintf("count must be between 1 and %d", MaxSuggestions))
	}
	if r.PeopleCount < 0 {
		return common.NewValidationError("peopleCount cannot be negative")
	}
	return nil
}

// SuggestMeals 一次向生成式模型要求多道餐點，復原後去重、過濾並以占位餐點補足
// 生成失敗時回傳的全是占位餐點；只有請求不合法時才回傳錯誤
func (o *Orchestrator) SuggestMeals(ctx context.Context, req SuggestRequest) ([]common.MealCandidate, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	slot := Slot{
		Type:        req.Type,
		Cuisine:     req.Cuisine,
		DietType:    req.DietType,
		BudgetUSD:   req.BudgetUSD,
		Allergies:   req.Allergies,
		PeopleCount: req.PeopleCount,
	}

	var meals []common.MealCandidate
	if o.generator != nil {
		prompt := buildPrompt(promptRequest{
			Type:      req.Type,
			Cuisine:   req.Cuisine,
			DietType:  req.DietType,
			BudgetUSD: req.BudgetUSD,
			Allergies: req.Allergies,
			Count:     req.Count,
		})
		raw, err := withTimeout(ctx, o.cfg.TierTimeout, func(ctx context.Context) (string, error) {
			return o.generator.Generate(ctx, prompt, o.cfg.MaxTokens)
		})
		if err != nil {
			common.LogWarn("批次餐點建議生成失敗，全部以占位餐點補足",
				append(slot.logFields(common.TierGenerative), zap.Error(err))...)
		} else {
			meals = o.recoverMeals(ctx, raw, DecodeDefaults{Type: req.Type, Cuisine: req.Cuisine, DietTag: req.DietType})
		}
	}

	usable := make([]common.MealCandidate, 0, len(meals))
	for _, meal := range meals {
		if meal.Usable() && AllergySafe(meal, req.Allergies) {
			meal.EstimatedCostUSD = o.perServingCost(meal)
			usable = append(usable, meal)
		}
	}

	out := Backfill(usable, BackfillOptions{
		Type:      req.Type,
		Cuisine:   req.Cuisine,
		DietTag:   req.DietType,
		Allergies: req.Allergies,
		Count:     req.Count,
	})
	for i := range out {
		out[i].EstimatedCostUSD = common.RoundMoney(out[i].EstimatedCostUSD * float64(slot.people()))
		if out[i].Placeholder {
			out[i] = finish(out[i], slot, common.TierFallback)
		} else {
			out[i] = finish(out[i], slot, common.TierGenerative)
		}
	}
	return out, nil
}
