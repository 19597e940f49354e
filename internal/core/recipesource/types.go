package recipesource

import (
	"meal-planner/internal/pkg/common"
)

// Query 結構化食譜搜尋條件
type Query struct {
	Text        string
	Cuisine     string
	Diet        string
	Type        common.MealType
	MaxCalories float64
	Limit       int
	Servings    int
}

// CalorieCeiling 由單餐預算推得的熱量上限
// 沿用既有行為：直接以預算（美元）乘以 100 當作卡路里上限，兩者單位並不相關
func CalorieCeiling(budgetUSD float64) float64 {
	if budgetUSD <= 0 {
		return 0
	}
	return budgetUSD * 100
}

// apiNutrient 營養素
type apiNutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type apiNutrition struct {
	Nutrients []apiNutrient `json:"nutrients"`
}

// apiIngredient extendedIngredients / missedIngredients / usedIngredients 共用格式
type apiIngredient struct {
	Name      string       `json:"name"`
	NameClean string       `json:"nameClean"`
	Original  string       `json:"original"`
	Amount    float64      `json:"amount"`
	Unit      string       `json:"unit"`
	Nutrition apiNutrition `json:"nutrition"`
}

type apiStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

type apiInstruction struct {
	Name  string    `json:"name"`
	Steps []apiStep `json:"steps"`
}

// apiRecipe complexSearch 回傳的單筆食譜（欄位依查詢參數而有不同）
type apiRecipe struct {
	ID                   int              `json:"id"`
	Title                string           `json:"title"`
	Summary              string           `json:"summary"`
	Servings             int              `json:"servings"`
	PricePerServing      float64          `json:"pricePerServing"` // cents
	Vegetarian           bool             `json:"vegetarian"`
	Vegan                bool             `json:"vegan"`
	Diets                []string         `json:"diets"`
	Cuisines             []string         `json:"cuisines"`
	ExtendedIngredients  []apiIngredient  `json:"extendedIngredients"`
	MissedIngredients    []apiIngredient  `json:"missedIngredients"`
	UsedIngredients      []apiIngredient  `json:"usedIngredients"`
	AnalyzedInstructions []apiInstruction `json:"analyzedInstructions"`
	Instructions         string           `json:"instructions"`
	Nutrition            apiNutrition     `json:"nutrition"`
}

type searchResponse struct {
	Results      []apiRecipe `json:"results"`
	TotalResults int         `json:"totalResults"`
}
