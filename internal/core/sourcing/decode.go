package sourcing

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"meal-planner/internal/core/grocery"
	"meal-planner/internal/pkg/common"
)

// ---------------- 寬鬆版中繼結構：模型輸出的欄位型別不固定 ----------------

type looseMeal struct {
	Name         string         `json:"name"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
	Cuisine      string         `json:"cuisine"`
	DietTag      string         `json:"dietTag"`
	Diet         string         `json:"diet"`
	Description  string         `json:"description"`
	Ingredients  any            `json:"ingredients"`  // 字串或物件陣列
	Instructions any            `json:"instructions"` // 字串或陣列
	Nutrition    map[string]any `json:"nutrition"`
	Calories     any            `json:"calories"`
	Protein      any            `json:"protein"`
	Carbs        any            `json:"carbs"`
	Fat          any            `json:"fat"`
	Cost         any            `json:"estimatedCostUSD"`
	CostAlt      any            `json:"cost"`
	Servings     any            `json:"servings"`
}

type looseIngredient struct {
	Name     string `json:"name"`
	Item     string `json:"item"`
	Quantity any    `json:"quantity"`
	Amount   any    `json:"amount"`
	Unit     string `json:"unit"`
}

// ---------------------------------------------------------------

// DecodeDefaults 模型未提供時補上的欄位
type DecodeDefaults struct {
	Type    common.MealType
	Cuisine string
	DietTag string
}

// DecodeMeals 將復原後的值（物件、物件陣列或 {"meals": [...]}）寬鬆轉為餐點
// 無法解讀的項目會被略過；回傳的餐點成本為每份成本
func DecodeMeals(v any, defaults DecodeDefaults) []common.MealCandidate {
	items := mealItems(v)
	meals := make([]common.MealCandidate, 0, len(items))
	for i, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			continue
		}
		var lm looseMeal
		if err := json.Unmarshal(b, &lm); err != nil {
			common.LogDebug("略過無法解析的生成餐點", zap.Int("index", i), zap.Error(err))
			continue
		}
		meals = append(meals, lm.toMeal(defaults))
	}
	return meals
}

func mealItems(v any) []any {
	switch val := v.(type) {
	case []any:
		return val
	case map[string]any:
		for _, key := range []string{"meals", "recipes", "suggestions", "items"} {
			if list, ok := val[key].([]any); ok {
				return list
			}
		}
		return []any{val}
	default:
		return nil
	}
}

func (lm looseMeal) toMeal(defaults DecodeDefaults) common.MealCandidate {
	meal := common.MealCandidate{
		Name:         strings.TrimSpace(firstNonEmpty(lm.Name, lm.Title)),
		Type:         common.MealType(strings.ToLower(strings.TrimSpace(lm.Type))),
		Cuisine:      strings.ToLower(strings.TrimSpace(lm.Cuisine)),
		DietTag:      strings.ToLower(strings.TrimSpace(firstNonEmpty(lm.DietTag, lm.Diet))),
		Description:  strings.TrimSpace(lm.Description),
		Ingredients:  decodeIngredients(lm.Ingredients),
		Instructions: decodeInstructions(lm.Instructions),
		Servings:     int(toNumber(lm.Servings)),
		SourceTier:   common.TierGenerative,
	}

	// 營養可能是巢狀物件，也可能直接攤平在餐點上
	nested := lm.Nutrition
	meal.Nutrition = common.Nutrition{
		Calories: math.Max(toNumber(firstPresent(nested["calories"], lm.Calories)), 0),
		Protein:  math.Max(toNumber(firstPresent(nested["protein"], lm.Protein)), 0),
		Carbs:    math.Max(toNumber(firstPresent(nested["carbs"], nested["carbohydrates"], lm.Carbs)), 0),
		Fat:      math.Max(toNumber(firstPresent(nested["fat"], lm.Fat)), 0),
	}
	meal.EstimatedCostUSD = math.Max(toNumber(firstPresent(lm.Cost, lm.CostAlt)), 0)

	// 補上預設值
	if !meal.Type.Valid() {
		meal.Type = defaults.Type
	}
	if meal.Cuisine == "" {
		meal.Cuisine = strings.ToLower(defaults.Cuisine)
	}
	if meal.DietTag == "" {
		meal.DietTag = strings.ToLower(defaults.DietTag)
	}
	if meal.Servings <= 0 {
		meal.Servings = 1
	}
	return meal
}

func decodeIngredients(v any) []common.Ingredient {
	var raw []any
	switch val := v.(type) {
	case []any:
		raw = val
	case string:
		for _, part := range strings.Split(val, ",") {
			raw = append(raw, part)
		}
	default:
		return nil
	}

	out := make([]common.Ingredient, 0, len(raw))
	for _, item := range raw {
		var parsed common.Ingredient
		switch it := item.(type) {
		case string:
			if strings.TrimSpace(it) == "" {
				continue
			}
			parsed = grocery.ParseIngredient(it)
		case map[string]any:
			b, _ := json.Marshal(it)
			var li looseIngredient
			if err := json.Unmarshal(b, &li); err != nil {
				continue
			}
			parsed = li.toIngredient()
		default:
			continue
		}
		if parsed.Name == "" {
			continue
		}
		out = append(out, parsed)
	}
	return out
}

func (li looseIngredient) toIngredient() common.Ingredient {
	name := firstNonEmpty(li.Name, li.Item)
	qty := firstPresent(li.Quantity, li.Amount)
	switch q := qty.(type) {
	case string:
		// "1/2"、"1 ½" 之類交給食材解析器處理
		return grocery.ParseIngredient(fmt.Sprintf("%s %s %s", q, li.Unit, name))
	case nil:
		if li.Unit == "" {
			return grocery.ParseIngredient(name)
		}
	}

	parsed := common.Ingredient{Name: grocery.NormalizeName(name), Quantity: toNumber(qty), Unit: grocery.UnitDefault}
	if parsed.Quantity <= 0 {
		parsed.Quantity = 1
	}
	if unit, ok := grocery.DefaultUnits.Canonical(li.Unit); ok {
		parsed.Unit = unit
	}
	return parsed
}

var stepPrefixPattern = regexp.MustCompile(`(?i)^\s*(?:step\s*)?\d+[.):](?:\s+|$)`)

func decodeInstructions(v any) []string {
	var raw []string
	switch val := v.(type) {
	case string:
		raw = strings.Split(val, "\n")
	case []any:
		for _, item := range val {
			switch it := item.(type) {
			case string:
				raw = append(raw, it)
			case map[string]any:
				for _, key := range []string{"step", "text", "instruction", "description"} {
					if s, ok := it[key].(string); ok {
						raw = append(raw, s)
						break
					}
				}
			}
		}
	}

	out := make([]string, 0, len(raw))
	for _, step := range raw {
		step = strings.TrimSpace(stepPrefixPattern.ReplaceAllString(step, ""))
		if step != "" {
			out = append(out, step)
		}
	}
	return out
}

var leadingNumberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// toNumber 接受數字或 "450 kcal"、"$3.50" 之類的字串
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case int:
		return float64(n)
	case string:
		m := leadingNumberPattern.FindString(strings.ReplaceAll(n, ",", ""))
		if m == "" {
			return 0
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstPresent(values ...any) any {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
