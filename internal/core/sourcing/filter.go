package sourcing

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"meal-planner/internal/pkg/common"
)

// DedupeMeals 以不分大小寫、去除空白的餐名去重，保留第一次出現者
func DedupeMeals(meals []common.MealCandidate) []common.MealCandidate {
	seen := make(map[string]struct{}, len(meals))
	out := make([]common.MealCandidate, 0, len(meals))
	for _, meal := range meals {
		key := meal.NameKey()
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, meal)
	}
	return out
}

// FilterByDiet 指定飲食類型時只保留 dietTag 完全相符的餐點
func FilterByDiet(meals []common.MealCandidate, diet string) []common.MealCandidate {
	diet = strings.ToLower(strings.TrimSpace(diet))
	if diet == "" {
		return meals
	}
	out := make([]common.MealCandidate, 0, len(meals))
	for _, meal := range meals {
		if strings.ToLower(strings.TrimSpace(meal.DietTag)) == diet {
			out = append(out, meal)
		}
	}
	return out
}

// AllergySafe 食材名稱不含任何過敏原字串（不分大小寫的子字串比對）
func AllergySafe(meal common.MealCandidate, allergies []string) bool {
	for _, allergen := range allergies {
		allergen = strings.ToLower(strings.TrimSpace(allergen))
		if allergen == "" {
			continue
		}
		for _, ing := range meal.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), allergen) {
				return false
			}
		}
	}
	return true
}

// BackfillOptions 補足占位餐點所需的條件
type BackfillOptions struct {
	Type      common.MealType
	Cuisine   string
	DietTag   string
	Allergies []string
	Count     int
}

// Backfill 不足 Count 道時以占位餐點補齊，絕不超過 Count
// 所有占位餐點的營養與成本相同：取現有餐點的平均，沒有時用餐別預設值
func Backfill(meals []common.MealCandidate, opts BackfillOptions) []common.MealCandidate {
	if opts.Count <= 0 {
		return meals[:0]
	}
	if len(meals) >= opts.Count {
		return meals[:opts.Count]
	}

	nutrition, cost := placeholderProfile(opts.Type, meals)
	taken := make(map[string]struct{}, opts.Count)
	for _, meal := range meals {
		taken[meal.NameKey()] = struct{}{}
	}

	out := append([]common.MealCandidate(nil), meals...)
	for index := len(meals) + 1; len(out) < opts.Count; index++ {
		name := PlaceholderName(opts.Cuisine, opts.Type, index)
		if _, dup := taken[common.NameKey(name)]; dup {
			continue
		}
		taken[common.NameKey(name)] = struct{}{}

		meal := placeholderMeal(name, opts)
		meal.Nutrition = nutrition
		meal.EstimatedCostUSD = cost
		out = append(out, meal)
	}
	return out
}

// PlaceholderName 占位餐點名稱："{Cuisine} {MealType} {index}"
func PlaceholderName(cuisine string, mealType common.MealType, index int) string {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		cuisine = "house"
	}
	return fmt.Sprintf("%s %s %d", cases.Title(language.English).String(cuisine), mealType.Label(), index)
}

var placeholderDefaults = map[common.MealType]struct {
	nutrition common.Nutrition
	costUSD   float64
}{
	common.MealBreakfast: {common.Nutrition{Calories: 400, Protein: 14, Carbs: 60, Fat: 11}, 2.0},
	common.MealLunch:     {common.Nutrition{Calories: 550, Protein: 20, Carbs: 75, Fat: 16}, 2.5},
	common.MealDinner:    {common.Nutrition{Calories: 650, Protein: 24, Carbs: 85, Fat: 20}, 3.0},
	common.MealSnack:     {common.Nutrition{Calories: 200, Protein: 6, Carbs: 25, Fat: 8}, 1.0},
}

func placeholderProfile(mealType common.MealType, meals []common.MealCandidate) (common.Nutrition, float64) {
	if len(meals) == 0 {
		d, ok := placeholderDefaults[mealType]
		if !ok {
			d = placeholderDefaults[common.MealLunch]
		}
		return d.nutrition, d.costUSD
	}
	var n common.Nutrition
	var cost float64
	for _, meal := range meals {
		n.Calories += meal.Nutrition.Calories
		n.Protein += meal.Nutrition.Protein
		n.Carbs += meal.Nutrition.Carbs
		n.Fat += meal.Nutrition.Fat
		cost += meal.EstimatedCostUSD
	}
	count := float64(len(meals))
	return common.Nutrition{
		Calories: n.Calories / count,
		Protein:  n.Protein / count,
		Carbs:    n.Carbs / count,
		Fat:      n.Fat / count,
	}, common.RoundMoney(cost / count)
}

var placeholderStaples = map[common.MealType][]common.Ingredient{
	common.MealBreakfast: {ing("rolled oats", 0.5, "cup"), ing("oat milk", 1, "cup"), ing("seasonal fruit", 1, "unit")},
	common.MealLunch:     {ing("rice", 0.75, "cup"), ing("mixed vegetables", 1, "cup"), ing("black beans", 0.5, "can")},
	common.MealDinner:    {ing("pasta", 100, "g"), ing("tomato sauce", 0.5, "cup"), ing("mixed vegetables", 1, "cup")},
	common.MealSnack:     {ing("seasonal fruit", 1, "unit"), ing("crackers", 4, "unit")},
}

// placeholderMeal 合成的低精度餐點，食材已排除過敏原
func placeholderMeal(name string, opts BackfillOptions) common.MealCandidate {
	staples, ok := placeholderStaples[opts.Type]
	if !ok {
		staples = placeholderStaples[common.MealLunch]
	}
	var ingredients []common.Ingredient
	for _, staple := range staples {
		if AllergySafe(common.MealCandidate{Ingredients: []common.Ingredient{staple}}, opts.Allergies) {
			ingredients = append(ingredients, staple)
		}
	}
	if len(ingredients) == 0 {
		ingredients = []common.Ingredient{ing("seasonal produce", 1, "unit")}
	}

	return common.MealCandidate{
		Name:        name,
		Type:        opts.Type,
		Cuisine:     strings.ToLower(opts.Cuisine),
		DietTag:     strings.ToLower(opts.DietTag),
		Description: "Simple placeholder meal; adjust to taste.",
		Ingredients: ingredients,
		Instructions: []string{
			"Prepare the ingredients.",
			"Cook simply and season to taste.",
		},
		Servings:    1,
		SourceTier:  common.TierFallback,
		Placeholder: true,
	}
}
