package recipesource

import (
	"math"
	"regexp"
	"strings"

	"meal-planner/internal/core/grocery"
	"meal-planner/internal/pkg/common"
)

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]*>`)
	sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)
)

// toMeal 將不同形狀的 API 回應統一轉為 MealCandidate
func toMeal(r apiRecipe, q Query) common.MealCandidate {
	servings := q.Servings
	if servings <= 0 {
		servings = r.Servings
	}
	if servings <= 0 {
		servings = 1
	}

	cuisine := q.Cuisine
	if cuisine == "" && len(r.Cuisines) > 0 {
		cuisine = strings.ToLower(r.Cuisines[0])
	}

	return common.MealCandidate{
		Name:             strings.TrimSpace(r.Title),
		Type:             q.Type,
		Cuisine:          cuisine,
		DietTag:          dietTag(r, q.Diet),
		Description:      summarize(r.Summary),
		Ingredients:      mapIngredients(r),
		Instructions:     mapInstructions(r),
		Nutrition:        sumNutrients(r.Nutrition.Nutrients),
		EstimatedCostUSD: common.RoundMoney(math.Max(r.PricePerServing, 0) / 100 * float64(servings)),
		Servings:         servings,
		SourceTier:       common.TierStructured,
	}
}

func dietTag(r apiRecipe, requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if requested != "" {
		for _, d := range r.Diets {
			if strings.Contains(strings.ToLower(d), requested) {
				return requested
			}
		}
		switch {
		case requested == "vegan" && r.Vegan:
			return "vegan"
		case requested == "vegetarian" && (r.Vegetarian || r.Vegan):
			return "vegetarian"
		}
	}
	switch {
	case r.Vegan:
		return "vegan"
	case r.Vegetarian:
		return "vegetarian"
	case len(r.Diets) > 0:
		return strings.ToLower(r.Diets[0])
	}
	return ""
}

func mapIngredients(r apiRecipe) []common.Ingredient {
	src := r.ExtendedIngredients
	if len(src) == 0 {
		src = append(append([]apiIngredient{}, r.MissedIngredients...), r.UsedIngredients...)
	}
	out := make([]common.Ingredient, 0, len(src))
	for _, ing := range src {
		name := ing.NameClean
		if name == "" {
			name = ing.Name
		}
		if name == "" && ing.Original != "" {
			out = append(out, grocery.ParseIngredient(ing.Original))
			continue
		}
		name = grocery.NormalizeName(name)
		if name == "" {
			continue
		}
		unit := grocery.UnitDefault
		if u, ok := grocery.DefaultUnits.Canonical(ing.Unit); ok {
			unit = u
		} else if u := strings.ToLower(strings.TrimSpace(ing.Unit)); u != "" {
			unit = u
		}
		qty := ing.Amount
		if qty <= 0 {
			qty = 1
		}
		out = append(out, common.Ingredient{Name: name, Quantity: qty, Unit: unit})
	}
	return out
}

func mapInstructions(r apiRecipe) []string {
	var steps []string
	for _, block := range r.AnalyzedInstructions {
		for _, s := range block.Steps {
			if text := strings.TrimSpace(s.Step); text != "" {
				steps = append(steps, text)
			}
		}
	}
	if len(steps) > 0 {
		return steps
	}
	return splitSentences(stripHTML(r.Instructions))
}

func stripHTML(s string) string {
	return strings.Join(strings.Fields(htmlTagPattern.ReplaceAllString(s, " ")), " ")
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func summarize(summary string) string {
	text := stripHTML(summary)
	if sentences := splitSentences(text); len(sentences) > 0 {
		return sentences[0]
	}
	return text
}

// sumNutrients 依名稱加總營養素（不分大小寫）
func sumNutrients(nutrients []apiNutrient) common.Nutrition {
	var n common.Nutrition
	for _, nu := range nutrients {
		if nu.Amount < 0 || math.IsNaN(nu.Amount) {
			continue
		}
		switch strings.ToLower(nu.Name) {
		case "calories":
			n.Calories += nu.Amount
		case "protein":
			n.Protein += nu.Amount
		case "carbohydrates":
			n.Carbs += nu.Amount
		case "fat":
			n.Fat += nu.Amount
		}
	}
	return n
}
