package sourcing

import (
	"fmt"
	"strings"

	"meal-planner/internal/pkg/common"
)

// promptRequest 生成式請求的條件
type promptRequest struct {
	Type      common.MealType
	Cuisine   string
	DietType  string
	BudgetUSD float64
	Allergies []string
	Exclude   []string
	Count     int
}

// buildPrompt 組裝生成式請求；內容對模型而言是不透明的文字
func buildPrompt(req promptRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d %s %s recipes", req.Count, req.Cuisine, strings.ToLower(req.Type.Label()))
	if req.DietType != "" {
		fmt.Fprintf(&b, " that are strictly %s", req.DietType)
	}
	b.WriteString(".\n")
	if req.BudgetUSD > 0 {
		fmt.Fprintf(&b, "Each recipe should cost at most $%.2f per serving.\n", req.BudgetUSD)
	}
	if len(req.Allergies) > 0 {
		fmt.Fprintf(&b, "Never use these ingredients: %s.\n", strings.Join(req.Allergies, ", "))
	}
	if len(req.Exclude) > 0 {
		fmt.Fprintf(&b, "Do not suggest any of: %s.\n", strings.Join(req.Exclude, "; "))
	}
	b.WriteString(`Respond with a JSON array only. Each element must have the fields:
{"name": string, "type": string, "cuisine": string, "dietTag": string, "description": string,
"ingredients": [{"name": string, "quantity": number, "unit": string}],
"instructions": [string], "nutrition": {"calories": number, "protein": number, "carbs": number, "fat": number},
"estimatedCostUSD": number (per serving)}`)
	return b.String()
}
