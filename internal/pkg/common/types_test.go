package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanRequest_Validate(t *testing.T) {
	valid := PlanRequest{Cuisine: "italian", Dietary: "Vegetarian", MinDailyBudget: 5, MaxDailyBudget: 15, NumberOfPeople: 2}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*PlanRequest)
	}{
		{"blank cuisine", func(r *PlanRequest) { r.Cuisine = "  " }},
		{"negative min", func(r *PlanRequest) { r.MinDailyBudget = -1 }},
		{"zero max", func(r *PlanRequest) { r.MaxDailyBudget = 0 }},
		{"min above max", func(r *PlanRequest) { r.MinDailyBudget = 20 }},
		{"no people", func(r *PlanRequest) { r.NumberOfPeople = 0 }},
		{"unknown diet", func(r *PlanRequest) { r.Dietary = "fruitarian" }},
		{"five days", func(r *PlanRequest) { r.Days = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.modify(&req)
			assert.True(t, IsValidationError(req.Validate()))
		})
	}
}

func TestMealCandidate_CloneIsDeep(t *testing.T) {
	cost := 1.5
	m := MealCandidate{
		Name:         "Risotto",
		Ingredients:  []Ingredient{{Name: "rice", Quantity: 1, Unit: "cup", UnitCostUSD: &cost}},
		Instructions: []string{"Stir."},
	}
	c := m.Clone()
	c.Ingredients[0].Name = "orzo"
	*c.Ingredients[0].UnitCostUSD = 9
	c.Instructions[0] = "Bake."

	assert.Equal(t, "rice", m.Ingredients[0].Name)
	assert.Equal(t, 1.5, *m.Ingredients[0].UnitCostUSD)
	assert.Equal(t, "Stir.", m.Instructions[0])
	assert.Equal(t, NameKey(" RISOTTO "), m.NameKey())
}

func TestWeeklyPlan_Recompute(t *testing.T) {
	plan := &WeeklyPlan{TotalBudgetUSD: 10, Days: make([]DaySlot, 2)}
	plan.Days[0].Meals.Set(MealBreakfast, MealCandidate{Name: "a", EstimatedCostUSD: 4, SourceTier: TierStructured, Nutrition: Nutrition{Calories: 300}})
	plan.Days[1].Meals.Set(MealDinner, MealCandidate{Name: "b", EstimatedCostUSD: 8, SourceTier: TierFallback})
	plan.Recompute()

	assert.Equal(t, 12.0, plan.TotalCostUSD)
	assert.Equal(t, -2.0, plan.BudgetRemainingUSD, "overspend stays negative")
	assert.Equal(t, 300.0, plan.Days[0].TotalCalories)
	assert.True(t, plan.Degraded)
	assert.Equal(t, 1, plan.TierCounts[TierFallback])
	assert.Len(t, plan.Meals(), 6)
}

func TestWeeklyPlan_RecomputeRoundsFromDays(t *testing.T) {
	plan := &WeeklyPlan{TotalBudgetUSD: 1, Days: make([]DaySlot, 3)}
	for i := range plan.Days {
		plan.Days[i].Meals.Set(MealBreakfast, MealCandidate{Name: "a", EstimatedCostUSD: 0.1})
		plan.Days[i].Meals.Set(MealLunch, MealCandidate{Name: "b", EstimatedCostUSD: 0.2})
		plan.Days[i].Meals.Set(MealDinner, MealCandidate{Name: "c", EstimatedCostUSD: 0.006})
	}
	plan.Recompute()

	sum := 0.0
	for _, day := range plan.Days {
		assert.Equal(t, 0.31, day.TotalCostUSD)
		sum += day.TotalCostUSD
	}
	assert.Equal(t, RoundMoney(sum), plan.TotalCostUSD)
	assert.Equal(t, 0.93, plan.TotalCostUSD)
	assert.Equal(t, 0.07, plan.BudgetRemainingUSD)
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "1.5", FormatQuantity(1.5))
	assert.Equal(t, "0.33", FormatQuantity(1.0/3))
}

func TestValidDiet(t *testing.T) {
	assert.True(t, ValidDiet(""))
	assert.True(t, ValidDiet("GLUTEN-FREE"))
	assert.False(t, ValidDiet("carnivore"))
}
