package grocery

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/pkg/common"
)

func TestAggregate_SameUnit(t *testing.T) {
	got := Aggregate([]string{"2 cups rice", "1 cup rice"})
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got["rice"].Quantity)
	assert.Equal(t, "cup", got["rice"].Unit)
}

func TestAggregate_ConvertsIntoBucketUnit(t *testing.T) {
	got := Aggregate([]string{"1 cup milk", "8 tbsp Milk", "2 eggs", "Eggs"})
	require.Len(t, got, 2)
	assert.InDelta(t, 1.5, got["milk"].Quantity, 0.01)
	assert.Equal(t, "cup", got["milk"].Unit)
	assert.Equal(t, 3.0, got["eggs"].Quantity)
}

func TestAggregate_IncompatibleUnitsStaySeparate(t *testing.T) {
	got := Aggregate([]string{"1 can tomato", "2 tomato"})
	require.Len(t, got, 2)
	assert.Equal(t, common.Ingredient{Name: "tomato", Quantity: 1, Unit: "can"}, got["tomato (can)"])
	assert.Equal(t, common.Ingredient{Name: "tomato", Quantity: 2, Unit: "unit"}, got["tomato (unit)"])
}

func TestAggregate_MassAndVolumeOrderIndependent(t *testing.T) {
	forward := NewAggregator(DefaultUnits)
	forward.Aggregate([]string{"1 cup spinach", "200 g spinach", "100 g spinach", "8 tbsp spinach"})
	reverse := NewAggregator(DefaultUnits)
	reverse.Aggregate([]string{"1 cup spinach", "100 g spinach", "200 g spinach", "8 tbsp spinach"})

	for _, items := range [][]common.Ingredient{forward.Items(), reverse.Items()} {
		require.Len(t, items, 2)
		assert.Equal(t, "cup", items[0].Unit)
		assert.InDelta(t, 1.5, items[0].Quantity, 0.01)
		assert.Equal(t, "g", items[1].Unit)
		assert.Equal(t, 300.0, items[1].Quantity)
	}

	b := NewBuilder(DefaultPrices, DefaultUnits, DefaultRates)
	l1, err := b.Estimate([]string{"1 cup spinach", "200 g spinach"}, "")
	require.NoError(t, err)
	l2, err := b.Estimate([]string{"200 g spinach", "1 cup spinach"}, "")
	require.NoError(t, err)
	require.Len(t, l1.Items, 2)
	assert.Equal(t, l1.TotalCostUSD, l2.TotalCostUSD)

	want := DefaultPrices.EstimateIngredientCost("spinach", 1, "cup") + DefaultPrices.EstimateIngredientCost("spinach", 200, "g")
	assert.InDelta(t, want, l1.TotalCostUSD, 0.01)
}

func TestAggregator_KeepsUnitCost(t *testing.T) {
	cost := 0.75
	agg := NewAggregator(DefaultUnits)
	agg.AddIngredient(common.Ingredient{Name: "Tofu", Quantity: 1, Unit: "unit"})
	agg.AddIngredient(common.Ingredient{Name: "tofu", Quantity: 2, Unit: "unit", UnitCostUSD: &cost})
	agg.AddIngredient(common.Ingredient{Name: "  ", Quantity: 2})

	items := agg.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].Quantity)
	require.NotNil(t, items[0].UnitCostUSD)
	assert.Equal(t, 0.75, *items[0].UnitCostUSD)

	cost = 9
	assert.Equal(t, 0.75, *agg.Items()[0].UnitCostUSD)
}

func TestPriceTable_Lookup(t *testing.T) {
	tests := []struct {
		name  string
		level MatchLevel
		price float64
	}{
		{"rice", MatchExact, 0.5},
		{"Basmati Rice", MatchSubstring, 0.5},
		{"extra virgin olive oil", MatchSubstring, 2.0},
		{"mixed vegetables", MatchKeyword, 0.6},
		{"quux", MatchDefault, DefaultPriceUSD},
		{"", MatchDefault, DefaultPriceUSD},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, level := DefaultPrices.Lookup(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.price, entry.PriceUSD)
		})
	}
}

func TestPriceTable_EstimateIngredientCost(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultPrices.EstimateIngredientCost("rice", 2, "cup"), 1e-9)
	assert.InDelta(t, 0.5*0.0625*4, DefaultPrices.EstimateIngredientCost("rice", 4, "tbsp"), 1e-9)

	got := DefaultPrices.EstimateIngredientCost("zorblax", 1, "mystery-unit")
	assert.Equal(t, DefaultPriceUSD, got)

	for _, qty := range []float64{math.NaN(), math.Inf(1), -3, 0} {
		got := DefaultPrices.EstimateIngredientCost("rice", qty, "cup")
		assert.False(t, math.IsNaN(got))
		assert.GreaterOrEqual(t, got, 0.0)
	}
}

func TestPriceTable_WithDefaultPrice(t *testing.T) {
	table := DefaultPrices.WithDefaultPrice(1.25)
	entry, level := table.Lookup("zorblax")
	assert.Equal(t, MatchDefault, level)
	assert.Equal(t, 1.25, entry.PriceUSD)

	entry, _ = DefaultPrices.Lookup("zorblax")
	assert.Equal(t, DefaultPriceUSD, entry.PriceUSD, "original table unchanged")

	entry, _ = DefaultPrices.WithDefaultPrice(-1).Lookup("zorblax")
	assert.Equal(t, DefaultPriceUSD, entry.PriceUSD)
}

func TestPriceTable_InjectedTable(t *testing.T) {
	table := NewPriceTable(
		map[string]PriceEntry{"saffron": {PriceUSD: 12, Category: common.CategoryPantry}},
		map[string]string{"spice": "saffron", "broken": "missing"},
		0,
		DefaultUnits,
	)
	entry, level := table.Lookup("mystery spice blend")
	assert.Equal(t, MatchKeyword, level)
	assert.Equal(t, 12.0, entry.PriceUSD)

	entry, level = table.Lookup("broken glass")
	assert.Equal(t, MatchDefault, level)
	assert.Equal(t, DefaultPriceUSD, entry.PriceUSD)
}

func TestRateTable(t *testing.T) {
	rates := NewRateTable(map[string]float64{"eur": 0.5, "bad": -1}, "")
	assert.Equal(t, []string{"EUR", "USD"}, rates.Codes())
	assert.Equal(t, DefaultRateNote, rates.Note())

	got, err := rates.Convert(10, "EUR")
	require.NoError(t, err)
	assert.Equal(t, 5.0, got)

	got, err = rates.Convert(10, "")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	_, err = rates.Convert(10, "XYZ")
	assert.True(t, common.IsValidationError(err))

	over := rates.WithOverrides(map[string]float64{"gbp": 0.8})
	assert.Contains(t, over.Codes(), "GBP")
	assert.NotContains(t, rates.Codes(), "GBP")
}

func testPlan() *common.WeeklyPlan {
	meal := func(name string, ings ...common.Ingredient) common.MealCandidate {
		return common.MealCandidate{Name: name, Ingredients: ings, Instructions: []string{"cook"}}
	}
	plan := &common.WeeklyPlan{ID: "plan-1", Days: make([]common.DaySlot, 1)}
	plan.Days[0].Meals = common.DayMeals{
		Breakfast: meal("Porridge",
			common.Ingredient{Name: "oats", Quantity: 1, Unit: "cup"},
			common.Ingredient{Name: "milk", Quantity: 1, Unit: "cup"}),
		Lunch: meal("Salad",
			common.Ingredient{Name: "Spinach", Quantity: 2, Unit: "cups"},
			common.Ingredient{Name: "feta", Quantity: 0.5, Unit: "cup"}),
		Dinner: meal("Chicken Rice",
			common.Ingredient{Name: "chicken", Quantity: 1, Unit: "lb"},
			common.Ingredient{Name: "rice", Quantity: 2, Unit: "cup"},
			common.Ingredient{Name: "milk", Quantity: 4, Unit: "tbsp"}),
	}
	return plan
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(DefaultPrices, DefaultUnits, NewRateTable(map[string]float64{"EUR": 0.5}, "static"))
	b.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	list, err := b.Build(testPlan(), "eur")
	require.NoError(t, err)

	assert.Equal(t, "plan-1", list.PlanID)
	assert.Equal(t, "EUR", list.Currency)
	assert.Equal(t, 0.5, list.ExchangeRate)
	assert.Equal(t, "static", list.RateNote)
	assert.NotEmpty(t, list.ID)

	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.Name)
	}
	// Produce, Dairy, Meat & Seafood, Pantry
	assert.Equal(t, []string{"spinach", "feta", "milk", "chicken", "oats", "rice"}, names)

	var sum float64
	for _, item := range list.Items {
		assert.Equal(t, "EUR", item.Currency)
		assert.InDelta(t, item.EstimatedCostUSD*0.5, item.LocalCost, 0.01)
		sum += item.EstimatedCostUSD
	}
	assert.InDelta(t, sum, list.TotalCostUSD, 0.01)
	assert.InDelta(t, list.TotalCostUSD*0.5, list.TotalCostLocal, 0.01)

	for _, item := range list.Items {
		if item.Name == "milk" {
			assert.InDelta(t, 1.25, item.Quantity, 0.01)
		}
	}
}

func TestBuilder_UnknownCurrency(t *testing.T) {
	b := NewBuilder(DefaultPrices, DefaultUnits, DefaultRates)
	_, err := b.Build(testPlan(), "ZZZ")
	assert.True(t, common.IsValidationError(err))

	_, err = b.Build(nil, "USD")
	assert.True(t, common.IsValidationError(err))
}

func TestBuilder_Estimate(t *testing.T) {
	b := NewBuilder(DefaultPrices, DefaultUnits, DefaultRates)
	list, err := b.Estimate([]string{"2 cups rice", "1 cup rice", "unobtainium"}, "")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "USD", list.Currency)
	assert.Equal(t, "rice", list.Items[0].Name)
	assert.Equal(t, 1.5, list.Items[0].EstimatedCostUSD)
	assert.Equal(t, common.CategoryOther, list.Items[1].Category)
	assert.Equal(t, DefaultPriceUSD, list.Items[1].EstimatedCostUSD)
}
