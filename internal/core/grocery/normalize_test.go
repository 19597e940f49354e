package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Rice ", "rice"},
		{"Jalapeño Peppers", "jalapeno peppers"},
		{"Crème  fraîche!", "creme fraiche"},
		{"sun-dried tomatoes,", "sun dried tomatoes"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in), tt.in)
	}
}

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		raw  string
		qty  float64
		unit string
		name string
	}{
		{"2 cups rice", 2, "cup", "rice"},
		{"1 cup Rice", 1, "cup", "rice"},
		{"1 1/2 tbsp olive oil", 1.5, "tbsp", "olive oil"},
		{"1/2 tsp salt", 0.5, "tsp", "salt"},
		{"½ cup milk", 0.5, "cup", "milk"},
		{"1½ lbs chicken thighs", 1.5, "lb", "chicken thighs"},
		{"2.5kg potatoes", 2.5, "kg", "potatoes"},
		{"200 g flour", 200, "g", "flour"},
		{"3 large eggs", 3, "unit", "large eggs"},
		{"2 cups of spinach", 2, "cup", "spinach"},
		{"salt", 1, "unit", "salt"},
		{"Fresh Basil", 1, "unit", "fresh basil"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseIngredient(tt.raw)
			assert.InDelta(t, tt.qty, got.Quantity, 1e-9)
			assert.Equal(t, tt.unit, got.Unit)
			assert.Equal(t, tt.name, got.Name)
			assert.Nil(t, got.UnitCostUSD)
		})
	}
}

func TestUnitTable_Convert(t *testing.T) {
	got, ok := DefaultUnits.Convert(16, "tbsp", "cup")
	assert.True(t, ok)
	assert.InDelta(t, 1.0, got, 0.01)

	got, ok = DefaultUnits.Convert(1, "kg", "g")
	assert.True(t, ok)
	assert.InDelta(t, 1000, got, 1e-9)

	_, ok = DefaultUnits.Convert(1, "cup", "g")
	assert.False(t, ok)

	_, ok = DefaultUnits.Convert(1, "handful", "cup")
	assert.False(t, ok)

	assert.Equal(t, 1.0, DefaultUnits.Multiplier("handful"))
	assert.Equal(t, 10.0, DefaultUnits.Multiplier("Kilograms"))
}
