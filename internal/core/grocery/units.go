package grocery

import "strings"

// UnitDefault 沒有單位時使用的計數單位
const UnitDefault = "unit"

// Dimension 單位的度量類別，只有同類別能互相換算
type Dimension string

const (
	DimVolume Dimension = "volume"
	DimMass   Dimension = "mass"
	DimCount  Dimension = "count"
	DimClove  Dimension = "clove"
	DimSlice  Dimension = "slice"
	DimCan    Dimension = "can"
)

// UnitSpec 單位定義
// PriceMultiplier 是相對於價格表計價單位（約一杯／一個）的倍數
// ToBase 換算為同類別基準單位（ml、g、個）的倍數
type UnitSpec struct {
	Dimension       Dimension
	PriceMultiplier float64
	ToBase          float64
}

// UnitTable 不可變的單位表
type UnitTable struct {
	units   map[string]UnitSpec
	aliases map[string]string
}

// NewUnitTable 以單位定義與別名建立單位表
func NewUnitTable(units map[string]UnitSpec, aliases map[string]string) UnitTable {
	t := UnitTable{
		units:   make(map[string]UnitSpec, len(units)),
		aliases: make(map[string]string, len(aliases)+len(units)),
	}
	for name, spec := range units {
		t.units[name] = spec
		t.aliases[name] = name
	}
	for alias, canonical := range aliases {
		if _, ok := units[canonical]; ok {
			t.aliases[alias] = canonical
		}
	}
	return t
}

// DefaultUnits 內建單位表
var DefaultUnits = NewUnitTable(
	map[string]UnitSpec{
		"cup":   {DimVolume, 1, 236.6},
		"tbsp":  {DimVolume, 0.0625, 14.79},
		"tsp":   {DimVolume, 0.0208, 4.93},
		"ml":    {DimVolume, 0.00423, 1},
		"l":     {DimVolume, 4.23, 1000},
		"pinch": {DimVolume, 0.01, 0.31},
		"g":     {DimMass, 0.01, 1},
		"kg":    {DimMass, 10, 1000},
		"oz":    {DimMass, 0.2835, 28.35},
		"lb":    {DimMass, 4.536, 453.6},
		"unit":  {DimCount, 1, 1},
		"piece": {DimCount, 1, 1},
		"clove": {DimClove, 0.1, 1},
		"slice": {DimSlice, 0.25, 1},
		"can":   {DimCan, 1.5, 1},
	},
	map[string]string{
		"cups": "cup", "c": "cup",
		"tablespoon": "tbsp", "tablespoons": "tbsp", "tbs": "tbsp", "tbsps": "tbsp",
		"teaspoon": "tsp", "teaspoons": "tsp", "tsps": "tsp",
		"milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
		"liter": "l", "liters": "l", "litre": "l", "litres": "l",
		"pinches": "pinch",
		"gram": "g", "grams": "g", "gr": "g",
		"kilogram": "kg", "kilograms": "kg", "kgs": "kg",
		"ounce": "oz", "ounces": "oz",
		"pound": "lb", "pounds": "lb", "lbs": "lb",
		"units": "unit",
		"pieces": "piece", "pc": "piece", "pcs": "piece",
		"cloves": "clove",
		"slices": "slice",
		"cans": "can", "tin": "can", "tins": "can",
	},
)

// Canonical 回傳標準單位名稱，未知單位回傳 false
func (t UnitTable) Canonical(token string) (string, bool) {
	key := strings.Trim(strings.ToLower(strings.TrimSpace(token)), ".,;:()")
	unit, ok := t.aliases[key]
	return unit, ok
}

// Spec 取得單位定義
func (t UnitTable) Spec(unit string) (UnitSpec, bool) {
	canonical, ok := t.Canonical(unit)
	if !ok {
		return UnitSpec{}, false
	}
	return t.units[canonical], true
}

// Multiplier 價格倍數，未知單位為 1
func (t UnitTable) Multiplier(unit string) float64 {
	if spec, ok := t.Spec(unit); ok {
		return spec.PriceMultiplier
	}
	return 1
}

// Convert 將數量從 from 換算為 to，兩者需同類別
func (t UnitTable) Convert(qty float64, from, to string) (float64, bool) {
	src, ok1 := t.Spec(from)
	dst, ok2 := t.Spec(to)
	if !ok1 || !ok2 || src.Dimension != dst.Dimension || dst.ToBase == 0 {
		return 0, false
	}
	return qty * src.ToBase / dst.ToBase, true
}
