package grocery

import (
	"math"
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"
)

// Aggregator 依正規化名稱與單位類別累加食材數量
// 同類別的單位會換算為既有項目的單位；無法換算的單位（例如杯與公克）各自成為一項
type Aggregator struct {
	units   UnitTable
	buckets map[bucketKey]*common.Ingredient
}

type bucketKey struct {
	name      string
	dimension string
}

// NewAggregator 建立累加器
func NewAggregator(units UnitTable) *Aggregator {
	return &Aggregator{
		units:   units,
		buckets: make(map[bucketKey]*common.Ingredient),
	}
}

// Add 解析原始字串後累加
func (a *Aggregator) Add(raw string) {
	a.AddIngredient(a.units.Parse(raw))
}

// AddIngredient 累加結構化食材
func (a *Aggregator) AddIngredient(ing common.Ingredient) {
	name := NormalizeName(ing.Name)
	if name == "" {
		return
	}

	qty := ing.Quantity
	if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
		qty = 1
	}
	unit := strings.ToLower(strings.TrimSpace(ing.Unit))
	if canonical, ok := a.units.Canonical(unit); ok {
		unit = canonical
	} else if unit == "" {
		unit = UnitDefault
	}

	key := bucketKey{name: name, dimension: a.dimension(unit)}
	bucket, ok := a.buckets[key]
	if !ok {
		item := common.Ingredient{Name: name, Quantity: qty, Unit: unit}
		if ing.UnitCostUSD != nil {
			cost := *ing.UnitCostUSD
			item.UnitCostUSD = &cost
		}
		a.buckets[key] = &item
		return
	}

	if bucket.Unit != unit {
		converted, ok := a.units.Convert(qty, unit, bucket.Unit)
		if !ok {
			return
		}
		qty = converted
	}
	bucket.Quantity += qty
	if bucket.UnitCostUSD == nil && ing.UnitCostUSD != nil {
		cost := *ing.UnitCostUSD
		bucket.UnitCostUSD = &cost
	}
}

// dimension 單位類別；未知單位以單位名稱本身為類別，只與相同單位合併
func (a *Aggregator) dimension(unit string) string {
	if spec, ok := a.units.Spec(unit); ok {
		return string(spec.Dimension)
	}
	return "?" + unit
}

// Aggregate 累加多個原始字串並回傳結果
func (a *Aggregator) Aggregate(raws []string) map[string]common.Ingredient {
	for _, raw := range raws {
		a.Add(raw)
	}
	return a.Result()
}

// Result 目前的累加結果（複本），以名稱為鍵
// 同一食材有多個單位類別時，鍵為 "名稱 (單位)"
func (a *Aggregator) Result() map[string]common.Ingredient {
	perName := make(map[string]int, len(a.buckets))
	for key := range a.buckets {
		perName[key.name]++
	}
	out := make(map[string]common.Ingredient, len(a.buckets))
	for key, item := range a.buckets {
		k := key.name
		if perName[key.name] > 1 {
			k = key.name + " (" + item.Unit + ")"
		}
		out[k] = *item
	}
	return out
}

// Items 依名稱、單位排序的累加結果
func (a *Aggregator) Items() []common.Ingredient {
	items := make([]common.Ingredient, 0, len(a.buckets))
	for _, item := range a.buckets {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}

// Aggregate 使用內建單位表累加原始食材字串
func Aggregate(raws []string) map[string]common.Ingredient {
	return NewAggregator(DefaultUnits).Aggregate(raws)
}
