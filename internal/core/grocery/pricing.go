package grocery

import (
	"math"
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"
)

// DefaultPriceUSD 任何層級都對不到時使用的單價
const DefaultPriceUSD = 0.5

// PriceEntry 價格表中的一項（計價單位約為一杯或一個）
type PriceEntry struct {
	PriceUSD float64
	Category common.GroceryCategory
}

// MatchLevel 價格查詢命中的層級
type MatchLevel string

const (
	MatchExact     MatchLevel = "exact"
	MatchSubstring MatchLevel = "substring"
	MatchKeyword   MatchLevel = "keyword"
	MatchDefault   MatchLevel = "default"
)

// PriceTable 不可變的價格表
type PriceTable struct {
	entries      map[string]PriceEntry
	keys         []string // 依長度遞減，讓最具體的子字串先命中
	keywords     []keywordRef
	defaultPrice float64
	units        UnitTable
}

type keywordRef struct {
	keyword string
	ref     string
}

// NewPriceTable 建立價格表；keywords 的值必須是 entries 中的名稱
func NewPriceTable(entries map[string]PriceEntry, keywords map[string]string, defaultPrice float64, units UnitTable) PriceTable {
	t := PriceTable{
		entries:      make(map[string]PriceEntry, len(entries)),
		defaultPrice: defaultPrice,
		units:        units,
	}
	for name, e := range entries {
		key := NormalizeName(name)
		t.entries[key] = e
		t.keys = append(t.keys, key)
	}
	sort.Slice(t.keys, func(i, j int) bool {
		if len(t.keys[i]) != len(t.keys[j]) {
			return len(t.keys[i]) > len(t.keys[j])
		}
		return t.keys[i] < t.keys[j]
	})
	for kw, ref := range keywords {
		if _, ok := t.entries[NormalizeName(ref)]; ok {
			t.keywords = append(t.keywords, keywordRef{keyword: NormalizeName(kw), ref: NormalizeName(ref)})
		}
	}
	sort.Slice(t.keywords, func(i, j int) bool { return t.keywords[i].keyword < t.keywords[j].keyword })
	if t.defaultPrice <= 0 || math.IsNaN(t.defaultPrice) {
		t.defaultPrice = DefaultPriceUSD
	}
	return t
}

// WithDefaultPrice 回傳更換預設單價的副本；price 不合法時沿用原值
func (t PriceTable) WithDefaultPrice(price float64) PriceTable {
	if price > 0 && !math.IsNaN(price) && !math.IsInf(price, 0) {
		t.defaultPrice = price
	}
	return t
}

// Lookup 依序以完全相符、子字串、類別關鍵字、預設價查詢
func (t PriceTable) Lookup(name string) (PriceEntry, MatchLevel) {
	key := NormalizeName(name)
	if key == "" {
		return PriceEntry{PriceUSD: t.defaultPrice, Category: common.CategoryOther}, MatchDefault
	}
	if e, ok := t.entries[key]; ok {
		return e, MatchExact
	}
	for _, k := range t.keys {
		if strings.Contains(key, k) || (len(key) >= 3 && strings.Contains(k, key)) {
			return t.entries[k], MatchSubstring
		}
	}
	for _, kw := range t.keywords {
		if strings.Contains(key, kw.keyword) {
			return t.entries[kw.ref], MatchKeyword
		}
	}
	return PriceEntry{PriceUSD: t.defaultPrice, Category: common.CategoryOther}, MatchDefault
}

// EstimateIngredientCost 估算食材成本：單價 × 數量 × 單位倍數，不會是負數或 NaN
func (t PriceTable) EstimateIngredientCost(name string, qty float64, unit string) float64 {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty <= 0 {
		return 0
	}
	entry, _ := t.Lookup(name)
	cost := entry.PriceUSD * qty * t.units.Multiplier(unit)
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return 0
	}
	return cost
}

// Category 取得食材分類
func (t PriceTable) Category(name string) common.GroceryCategory {
	entry, _ := t.Lookup(name)
	if entry.Category == "" {
		return common.CategoryOther
	}
	return entry.Category
}

// DefaultPrices 內建價格表
var DefaultPrices = NewPriceTable(
	map[string]PriceEntry{
		// Produce
		"tomato":      {0.6, common.CategoryProduce},
		"onion":       {0.5, common.CategoryProduce},
		"garlic":      {0.5, common.CategoryProduce},
		"potato":      {0.4, common.CategoryProduce},
		"carrot":      {0.3, common.CategoryProduce},
		"bell pepper": {1.0, common.CategoryProduce},
		"spinach":     {0.8, common.CategoryProduce},
		"lettuce":     {0.7, common.CategoryProduce},
		"cucumber":    {0.6, common.CategoryProduce},
		"broccoli":    {0.9, common.CategoryProduce},
		"mushroom":    {1.1, common.CategoryProduce},
		"zucchini":    {0.7, common.CategoryProduce},
		"avocado":     {1.2, common.CategoryProduce},
		"lemon":       {0.5, common.CategoryProduce},
		"lime":        {0.4, common.CategoryProduce},
		"banana":      {0.25, common.CategoryProduce},
		"apple":       {0.6, common.CategoryProduce},
		"berries":     {2.0, common.CategoryProduce},
		"cilantro":    {0.5, common.CategoryProduce},
		"basil":       {0.8, common.CategoryProduce},
		"ginger":      {0.4, common.CategoryProduce},
		"scallion":    {0.3, common.CategoryProduce},
		// Dairy
		"milk":       {0.25, common.CategoryDairy},
		"butter":     {2.0, common.CategoryDairy},
		"cheese":     {2.5, common.CategoryDairy},
		"parmesan":   {3.5, common.CategoryDairy},
		"yogurt":     {0.8, common.CategoryDairy},
		"cream":      {1.2, common.CategoryDairy},
		"egg":        {0.3, common.CategoryDairy},
		"feta":       {3.0, common.CategoryDairy},
		"mozzarella": {2.8, common.CategoryDairy},
		// Meat & Seafood
		"chicken": {3.0, common.CategoryMeat},
		"beef":    {4.5, common.CategoryMeat},
		"pork":    {3.5, common.CategoryMeat},
		"bacon":   {4.0, common.CategoryMeat},
		"salmon":  {6.0, common.CategoryMeat},
		"shrimp":  {5.5, common.CategoryMeat},
		"tuna":    {2.0, common.CategoryMeat},
		"turkey":  {3.2, common.CategoryMeat},
		// Pantry
		"rice":          {0.5, common.CategoryPantry},
		"pasta":         {0.6, common.CategoryPantry},
		"flour":         {0.3, common.CategoryPantry},
		"sugar":         {0.4, common.CategoryPantry},
		"salt":          {0.1, common.CategoryPantry},
		"black pepper":  {0.5, common.CategoryPantry},
		"olive oil":     {2.0, common.CategoryPantry},
		"oil":           {1.2, common.CategoryPantry},
		"soy sauce":     {0.9, common.CategoryPantry},
		"vinegar":       {0.6, common.CategoryPantry},
		"oats":          {0.4, common.CategoryPantry},
		"bread":         {0.3, common.CategoryPantry},
		"tortilla":      {0.25, common.CategoryPantry},
		"beans":         {0.8, common.CategoryPantry},
		"lentils":       {0.7, common.CategoryPantry},
		"chickpeas":     {0.8, common.CategoryPantry},
		"tofu":          {1.5, common.CategoryPantry},
		"honey":         {3.0, common.CategoryPantry},
		"peanut butter": {2.5, common.CategoryPantry},
		"coconut milk":  {1.8, common.CategoryPantry},
		"tomato sauce":  {1.0, common.CategoryPantry},
		"broth":         {0.8, common.CategoryPantry},
		"curry paste":   {2.2, common.CategoryPantry},
		"noodles":       {0.7, common.CategoryPantry},
		"quinoa":        {1.2, common.CategoryPantry},
		"cumin":         {0.3, common.CategoryPantry},
		"paprika":       {0.3, common.CategoryPantry},
	},
	map[string]string{
		"vegetable": "tomato",
		"veggie":    "tomato",
		"greens":    "spinach",
		"herb":      "basil",
		"fruit":     "apple",
		"meat":      "beef",
		"steak":     "beef",
		"fish":      "salmon",
		"seafood":   "shrimp",
		"poultry":   "chicken",
		"spice":     "paprika",
		"seasoning": "salt",
		"stock":     "broth",
		"sauce":     "tomato sauce",
		"grain":     "rice",
		"legume":    "lentils",
		"dairy":     "milk",
	},
	DefaultPriceUSD,
	DefaultUnits,
)
