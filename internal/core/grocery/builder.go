package grocery

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

var categoryOrder = map[common.GroceryCategory]int{
	common.CategoryProduce: 0,
	common.CategoryDairy:   1,
	common.CategoryMeat:    2,
	common.CategoryPantry:  3,
	common.CategoryOther:   4,
}

// Builder 由週計畫建立附價格的購物清單
type Builder struct {
	prices PriceTable
	units  UnitTable
	rates  RateTable
	now    func() time.Time
}

// NewBuilder 建立購物清單產生器，各表皆以參數注入
func NewBuilder(prices PriceTable, units UnitTable, rates RateTable) *Builder {
	return &Builder{
		prices: prices,
		units:  units,
		rates:  rates,
		now:    time.Now,
	}
}

// Rates 目前使用的匯率表
func (b *Builder) Rates() RateTable {
	return b.rates
}

// Build 將計畫內所有餐點的食材彙整、估價、分類並換算幣別
func (b *Builder) Build(plan *common.WeeklyPlan, currency string) (*common.GroceryList, error) {
	if plan == nil {
		return nil, common.NewValidationError("plan is required")
	}
	agg := NewAggregator(b.units)
	for _, meal := range plan.Meals() {
		for _, ing := range meal.Ingredients {
			agg.AddIngredient(ing)
		}
	}

	list, err := b.fromItems(agg.Items(), currency)
	if err != nil {
		return nil, err
	}
	list.PlanID = plan.ID

	common.LogDebug("購物清單建立完成",
		zap.String("plan_id", plan.ID),
		zap.Int("items", len(list.Items)),
		zap.String("currency", list.Currency),
		zap.Float64("total_usd", list.TotalCostUSD),
	)
	return list, nil
}

// Estimate 對臨時輸入的食材字串估價
func (b *Builder) Estimate(raws []string, currency string) (*common.GroceryList, error) {
	agg := NewAggregator(b.units)
	agg.Aggregate(raws)
	return b.fromItems(agg.Items(), currency)
}

func (b *Builder) fromItems(ingredients []common.Ingredient, currency string) (*common.GroceryList, error) {
	rate, err := b.rates.Rate(currency)
	if err != nil {
		return nil, err
	}
	list := &common.GroceryList{
		ID:           uuid.New().String(),
		Currency:     normalizeCode(currency),
		ExchangeRate: rate,
		RateNote:     b.rates.Note(),
		Items:        make([]common.GroceryItem, 0, len(ingredients)),
		CreatedAt:    b.now(),
	}

	for _, ing := range ingredients {
		var cost float64
		if ing.UnitCostUSD != nil && *ing.UnitCostUSD >= 0 {
			cost = *ing.UnitCostUSD * ing.Quantity
		} else {
			cost = b.prices.EstimateIngredientCost(ing.Name, ing.Quantity, ing.Unit)
		}
		cost = common.RoundMoney(cost)
		list.Items = append(list.Items, common.GroceryItem{
			Name:             ing.Name,
			Quantity:         common.RoundMoney(ing.Quantity),
			Unit:             ing.Unit,
			EstimatedCostUSD: cost,
			LocalCost:        common.RoundMoney(cost * rate),
			Currency:         list.Currency,
			Category:         b.prices.Category(ing.Name),
		})
		list.TotalCostUSD += cost
	}

	sort.SliceStable(list.Items, func(i, j int) bool {
		ci, cj := categoryOrder[list.Items[i].Category], categoryOrder[list.Items[j].Category]
		if ci != cj {
			return ci < cj
		}
		return list.Items[i].Name < list.Items[j].Name
	})
	list.TotalCostUSD = common.RoundMoney(list.TotalCostUSD)
	list.TotalCostLocal = common.RoundMoney(list.TotalCostUSD * rate)
	return list, nil
}
