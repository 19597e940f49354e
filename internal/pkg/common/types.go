package common

import (
	"fmt"
	"strings"
	"time"
)

// MealType 餐別
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// PlanMealTypes 每日計畫需要填滿的三個餐別（依序）
var PlanMealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// Label 餐別的顯示名稱，用於搜尋字串與占位餐名
func (t MealType) Label() string {
	switch t {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	case MealSnack:
		return "Snack"
	default:
		return "Meal"
	}
}

// Valid 是否為已知餐別
func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// SourceTier 餐點的資料來源層級
type SourceTier string

const (
	TierStructured SourceTier = "structured"
	TierGenerative SourceTier = "generative"
	TierFallback   SourceTier = "fallback"
)

// WeekDays 計畫中的星期名稱，索引即 dayIndex
var WeekDays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// PlanDays 一份週計畫固定的天數
const PlanDays = 7

// DietTypes 支援的飲食類型；空字串表示不限
var DietTypes = []string{"vegetarian", "vegan", "pescatarian", "gluten-free", "keto", "paleo"}

// ValidDiet 是否為支援的飲食類型（不分大小寫，空字串視為合法）
func ValidDiet(diet string) bool {
	diet = strings.ToLower(strings.TrimSpace(diet))
	if diet == "" {
		return true
	}
	for _, d := range DietTypes {
		if d == diet {
			return true
		}
	}
	return false
}

// Nutrition 營養資訊（整份餐點）
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Ingredient 食材
type Ingredient struct {
	Name        string   `json:"name"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	UnitCostUSD *float64 `json:"unitCostUSD"`
}

// MealCandidate 單一來源取得的餐點
type MealCandidate struct {
	Name             string       `json:"name"`
	Type             MealType     `json:"type"`
	Cuisine          string       `json:"cuisine"`
	DietTag          string       `json:"dietTag"`
	Description      string       `json:"description,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	Instructions     []string     `json:"instructions"`
	Nutrition        Nutrition    `json:"nutrition"`
	EstimatedCostUSD float64      `json:"estimatedCostUSD"`
	Servings         int          `json:"servings"`
	SourceTier       SourceTier   `json:"sourceTier"`
	Placeholder      bool         `json:"placeholder,omitempty"`
}

// Usable 是否具備組成計畫所需的內容（有名稱、食材與步驟）
func (m MealCandidate) Usable() bool {
	return strings.TrimSpace(m.Name) != "" &&
		len(m.Ingredients) > 0 &&
		len(m.Instructions) > 0 &&
		m.Nutrition.Calories >= 0
}

// NameKey 用於唯一性比對的餐名鍵
func (m MealCandidate) NameKey() string {
	return NameKey(m.Name)
}

// NameKey 將餐名轉為不分大小寫、去除前後空白的比對鍵
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Clone 深拷貝，確保計畫獨占其餐點
func (m MealCandidate) Clone() MealCandidate {
	out := m
	if m.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(m.Ingredients))
		for i, ing := range m.Ingredients {
			out.Ingredients[i] = ing
			if ing.UnitCostUSD != nil {
				v := *ing.UnitCostUSD
				out.Ingredients[i].UnitCostUSD = &v
			}
		}
	}
	if m.Instructions != nil {
		out.Instructions = append([]string(nil), m.Instructions...)
	}
	return out
}

// DayMeals 一天的三餐
type DayMeals struct {
	Breakfast MealCandidate `json:"breakfast"`
	Lunch     MealCandidate `json:"lunch"`
	Dinner    MealCandidate `json:"dinner"`
}

// Get 依餐別取得餐點
func (d DayMeals) Get(t MealType) MealCandidate {
	switch t {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	default:
		return d.Dinner
	}
}

// Set 依餐別設定餐點
func (d *DayMeals) Set(t MealType, meal MealCandidate) {
	switch t {
	case MealBreakfast:
		d.Breakfast = meal
	case MealLunch:
		d.Lunch = meal
	default:
		d.Dinner = meal
	}
}

// All 依早午晚順序回傳三餐
func (d DayMeals) All() []MealCandidate {
	return []MealCandidate{d.Breakfast, d.Lunch, d.Dinner}
}

// DaySlot 計畫中的一天
type DaySlot struct {
	DayIndex      int      `json:"dayIndex"`
	DayName       string   `json:"dayName"`
	Meals         DayMeals `json:"meals"`
	TotalCostUSD  float64  `json:"totalCostUSD"`
	TotalCalories float64  `json:"totalCalories"`
}

// Recompute 由三餐重新計算當日總額
func (d *DaySlot) Recompute() {
	d.TotalCostUSD = 0
	d.TotalCalories = 0
	for _, meal := range d.Meals.All() {
		d.TotalCostUSD += meal.EstimatedCostUSD
		d.TotalCalories += meal.Nutrition.Calories
	}
	d.TotalCostUSD = RoundMoney(d.TotalCostUSD)
	d.TotalCalories = RoundMoney(d.TotalCalories)
}

// WeeklyPlan 週餐點計畫
type WeeklyPlan struct {
	ID                 string             `json:"id"`
	Days               []DaySlot          `json:"days"`
	TotalBudgetUSD     float64            `json:"totalBudgetUSD"`
	TotalCostUSD       float64            `json:"totalCostUSD"`
	BudgetRemainingUSD float64            `json:"budgetRemainingUSD"`
	Cuisine            string             `json:"cuisine"`
	DietType           string             `json:"dietType"`
	PeopleCount        int                `json:"peopleCount"`
	TierCounts         map[SourceTier]int `json:"tierCounts"`
	Degraded           bool               `json:"degraded"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// Recompute 重新計算每日與整週的總額、來源統計
// 整週總額由四捨五入後的每日總額加總；剩餘預算可能為負數（超支本身就是有意義的訊號）
func (p *WeeklyPlan) Recompute() {
	p.TotalCostUSD = 0
	p.TierCounts = map[SourceTier]int{}
	p.Degraded = false
	for i := range p.Days {
		p.Days[i].Recompute()
		p.TotalCostUSD += p.Days[i].TotalCostUSD
		for _, meal := range p.Days[i].Meals.All() {
			p.TierCounts[meal.SourceTier]++
			if meal.SourceTier != TierStructured || meal.Placeholder {
				p.Degraded = true
			}
		}
	}
	p.TotalCostUSD = RoundMoney(p.TotalCostUSD)
	p.BudgetRemainingUSD = RoundMoney(p.TotalBudgetUSD - p.TotalCostUSD)
}

// Meals 依日期與餐別順序回傳計畫內所有餐點
func (p *WeeklyPlan) Meals() []MealCandidate {
	out := make([]MealCandidate, 0, len(p.Days)*len(PlanMealTypes))
	for _, day := range p.Days {
		out = append(out, day.Meals.All()...)
	}
	return out
}

// GroceryCategory 購物清單分類
type GroceryCategory string

const (
	CategoryProduce GroceryCategory = "Produce"
	CategoryDairy   GroceryCategory = "Dairy"
	CategoryMeat    GroceryCategory = "Meat & Seafood"
	CategoryPantry  GroceryCategory = "Pantry"
	CategoryOther   GroceryCategory = "Other"
)

// GroceryItem 購物清單項目
type GroceryItem struct {
	Name             string          `json:"name"`
	Quantity         float64         `json:"quantity"`
	Unit             string          `json:"unit"`
	EstimatedCostUSD float64         `json:"estimatedCostUSD"`
	LocalCost        float64         `json:"localCost"`
	Currency         string          `json:"currency"`
	Category         GroceryCategory `json:"category"`
}

// GroceryList 由週計畫衍生的購物清單，只以 ID 參照計畫
type GroceryList struct {
	ID             string        `json:"id"`
	PlanID         string        `json:"planId"`
	Currency       string        `json:"currency"`
	ExchangeRate   float64       `json:"exchangeRate"`
	RateNote       string        `json:"rateNote"`
	Items          []GroceryItem `json:"items"`
	TotalCostUSD   float64       `json:"totalCostUSD"`
	TotalCostLocal float64       `json:"totalCostLocal"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// PlanRequest 週計畫請求
type PlanRequest struct {
	Cuisine        string   `json:"cuisine" binding:"required"`
	Dietary        string   `json:"dietary" binding:"omitempty,diettype"`
	MinDailyBudget float64  `json:"minDailyBudget" binding:"gte=0"`
	MaxDailyBudget float64  `json:"maxDailyBudget" binding:"gt=0,gtefield=MinDailyBudget"`
	NumberOfPeople int      `json:"numberOfPeople" binding:"gte=1"`
	Days           int      `json:"days" binding:"omitempty,eq=7"`
	Allergies      []string `json:"allergies,omitempty"`
}

// Validate 驗證請求內容（不依賴 HTTP 綁定）
func (r PlanRequest) Validate() error {
	if strings.TrimSpace(r.Cuisine) == "" {
		return NewValidationError("cuisine is required")
	}
	if r.MinDailyBudget < 0 || r.MaxDailyBudget < 0 {
		return NewValidationError("daily budget cannot be negative")
	}
	if r.MaxDailyBudget <= 0 {
		return NewValidationError("maxDailyBudget must be greater than zero")
	}
	if r.MinDailyBudget > r.MaxDailyBudget {
		return NewValidationError("minDailyBudget cannot exceed maxDailyBudget")
	}
	if r.NumberOfPeople < 1 {
		return NewValidationError("numberOfPeople must be at least 1")
	}
	if !ValidDiet(r.Dietary) {
		return NewValidationError(fmt.Sprintf("unsupported dietary type: %s", r.Dietary))
	}
	if r.Days != 0 && r.Days != PlanDays {
		return NewValidationError(fmt.Sprintf("days must be %d", PlanDays))
	}
	return nil
}

// FormatQuantity 將數量格式化為簡短字串（整數不帶小數點）
func FormatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}
