package grocery

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"
)

// BaseCurrency 價格表使用的幣別
const BaseCurrency = "USD"

// DefaultRateNote 匯率為靜態近似值的說明，會附在每份購物清單上
const DefaultRateNote = "Exchange rates are static approximations and are not updated live; local costs are estimates only."

// RateTable 不可變的靜態匯率表（1 USD 可兌換的金額）
type RateTable struct {
	rates map[string]float64
	note  string
}

// NewRateTable 建立匯率表，USD 一律存在且為 1
func NewRateTable(rates map[string]float64, note string) RateTable {
	t := RateTable{rates: map[string]float64{BaseCurrency: 1}, note: note}
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		t.rates[code] = rate
	}
	if t.note == "" {
		t.note = DefaultRateNote
	}
	return t
}

// DefaultRates 內建匯率
var DefaultRates = NewRateTable(map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"AUD": 1.52,
	"JPY": 149.5,
	"CNY": 7.24,
	"TWD": 32.1,
	"KRW": 1330,
	"INR": 83.2,
	"MXN": 17.1,
	"BRL": 4.97,
}, DefaultRateNote)

// WithOverrides 以設定檔中的匯率覆蓋，回傳新的表
func (t RateTable) WithOverrides(overrides map[string]float64) RateTable {
	merged := make(map[string]float64, len(t.rates)+len(overrides))
	for code, rate := range t.rates {
		merged[code] = rate
	}
	for code, rate := range overrides {
		merged[strings.ToUpper(code)] = rate
	}
	return NewRateTable(merged, t.note)
}

// Rate 取得匯率，未知幣別回傳驗證錯誤
func (t RateTable) Rate(code string) (float64, error) {
	code = normalizeCode(code)
	rate, ok := t.rates[code]
	if !ok {
		return 0, common.NewValidationError(fmt.Sprintf("unsupported currency: %s", code))
	}
	return rate, nil
}

// Convert 將美元金額換算為指定幣別
func (t RateTable) Convert(usd float64, code string) (float64, error) {
	rate, err := t.Rate(code)
	if err != nil {
		return 0, err
	}
	return usd * rate, nil
}

// Codes 支援的幣別（排序後）
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Note 匯率說明
func (t RateTable) Note() string {
	return t.note
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return BaseCurrency
	}
	return code
}
