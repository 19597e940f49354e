// Package grocery 食材正規化、單位換算、價格估算與購物清單建立
package grocery

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"meal-planner/internal/pkg/common"
)

// NormalizeName 食材名稱正規化：小寫、去除重音與標點、合併空白
func NormalizeName(name string) string {
	decomposed := norm.NFD.String(strings.ToLower(name))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(norm.NFC.String(b.String())), " ")
}

var vulgarFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75,
	'⅓': 1.0 / 3, '⅔': 2.0 / 3,
	'⅕': 0.2, '⅖': 0.4, '⅗': 0.6, '⅘': 0.8,
	'⅙': 1.0 / 6, '⅚': 5.0 / 6,
	'⅛': 0.125, '⅜': 0.375, '⅝': 0.625, '⅞': 0.875,
}

// 開頭數量：帶分數、分數、小數或整數，後面可接 unicode 分數
var leadingQuantityPattern = regexp.MustCompile(`^\s*(?:(\d+)\s+(\d+)\s*/\s*(\d+)|(\d+)\s*/\s*(\d+)|(\d+(?:\.\d+)?|\.\d+))?\s*([¼½¾⅓⅔⅕⅖⅗⅘⅙⅚⅛⅜⅝⅞])?`)

// ParseIngredient 將 "1 1/2 cups Rice" 之類的字串拆為數量、單位與名稱
// 只有單位表認得的字才會被當作單位；沒有數量時預設 1 unit
func ParseIngredient(raw string) common.Ingredient {
	return DefaultUnits.Parse(raw)
}

// Parse 使用指定單位表解析食材字串
func (t UnitTable) Parse(raw string) common.Ingredient {
	text := strings.TrimSpace(raw)
	qty, rest, ok := parseQuantity(text)
	if !ok {
		return common.Ingredient{Name: NormalizeName(text), Quantity: 1, Unit: UnitDefault}
	}

	unit := UnitDefault
	fields := strings.Fields(rest)
	if len(fields) > 0 {
		if u, known := t.Canonical(fields[0]); known {
			unit = u
			fields = fields[1:]
			// "cups of rice"
			if len(fields) > 1 && strings.EqualFold(fields[0], "of") {
				fields = fields[1:]
			}
		}
	}
	return common.Ingredient{
		Name:     NormalizeName(strings.Join(fields, " ")),
		Quantity: qty,
		Unit:     unit,
	}
}

func parseQuantity(text string) (float64, string, bool) {
	m := leadingQuantityPattern.FindStringSubmatchIndex(text)
	if m == nil || m[1] == 0 {
		return 0, text, false
	}
	sub := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return text[m[2*i]:m[2*i+1]]
	}

	var qty float64
	switch {
	case sub(1) != "":
		whole, _ := strconv.ParseFloat(sub(1), 64)
		qty = whole + fraction(sub(2), sub(3))
	case sub(4) != "":
		qty = fraction(sub(4), sub(5))
	case sub(6) != "":
		qty, _ = strconv.ParseFloat(sub(6), 64)
	}
	if v := sub(7); v != "" {
		qty += vulgarFractions[[]rune(v)[0]]
	}
	return qty, text[m[1]:], true
}

func fraction(num, den string) float64 {
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
