package common

import (
	"fmt"
	"regexp"
	"strings"
)

var unquotedKeyPattern = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// IngredientSliceToString 將食材切片轉換為 "數量 單位 名稱" 的列表字串
func IngredientSliceToString(ingredients []Ingredient) string {
	if len(ingredients) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		part := ing.Name
		if ing.Quantity > 0 {
			part = fmt.Sprintf("%s %s %s", FormatQuantity(ing.Quantity), ing.Unit, ing.Name)
		}
		parts = append(parts, strings.Join(strings.Fields(part), " "))
	}
	return strings.Join(parts, ", ")
}
