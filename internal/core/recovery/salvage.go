package recovery

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"meal-planner/internal/pkg/common"
)

var flatObjectPattern = regexp.MustCompile(`\{[^{}]*\}`)

type span struct {
	depth      int
	start, end int
}

// Salvage 逐一解析文字中完整的物件字面值，回傳至少一個成功者
// 先用能辨識字串的括號掃描取最淺層的完整物件，再退回非巢狀的正規表示式
func Salvage(raw string) (any, bool) {
	text := stripFence(raw)

	spans := scanObjects(text)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].depth < spans[j].depth })
	for i := 0; i < len(spans); {
		depth := spans[i].depth
		var level []string
		for ; i < len(spans) && spans[i].depth == depth; i++ {
			level = append(level, text[spans[i].start:spans[i].end])
		}
		if items := parseEach(level); len(items) > 0 {
			return annotate(items), true
		}
	}

	if items := parseEach(flatObjectPattern.FindAllString(text, -1)); len(items) > 0 {
		return annotate(items), true
	}
	return nil, false
}

// scanObjects 找出所有括號平衡的物件，依起點排序；depth 只計算有關閉的外層
func scanObjects(text string) []span {
	var (
		out    []span
		stack  []int
		inStr  bool
		escape bool
	)
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inStr {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '{':
			stack = append(stack, i)
		case '}':
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			out = append(out, span{depth: len(stack), start: start, end: i + 1})
		}
	}
	// 結尾仍未關閉的 { 不算外層：扣掉位於物件起點之前的未關閉括號
	for i := range out {
		out[i].depth -= sort.SearchInts(stack, out[i].start)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func parseEach(candidates []string) []any {
	var items []any
	for _, c := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err != nil {
			fixed := trailingCommaPattern.ReplaceAllString(common.QuoteJSONKeys(c), "$1")
			if err := json.Unmarshal([]byte(fixed), &obj); err != nil {
				continue
			}
		}
		items = append(items, obj)
	}
	return items
}

func annotate(items []any) []any {
	first, ok := items[0].(map[string]any)
	if !ok {
		return items
	}
	desc, _ := first["description"].(string)
	if strings.TrimSpace(desc) == "" {
		first["description"] = PartialNote
	} else {
		first["description"] = desc + " (" + PartialNote + ")"
	}
	return items
}
