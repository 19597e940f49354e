// Package recovery 從生成式模型的原始輸出中盡力取回 JSON 值
package recovery

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"meal-planner/internal/pkg/common"
)

// PartialNote 部分救回時附加在第一筆結果 description 上的說明
const PartialNote = "partial results: some generated items could not be recovered"

// ErrUnrecoverable 所有策略都無法取得可用的 JSON
var ErrUnrecoverable = errors.New("recovery: no JSON value could be recovered")

// Strategy 一個獨立的修復策略
type Strategy struct {
	Name  string
	Apply func(raw string) (any, bool)
}

// Strategies 依序嘗試的策略，第一個成功者勝出
var Strategies = []Strategy{
	{Name: "direct", Apply: Direct},
	{Name: "slice", Apply: Slice},
	{Name: "repair", Apply: Repair},
	{Name: "salvage", Apply: Salvage},
}

// Report 記錄是哪個策略取得結果
type Report struct {
	Strategy string
	Partial  bool
}

// Recover 回傳 map[string]any、[]any 或 nil，不會 panic
func Recover(raw string) any {
	v, _ := RecoverWithReport(raw)
	return v
}

// RecoverWithReport 與 Recover 相同，另外回傳勝出的策略
func RecoverWithReport(raw string) (any, Report) {
	if strings.TrimSpace(raw) == "" {
		return nil, Report{}
	}
	for _, s := range Strategies {
		if v, ok := s.Apply(raw); ok {
			return v, Report{Strategy: s.Name, Partial: s.Name == "salvage"}
		}
	}
	return nil, Report{}
}

// RecoverInto 將救回的值解碼到 out
func RecoverInto(raw string, out any) (Report, error) {
	v, rep := RecoverWithReport(raw)
	if v == nil {
		return rep, ErrUnrecoverable
	}
	b, err := json.Marshal(v)
	if err != nil {
		return rep, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return rep, err
	}
	return rep, nil
}

// Direct 直接解析去除空白後的文字
func Direct(raw string) (any, bool) {
	return parseContainer(strings.TrimSpace(raw))
}

// Slice 去除 code fence，從第一個 { 或 [ 開始解析
// 後方若只剩說明文字則忽略；若還有其他物件則交給 Repair 處理
func Slice(raw string) (any, bool) {
	text := stripFence(raw)
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return nil, false
	}
	text = text[start:]
	if end := strings.LastIndexAny(text, "}]"); end >= 0 {
		if v, ok := parseContainer(text[:end+1]); ok {
			return v, true
		}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if rest := text[dec.InputOffset():]; strings.ContainsAny(rest, "{[") {
		return nil, false
	}
	return container(v)
}

var (
	blockCommentPattern  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
	adjacentObjPattern   = regexp.MustCompile(`}\s*{`)
)

// Repair 對擷取出的文字做常見修補後再解析
func Repair(raw string) (any, bool) {
	text := stripFence(raw)
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return nil, false
	}
	text = text[start:]
	if end := strings.LastIndexAny(text, "}]"); end >= 0 {
		text = text[:end+1]
	}

	text = stripComments(text)
	text = trailingCommaPattern.ReplaceAllString(text, "$1")
	text = adjacentObjPattern.ReplaceAllString(text, "},{")
	text = strings.TrimSpace(text)
	if v, ok := parseRepaired(text); ok {
		return v, true
	}

	// 鍵補引號的正規表示式也會改到字串值，只在其他修補不足時才使用
	quoted := trailingCommaPattern.ReplaceAllString(common.QuoteJSONKeys(text), "$1")
	return parseRepaired(quoted)
}

func parseRepaired(text string) (any, bool) {
	if v, ok := parseContainer(text); ok {
		return v, true
	}
	// 連續的物件字面值：包成陣列
	if strings.HasPrefix(text, "{") {
		if v, ok := parseContainer("[" + text + "]"); ok {
			return v, true
		}
	}
	return nil, false
}

func stripComments(text string) string {
	text = blockCommentPattern.ReplaceAllString(text, "")
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if i := strings.Index(text, "```"); i >= 0 {
		rest := text[i+3:]
		// 跳過語言標記（例如 ```json）
		if nl := strings.Index(rest, "\n"); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		}
		if j := strings.Index(rest, "```"); j >= 0 {
			rest = rest[:j]
		}
		text = strings.TrimSpace(rest)
	}
	return text
}

func parseContainer(text string) (any, bool) {
	if text == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return container(v)
}

func container(v any) (any, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}
