package analysis

import (
	"regexp"
	"strings"
)

// yearPattern 匹配 1800-1999 的四位年份
var yearPattern = regexp.MustCompile(`\b1[89]\d{2}\b`)

// monthNames 英文月份全称
var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// categoryRule 分类规则，按表内顺序即优先级匹配
type categoryRule struct {
	category Category
	keywords []string
}

// classifyRules 静态分类规则表
// 人物分析优先于关系，关系优先于时间线，其余依次降级，
// 全部未命中则归入 comprehensive
var classifyRules = []categoryRule{
	{
		category: CategoryCharacterAnalysis,
		keywords: []string{
			"who is", "who was", "character", "personality", "motivation",
			"biography", "tell me about", "describe the role",
		},
	},
	{
		category: CategoryRelationships,
		keywords: []string{
			"relationship", "between", "interact", "interaction", "connection",
			"allies", "enemies", "married", "friendship", "rivalry",
		},
	},
	{
		category: CategoryTemporal,
		keywords: []string{
			"when", "timeline", "chronology", "chronological", "what year",
			"what month", "during the", "before the", "after the",
		},
	},
	{
		category: CategoryThemes,
		keywords: []string{
			"theme", "meaning", "symbolism", "significance", "moral",
			"tension", "perspective", "cultural", "lesson", "represent",
		},
	},
	{
		category: CategoryStoryProgression,
		keywords: []string{
			"what happened", "what happens", "sequence of events", "unfold",
			"progression", "lead to", "led to", "outcome", "aftermath",
		},
	},
}

// Classify 对查询做类别判定
// 纯函数：同一查询永远得到同一类别
func Classify(query string) Category {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return CategoryComprehensive
	}

	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.category
			}
		}
		// 时间类额外匹配年份和月份
		if rule.category == CategoryTemporal {
			if yearPattern.MatchString(q) {
				return CategoryTemporal
			}
			for _, m := range monthNames {
				if containsWord(q, m) {
					return CategoryTemporal
				}
			}
		}
	}

	// 人物名直接命中也归入人物分析
	for name := range knownFigures {
		if containsWord(q, name) {
			return CategoryCharacterAnalysis
		}
	}

	return CategoryComprehensive
}

// containsWord 按词边界匹配，避免 "may" 命中 "mayor" 之类的误报
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || !isWordChar(text[start-1])
		rightOK := end == len(text) || !isWordChar(text[end])
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
		if idx >= len(text) {
			return false
		}
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
