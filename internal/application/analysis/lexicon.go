package analysis

import (
	"sort"
	"strings"
)

// knownFigures 1922 年士麦那大火相关的核心历史人物
// 键为小写触发词，值为档案库中的规范人名
var knownFigures = map[string]string{
	"jennings":  "Asa Jennings",
	"atatürk":   "Mustafa Kemal Atatürk",
	"ataturk":   "Mustafa Kemal Atatürk",
	"kemal":     "Mustafa Kemal Atatürk",
	"bristol":   "Mark Bristol",
	"horton":    "George Horton",
	"powell":    "Halsey Powell",
	"roosevelt": "Theodore Roosevelt Jr.",
}

// knownPlaces 核心地名
var knownPlaces = map[string]string{
	"smyrna": "Smyrna",
	"turkey": "Turkey",
	"greece": "Greece",
}

// relatedTerms 主题词到检索扩展词的映射
// 命中左侧词组时把右侧词并入关键词集合，弥补字面匹配的召回不足
var relatedTerms = []struct {
	triggers []string
	expand   []string
}{
	{triggers: []string{"humanitarian"}, expand: []string{"relief", "jennings"}},
	{triggers: []string{"american", "officials"}, expand: []string{"bristol", "policy"}},
	{triggers: []string{"turkish"}, expand: []string{"bristol", "republic"}},
	{triggers: []string{"atatürk"}, expand: []string{"bristol", "republic"}},
	{triggers: []string{"ataturk"}, expand: []string{"bristol", "republic"}},
}

// ExtractEntities 从查询中识别已知人物与地点
// 人物在前、地点在后，各自保持词典定义顺序无关的确定性输出（按触发位置排序）
func ExtractEntities(query string) []string {
	q := strings.ToLower(query)

	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	seen := make(map[string]bool)

	collect := func(lexicon map[string]string) {
		var part []hit
		for trigger, canonical := range lexicon {
			idx := strings.Index(q, trigger)
			if idx < 0 || !containsWord(q, trigger) {
				continue
			}
			if seen[canonical] {
				continue
			}
			seen[canonical] = true
			part = append(part, hit{pos: idx, name: canonical})
		}
		// map 遍历无序，按出现位置排序保证确定性
		for i := 1; i < len(part); i++ {
			for j := i; j > 0 && part[j].pos < part[j-1].pos; j-- {
				part[j], part[j-1] = part[j-1], part[j]
			}
		}
		hits = append(hits, part...)
	}

	collect(knownFigures)
	collect(knownPlaces)

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.name)
	}
	return out
}

// KnownFigures 返回词典中全部人物的规范名，按字母序去重
func KnownFigures() []string {
	seen := make(map[string]bool)
	var out []string
	for _, canonical := range knownFigures {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	sort.Strings(out)
	return out
}

// ExpandKeywords 生成检索关键词：查询分词去停用词后，附加主题扩展词
func ExpandKeywords(query string) []string {
	q := strings.ToLower(query)
	words := strings.FieldsFunc(q, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == 'ü' || r == 'é')
	})

	seen := make(map[string]bool)
	var out []string
	add := func(w string) {
		if w == "" || seen[w] || stopWords[w] {
			return
		}
		seen[w] = true
		out = append(out, w)
	}

	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		add(w)
	}

	for _, rt := range relatedTerms {
		matched := true
		for _, t := range rt.triggers {
			if !strings.Contains(q, t) {
				matched = false
				break
			}
		}
		// 多触发词规则要求全部命中，单触发词规则命中即扩展
		if matched {
			for _, e := range rt.expand {
				add(e)
			}
		}
	}

	return out
}

// stopWords 检索时忽略的高频词
var stopWords = map[string]bool{
	"the": true, "and": true, "was": true, "were": true, "what": true,
	"who": true, "how": true, "why": true, "when": true, "where": true,
	"did": true, "does": true, "about": true, "between": true, "during": true,
	"with": true, "from": true, "into": true, "that": true, "this": true,
	"their": true, "there": true, "have": true, "has": true, "had": true,
	"tell": true, "describe": true, "explain": true,
}
