// Package analysis 实现历史问答的查询分类、证据检索与答案编排
package analysis

import (
	"time"
)

// Category 查询类别
type Category string

const (
	CategoryComprehensive     Category = "comprehensive"
	CategoryCharacterAnalysis Category = "character_analysis"
	CategoryStoryProgression  Category = "story_progression"
	CategoryRelationships     Category = "relationships"
	CategoryThemes            Category = "themes"
	CategoryTemporal          Category = "temporal"
)

// Valid 判断类别是否合法
func (c Category) Valid() bool {
	switch c {
	case CategoryComprehensive, CategoryCharacterAnalysis, CategoryStoryProgression,
		CategoryRelationships, CategoryThemes, CategoryTemporal:
		return true
	}
	return false
}

// SourceKind 证据来源类型
type SourceKind string

const (
	SourceCharacterProfile SourceKind = "character_profile"
	SourceRelationship     SourceKind = "relationship"
	SourceEvent            SourceKind = "event"
	SourceEpisode          SourceKind = "episode"
)

// kindRank 合并排序时的来源优先级，值越小越靠前
func kindRank(k SourceKind) int {
	switch k {
	case SourceCharacterProfile:
		return 0
	case SourceRelationship:
		return 1
	case SourceEvent:
		return 2
	default:
		return 3
	}
}

// Provenance 检索通道来源
type Provenance string

const (
	ProvenanceSemantic Provenance = "semantic"
	ProvenanceManual   Provenance = "manual"
)

// SearchMethod 实际生效的检索方式
type SearchMethod string

const (
	SearchManual   SearchMethod = "manual"
	SearchSemantic SearchMethod = "semantic"
	SearchHybrid   SearchMethod = "hybrid"
)

// EvidenceItem 单条证据
type EvidenceItem struct {
	Text           string     `json:"text"`
	SourceKind     SourceKind `json:"source_kind"`
	SourceDocument string     `json:"source_document,omitempty"` // 来源书籍
	Score          float64    `json:"score,omitempty"`           // 语义相似度，手工通道为 0
	Provenance     Provenance `json:"provenance"`
	Entity         string     `json:"entity,omitempty"` // 关联的人物名
}

// Authoritative 人物档案为权威证据，压缩时原文保留
func (e *EvidenceItem) Authoritative() bool {
	return e.SourceKind == SourceCharacterProfile
}

// EvidenceBundle 合并后的证据集合
type EvidenceBundle struct {
	Items              []EvidenceItem `json:"items"`
	EntitiesFound      []string       `json:"entities_found"`
	SearchMethod       SearchMethod   `json:"search_method"`
	PerSourceCounts    map[string]int `json:"per_source_counts,omitempty"` // 语义通道各书籍命中数
	CompressionApplied bool           `json:"compression_applied"`
	OverBudget         bool           `json:"over_budget"`
}

// Size 证据正文总字符数
func (b *EvidenceBundle) Size() int {
	total := 0
	for i := range b.Items {
		total += len(b.Items[i].Text)
	}
	return total
}

// Empty 是否没有任何证据
func (b *EvidenceBundle) Empty() bool {
	return len(b.Items) == 0
}

// Request 分析请求
type Request struct {
	Query        string   `json:"query"`
	AnalysisType Category `json:"analysis_type,omitempty"` // 显式指定时跳过自动分类
}

// Result 分析结果
type Result struct {
	Answer             string         `json:"answer"`
	Category           Category       `json:"category"`
	Entities           []string       `json:"entities"`
	ProcessingTime     time.Duration  `json:"processing_time"`
	SearchMethod       SearchMethod   `json:"search_method"`
	CompressionApplied bool           `json:"compression_applied"`
	OverBudget         bool           `json:"over_budget,omitempty"`
	BooksReferenced    map[string]int `json:"books_referenced,omitempty"`
}
