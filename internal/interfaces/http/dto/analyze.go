package dto

import (
	"historical-qa-api/internal/application/analysis"
)

// AnalyzeRequest 问答分析请求
type AnalyzeRequest struct {
	Query        string `json:"query" binding:"required"`
	AnalysisType string `json:"analysis_type,omitempty"`
}

// AnalyzeResponse 问答分析响应
type AnalyzeResponse struct {
	Answer             string         `json:"answer"`
	Category           string         `json:"category"`
	EntitiesFound      int            `json:"entities_found"` // 识别出的人物数
	Entities           []string       `json:"entities"`
	ProcessingTime     float64        `json:"processing_time"` // 秒
	SearchMethod       string         `json:"search_method"`
	CompressionApplied bool           `json:"compression_applied"`
	OverBudget         bool           `json:"over_budget,omitempty"`
	BooksReferenced    map[string]int `json:"books_referenced,omitempty"`
}

// FromResult 将分析结果转换为响应
func FromResult(r *analysis.Result) *AnalyzeResponse {
	entities := r.Entities
	if entities == nil {
		entities = []string{}
	}
	return &AnalyzeResponse{
		Answer:             r.Answer,
		Category:           string(r.Category),
		EntitiesFound:      len(entities),
		Entities:           entities,
		ProcessingTime:     r.ProcessingTime.Seconds(),
		SearchMethod:       string(r.SearchMethod),
		CompressionApplied: r.CompressionApplied,
		OverBudget:         r.OverBudget,
		BooksReferenced:    r.BooksReferenced,
	}
}

// CapabilitiesResponse 系统能力响应
type CapabilitiesResponse struct {
	SemanticSearch bool     `json:"semantic_search"`
	DisabledReason string   `json:"disabled_reason,omitempty"`
	Categories     []string `json:"categories"`
	KnownFigures   []string `json:"known_figures"`
}
