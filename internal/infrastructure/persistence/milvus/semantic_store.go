package milvus

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"

	"historical-qa-api/internal/application/analysis"
)

// SemanticStore 基于 Milvus 的语义检索通道
// embedder 或仓储缺失时能力关闭，检索全部落到手工通道
type SemanticStore struct {
	embedder       embedding.Embedder
	repo           *Repository
	disabledReason string
}

// NewSemanticStore 创建语义检索通道
// embedder 为 nil 时返回的实例 Enabled 恒为 false
func NewSemanticStore(embedder embedding.Embedder, repo *Repository) *SemanticStore {
	s := &SemanticStore{embedder: embedder, repo: repo}
	switch {
	case embedder == nil:
		s.disabledReason = "embedding service not configured"
	case repo == nil:
		s.disabledReason = "vector store not configured"
	}
	return s
}

// Enabled 能力是否可用
func (s *SemanticStore) Enabled() bool {
	return s.embedder != nil && s.repo != nil
}

// DisabledReason 能力不可用时的原因说明
func (s *SemanticStore) DisabledReason() string {
	return s.disabledReason
}

// Search 向量相似度检索
func (s *SemanticStore) Search(ctx context.Context, query string, topK int) ([]analysis.EvidenceItem, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("semantic store disabled: %s", s.disabledReason)
	}
	ctx, span := tracer.Start(ctx, "milvus.SemanticStore.Search")
	defer span.End()

	vectors, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned no vector")
	}

	queryVector := make([]float32, len(vectors[0]))
	for i, v := range vectors[0] {
		queryVector[i] = float32(v)
	}

	hits, err := s.repo.SearchPassages(ctx, queryVector, topK)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	items := make([]analysis.EvidenceItem, 0, len(hits))
	for _, h := range hits {
		text := h.TextContent
		if h.ChapterTitle != "" {
			text = h.ChapterTitle + ": " + text
		}
		items = append(items, analysis.EvidenceItem{
			Text:           text,
			SourceKind:     passageKind(h.PassageType),
			SourceDocument: h.SourceBook,
			// COSINE 返回的是距离，转换为相似度
			Score:      1 - float64(h.Score),
			Provenance: analysis.ProvenanceSemantic,
		})
	}
	return items, nil
}

// passageKind 段落类型映射到证据来源类型
func passageKind(passageType string) analysis.SourceKind {
	switch passageType {
	case "event":
		return analysis.SourceEvent
	case "relationship":
		return analysis.SourceRelationship
	default:
		return analysis.SourceEpisode
	}
}
