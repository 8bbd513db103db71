package milvus

import (
	"context"
	"fmt"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"historical-qa-api/pkg/metrics"
)

// Repository 段落向量仓储
type Repository struct {
	client *Client
}

// NewRepository 创建段落向量仓储
func NewRepository(client *Client) *Repository {
	return &Repository{client: client}
}

// SearchResult 检索结果
type SearchResult struct {
	ID           string
	Score        float32
	TextContent  string
	SourceBook   string
	ChapterTitle string
	PassageType  string
}

// CreateCollection 创建集合
func (r *Repository) CreateCollection(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	collName := r.client.Collection()
	ctx, span := tracer.Start(ctx, "milvus.CreateCollection",
		trace.WithAttributes(attribute.String("collection", collName)))
	defer span.End()

	schema := PassagesSchema(collName)
	if err := r.client.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// CreateIndex 创建 HNSW 索引
func (r *Repository) CreateIndex(ctx context.Context) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	collName := r.client.Collection()
	ctx, span := tracer.Start(ctx, "milvus.CreateIndex",
		trace.WithAttributes(attribute.String("collection", collName)))
	defer span.End()

	idx, err := entity.NewIndexHNSW(
		entity.COSINE,
		r.client.config.HNSWM,
		r.client.config.HNSWEfConstruction,
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}

	if err := r.client.milvus.CreateIndex(ctx, collName, "vector", idx, false); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// InsertPassages 批量写入段落
func (r *Repository) InsertPassages(ctx context.Context, passages []*Passage) error {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return fmt.Errorf("milvus client not configured")
	}
	collName := r.client.Collection()
	ctx, span := tracer.Start(ctx, "milvus.InsertPassages",
		trace.WithAttributes(
			attribute.String("collection", collName),
			attribute.Int("count", len(passages)),
		))
	defer span.End()

	if len(passages) == 0 {
		return nil
	}

	ids := make([]string, len(passages))
	vectors := make([][]float32, len(passages))
	books := make([]string, len(passages))
	chapters := make([]string, len(passages))
	types := make([]string, len(passages))
	texts := make([]string, len(passages))

	for i, p := range passages {
		ids[i] = p.ID
		vectors[i] = p.Vector
		books[i] = p.SourceBook
		chapters[i] = p.ChapterTitle
		types[i] = p.PassageType
		texts[i] = p.TextContent
	}

	_, err := r.client.milvus.Insert(ctx, collName, "",
		entity.NewColumnVarChar("id", ids),
		entity.NewColumnFloatVector("vector", VectorDimension, vectors),
		entity.NewColumnVarChar("source_book", books),
		entity.NewColumnVarChar("chapter_title", chapters),
		entity.NewColumnVarChar("passage_type", types),
		entity.NewColumnVarChar("text_content", texts),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to insert passages: %w", err)
	}
	return nil
}

// SearchPassages 向量相似度检索
// COSINE 距离转换为相似度分值 score = 1 - distance
func (r *Repository) SearchPassages(ctx context.Context, queryVector []float32, topK int) ([]*SearchResult, error) {
	if r == nil || r.client == nil || r.client.milvus == nil {
		return nil, fmt.Errorf("milvus client not configured")
	}
	collName := r.client.Collection()
	ctx, span := tracer.Start(ctx, "milvus.SearchPassages",
		trace.WithAttributes(
			attribute.String("collection", collName),
			attribute.Int("top_k", topK),
		))
	defer span.End()

	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create search param: %w", err)
	}

	start := time.Now()
	results, err := r.client.milvus.Search(ctx,
		collName,
		nil,
		"",
		[]string{"id", "text_content", "source_book", "chapter_title", "passage_type"},
		[]entity.Vector{entity.FloatVector(queryVector)},
		"vector",
		entity.COSINE,
		topK,
		sp,
	)
	metrics.MilvusSearchDuration.WithLabelValues(collName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.MilvusSearchTotal.WithLabelValues(collName, "error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}
	metrics.MilvusSearchTotal.WithLabelValues(collName, "ok").Inc()

	var out []*SearchResult
	for _, result := range results {
		for i := 0; i < result.ResultCount; i++ {
			sr := &SearchResult{Score: result.Scores[i]}

			if col, ok := result.Fields.GetColumn("id").(*entity.ColumnVarChar); ok {
				sr.ID = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("text_content").(*entity.ColumnVarChar); ok {
				sr.TextContent = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("source_book").(*entity.ColumnVarChar); ok {
				sr.SourceBook = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("chapter_title").(*entity.ColumnVarChar); ok {
				sr.ChapterTitle = col.Data()[i]
			}
			if col, ok := result.Fields.GetColumn("passage_type").(*entity.ColumnVarChar); ok {
				sr.PassageType = col.Data()[i]
			}

			out = append(out, sr)
		}
	}

	span.SetAttributes(attribute.Int("result_count", len(out)))
	return out, nil
}
