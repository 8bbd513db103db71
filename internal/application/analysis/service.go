package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"historical-qa-api/pkg/errors"
	"historical-qa-api/pkg/logger"
	"historical-qa-api/pkg/metrics"
)

// Service 历史问答编排服务
type Service struct {
	coordinator *Coordinator
	compressor  *Compressor
	generator   Generator
	cache       AnswerCache // 可为 nil

	// group 合并同一缓存键上的并发请求，避免重复生成
	group singleflight.Group
}

// NewService 创建问答服务
func NewService(coordinator *Coordinator, compressor *Compressor, generator Generator, cache AnswerCache) *Service {
	return &Service{
		coordinator: coordinator,
		compressor:  compressor,
		generator:   generator,
		cache:       cache,
	}
}

// Analyze 执行一次完整的问答分析
// 流程：分类 -> 双通道检索 -> 预算压缩 -> 提示词组装 -> 生成答案
func (s *Service) Analyze(ctx context.Context, req Request) (*Result, error) {
	ctx, span := tracer.Start(ctx, "analysis.Service.Analyze")
	defer span.End()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New(errors.CodeInvalidParam, "invalid parameter").WithDetail("query must not be empty")
	}

	category := req.AnalysisType
	if category == "" {
		category = Classify(query)
	} else if !category.Valid() {
		return nil, errors.New(errors.CodeInvalidParam, "unknown analysis type").WithDetail(string(req.AnalysisType))
	}

	cacheKey := answerCacheKey(query, category)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err != nil {
			logger.Warn(ctx, "answer cache lookup failed", "error", err.Error())
		} else if cached != nil {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.CacheHits.WithLabelValues("miss").Inc()
		}
	}

	// 并发到达的同一查询只跑一次完整管线
	v, err, _ := s.group.Do(cacheKey, func() (interface{}, error) {
		return s.runPipeline(ctx, query, category)
	})
	if err != nil {
		return nil, err
	}
	result := v.(*Result)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			logger.Warn(ctx, "answer cache write failed", "error", err.Error())
		}
	}

	return result, nil
}

// runPipeline 检索、压缩并生成答案
func (s *Service) runPipeline(ctx context.Context, query string, category Category) (*Result, error) {
	ctx, span := tracer.Start(ctx, "analysis.Service.runPipeline")
	defer span.End()

	start := time.Now()

	bundle, err := s.coordinator.Gather(ctx, query, category)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeRetrievalFailed, "evidence retrieval failed")
	}
	metrics.AnalysisEvidenceItems.WithLabelValues(string(category)).Observe(float64(len(bundle.Items)))

	s.compressor.Compress(ctx, bundle, query)

	answer, err := s.generator.Generate(ctx, SystemPrompt(category), BuildUserPrompt(query, bundle))
	if err != nil {
		span.RecordError(err)
		metrics.AnalysisTotal.WithLabelValues(string(category), string(bundle.SearchMethod), "error").Inc()
		return nil, errors.Wrap(err, errors.CodeLLMCallFailed, "answer generation failed")
	}

	elapsed := time.Since(start)
	result := &Result{
		Answer:             answer,
		Category:           category,
		Entities:           bundle.EntitiesFound,
		ProcessingTime:     elapsed,
		SearchMethod:       bundle.SearchMethod,
		CompressionApplied: bundle.CompressionApplied,
		OverBudget:         bundle.OverBudget,
		BooksReferenced:    bundle.PerSourceCounts,
	}

	metrics.AnalysisTotal.WithLabelValues(string(category), string(bundle.SearchMethod), "ok").Inc()
	metrics.AnalysisDuration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
	logger.Info(ctx, "analysis completed",
		"category", category,
		"search_method", bundle.SearchMethod,
		"evidence_items", len(bundle.Items),
		"compression_applied", bundle.CompressionApplied,
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return result, nil
}

// answerCacheKey 归一化查询后取哈希作为缓存键
func answerCacheKey(query string, category Category) string {
	sum := sha256.Sum256([]byte(normalizeText(query) + "|" + string(category)))
	return "analysis:" + hex.EncodeToString(sum[:16])
}
