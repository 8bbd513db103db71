package analysis

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"

	"historical-qa-api/internal/config"
	"historical-qa-api/pkg/logger"
	"historical-qa-api/pkg/metrics"
)

var tracer = otel.Tracer("analysis")

// Coordinator 双通道检索协调器
// 语义通道可选，手工通道常备；人物与关系类查询两路并发，
// 其余类别先语义后手工兜底
type Coordinator struct {
	graph    GraphStore
	semantic SemanticStore
	cfg      config.RetrievalConfig
}

// NewCoordinator 创建检索协调器，semantic 可为 nil
func NewCoordinator(graph GraphStore, semantic SemanticStore, cfg config.RetrievalConfig) *Coordinator {
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = 0.35
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 10 * time.Second
	}
	return &Coordinator{graph: graph, semantic: semantic, cfg: cfg}
}

// Gather 执行检索并合并证据
// 存储层错误只降级不上抛：单通道失败时以另一通道的结果继续
func (c *Coordinator) Gather(ctx context.Context, query string, category Category) (*EvidenceBundle, error) {
	ctx, span := tracer.Start(ctx, "analysis.Coordinator.Gather")
	defer span.End()

	entities := ExtractEntities(query)

	semanticCapable := c.semantic != nil && c.semantic.Enabled()
	// 人物与关系类查询对图谱命中率最高，直接两路并发
	manualEager := category == CategoryCharacterAnalysis || category == CategoryRelationships || !semanticCapable

	var (
		wg           sync.WaitGroup
		semanticHits []EvidenceItem
		manualHits   []EvidenceItem
	)

	if semanticCapable {
		wg.Add(1)
		go func() {
			defer wg.Done()
			semanticHits = c.searchSemantic(ctx, query)
		}()
	}
	if manualEager {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manualHits = c.searchManual(ctx, query, category, entities)
		}()
	}
	wg.Wait()

	// 语义结果缺失或置信度不足时补跑手工通道
	if !manualEager && len(semanticHits) == 0 {
		manualHits = c.searchManual(ctx, query, category, entities)
	}

	bundle := c.merge(semanticHits, manualHits)
	bundle.EntitiesFound = entities
	return bundle, nil
}

// searchSemantic 语义通道检索，低于相似度阈值的结果整体丢弃
func (c *Coordinator) searchSemantic(ctx context.Context, query string) []EvidenceItem {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	defer cancel()

	start := time.Now()
	hits, err := c.semantic.Search(ctx, query, c.cfg.TopK)
	metrics.RetrievalDuration.WithLabelValues("semantic").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalTotal.WithLabelValues("semantic", "error").Inc()
		logger.Warn(ctx, "semantic retrieval failed, degrading to manual", "error", err.Error())
		return nil
	}
	metrics.RetrievalTotal.WithLabelValues("semantic", "ok").Inc()

	filtered := hits[:0:0]
	for _, h := range hits {
		if h.Score >= c.cfg.MinSimilarity {
			h.Provenance = ProvenanceSemantic
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// searchManual 手工通道检索
func (c *Coordinator) searchManual(ctx context.Context, query string, category Category, entities []string) []EvidenceItem {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	defer cancel()

	start := time.Now()
	hits, err := c.graph.Retrieve(ctx, query, category, entities)
	metrics.RetrievalDuration.WithLabelValues("manual").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalTotal.WithLabelValues("manual", "error").Inc()
		logger.Error(ctx, "manual retrieval failed", err)
		return nil
	}
	metrics.RetrievalTotal.WithLabelValues("manual", "ok").Inc()

	for i := range hits {
		hits[i].Provenance = ProvenanceManual
	}
	return hits
}

// merge 合并两路结果：档案最前，其后按来源类型与相似度排序，并做近重复剔除
func (c *Coordinator) merge(semanticHits, manualHits []EvidenceItem) *EvidenceBundle {
	all := make([]EvidenceItem, 0, len(semanticHits)+len(manualHits))
	all = append(all, manualHits...)
	all = append(all, semanticHits...)

	sort.SliceStable(all, func(i, j int) bool {
		ri, rj := kindRank(all[i].SourceKind), kindRank(all[j].SourceKind)
		if ri != rj {
			return ri < rj
		}
		return all[i].Score > all[j].Score
	})

	deduped := dedupe(all)

	bundle := &EvidenceBundle{Items: deduped}

	hasSemantic, hasManual := false, false
	for _, item := range deduped {
		switch item.Provenance {
		case ProvenanceSemantic:
			hasSemantic = true
			if item.SourceDocument != "" {
				if bundle.PerSourceCounts == nil {
					bundle.PerSourceCounts = make(map[string]int)
				}
				bundle.PerSourceCounts[item.SourceDocument]++
			}
		case ProvenanceManual:
			hasManual = true
		}
	}

	switch {
	case hasSemantic && hasManual:
		bundle.SearchMethod = SearchHybrid
	case hasSemantic:
		bundle.SearchMethod = SearchSemantic
	default:
		// 两路皆空时手工通道仍是记录在案的兜底方式
		bundle.SearchMethod = SearchManual
	}

	return bundle
}

// dedupe 剔除近重复证据：归一化文本互为子串即视为重复，保留先出现者
func dedupe(items []EvidenceItem) []EvidenceItem {
	kept := make([]EvidenceItem, 0, len(items))
	keys := make([]string, 0, len(items))

	for _, item := range items {
		key := normalizeText(item.Text)
		if key == "" {
			continue
		}
		dup := false
		for _, k := range keys {
			if strings.Contains(k, key) || strings.Contains(key, k) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, item)
		keys = append(keys, key)
	}
	return kept
}

// normalizeText 小写并压缩空白
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
