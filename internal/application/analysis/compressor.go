package analysis

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"historical-qa-api/internal/config"
	"historical-qa-api/pkg/logger"
	"historical-qa-api/pkg/metrics"
)

// sentencePattern 以句末标点切分句子
var sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// tokenPattern 提取词元
var tokenPattern = regexp.MustCompile(`[a-zA-Züé]+`)

// Compressor 证据压缩器
// 总量超出预算时对非权威证据做抽取式压缩，人物档案永远原文保留
type Compressor struct {
	cfg config.CompressionConfig
}

// NewCompressor 创建压缩器
func NewCompressor(cfg config.CompressionConfig) *Compressor {
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 8000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 2
	}
	return &Compressor{cfg: cfg}
}

// Compress 原地压缩证据集合
// 不超预算时不做任何改动；压缩结果只会变小不会变大；
// 档案自身已超预算时丢弃全部非权威证据并置 OverBudget
func (c *Compressor) Compress(ctx context.Context, bundle *EvidenceBundle, query string) {
	originalSize := bundle.Size()
	if originalSize <= c.cfg.MaxContextChars {
		metrics.CompressionApplied.WithLabelValues("noop").Inc()
		return
	}

	profileSize := 0
	var profiles, others []EvidenceItem
	for _, item := range bundle.Items {
		if item.Authoritative() {
			profileSize += len(item.Text)
			profiles = append(profiles, item)
		} else {
			others = append(others, item)
		}
	}

	if profileSize >= c.cfg.MaxContextChars {
		// 档案已占满预算，非权威证据全部让位
		bundle.Items = profiles
		bundle.CompressionApplied = true
		bundle.OverBudget = true
		metrics.CompressionApplied.WithLabelValues("over_budget").Inc()
		logger.Warn(ctx, "character profiles alone exceed context budget",
			"profile_chars", profileSize, "budget", c.cfg.MaxContextChars)
		return
	}

	allowance := c.cfg.MaxContextChars - profileSize
	keywords := ExpandKeywords(query)

	numBatches := (len(others) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	if numBatches == 0 {
		bundle.Items = profiles
		bundle.CompressionApplied = true
		return
	}
	perBatch := allowance / numBatches

	// 每批并为一条候选后整体压缩，批数即压缩后的条数上限
	compressed := make([]EvidenceItem, 0, numBatches)
	for b := 0; b < numBatches; b++ {
		lo := b * c.cfg.BatchSize
		hi := lo + c.cfg.BatchSize
		if hi > len(others) {
			hi = len(others)
		}
		merged := mergeBatch(others[lo:hi])
		if len(merged.Text) > perBatch {
			merged.Text = condense(merged.Text, keywords, perBatch)
		}
		if merged.Text != "" {
			compressed = append(compressed, merged)
		}
	}

	bundle.Items = append(profiles, compressed...)
	bundle.CompressionApplied = true
	metrics.CompressionApplied.WithLabelValues("compressed").Inc()
	if originalSize > 0 {
		metrics.CompressionRatio.Observe(float64(bundle.Size()) / float64(originalSize))
	}
}

// mergeBatch 将一批证据并为一条压缩候选
// 批内来源标注不一致时退化为无署名的普通段落
func mergeBatch(batch []EvidenceItem) EvidenceItem {
	merged := batch[0]
	for _, item := range batch[1:] {
		merged.Text += " " + item.Text
		if item.SourceKind != merged.SourceKind {
			merged.SourceKind = SourceEpisode
		}
		if item.SourceDocument != merged.SourceDocument {
			merged.SourceDocument = ""
		}
		if item.Entity != merged.Entity {
			merged.Entity = ""
		}
		if item.Score > merged.Score {
			merged.Score = item.Score
		}
	}
	return merged
}

// condense 抽取式压缩：按关键词命中与词频给句子打分，
// 选高分句并保持原文顺序，直到达到字符上限
func condense(text string, keywords []string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(text) <= limit {
		return text
	}

	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		// 无句末标点的整块文本直接截断
		return truncateAtWord(text, limit)
	}

	freq := make(map[string]int)
	for _, s := range sentences {
		for _, tok := range tokenPattern.FindAllString(strings.ToLower(s), -1) {
			if !stopWords[tok] && len(tok) > 2 {
				freq[tok]++
			}
		}
	}

	kwSet := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kwSet[k] = true
	}

	type scored struct {
		idx   int
		score float64
		text  string
	}
	ranked := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		toks := tokenPattern.FindAllString(strings.ToLower(s), -1)
		if len(toks) == 0 {
			continue
		}
		var sum float64
		for _, tok := range toks {
			sum += float64(freq[tok])
			if kwSet[tok] {
				sum += 3 // 关键词命中加权
			}
		}
		ranked = append(ranked, scored{idx: i, score: sum / math.Sqrt(float64(len(toks))), text: strings.TrimSpace(s)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	// 在上限内贪心选句
	selected := make(map[int]string)
	used := 0
	for _, r := range ranked {
		cost := len(r.text)
		if used > 0 {
			cost++ // 句间空格
		}
		if used+cost > limit {
			continue
		}
		selected[r.idx] = r.text
		used += cost
	}

	if len(selected) == 0 {
		return truncateAtWord(strings.TrimSpace(sentences[0]), limit)
	}

	// 按原文顺序拼接
	idxs := make([]int, 0, len(selected))
	for i := range selected {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	parts := make([]string, 0, len(idxs))
	for _, i := range idxs {
		parts = append(parts, selected[i])
	}
	return strings.Join(parts, " ")
}

// truncateAtWord 在单词边界截断，不切开多字节字符
func truncateAtWord(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	cut := s[:limit]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
