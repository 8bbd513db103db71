package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"historical-qa-api/internal/config"
	apperrors "historical-qa-api/pkg/errors"
)

type fakeGenerator struct {
	answer string
	err    error
	calls  atomic.Int32
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type memoryAnswerCache struct {
	store map[string]*Result
}

func newMemoryAnswerCache() *memoryAnswerCache {
	return &memoryAnswerCache{store: make(map[string]*Result)}
}

func (m *memoryAnswerCache) Get(ctx context.Context, key string) (*Result, error) {
	return m.store[key], nil
}

func (m *memoryAnswerCache) Set(ctx context.Context, key string, result *Result) error {
	m.store[key] = result
	return nil
}

func newTestService(graph GraphStore, semantic SemanticStore, gen Generator, cache AnswerCache) *Service {
	coordinator := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	compressor := NewCompressor(config.CompressionConfig{})
	return NewService(coordinator, compressor, gen, cache)
}

func TestAnalyzeManualOnly(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "Asa Jennings chartered the Greek merchant fleet.", SourceKind: SourceCharacterProfile, Entity: "Asa Jennings"},
	}}
	gen := &fakeGenerator{answer: "Jennings organized the evacuation."}

	svc := newTestService(graph, &fakeSemanticStore{}, gen, nil)
	result, err := svc.Analyze(context.Background(), Request{Query: "Who was Asa Jennings?"})
	require.NoError(t, err)

	assert.Equal(t, "Jennings organized the evacuation.", result.Answer)
	assert.Equal(t, CategoryCharacterAnalysis, result.Category)
	assert.Equal(t, []string{"Asa Jennings"}, result.Entities)
	assert.Equal(t, SearchManual, result.SearchMethod)
	assert.False(t, result.CompressionApplied)
	assert.Nil(t, result.BooksReferenced)
	assert.Greater(t, result.ProcessingTime.Nanoseconds(), int64(0))
}

func TestAnalyzeSemanticReportsBooks(t *testing.T) {
	graph := &fakeGraphStore{}
	semantic := &fakeSemanticStore{enabled: true, items: []EvidenceItem{
		{Text: "Accounts diverge along national lines.", SourceKind: SourceEpisode, SourceDocument: "The Great Fire", Score: 0.8},
		{Text: "Each community remembered the fire differently.", SourceKind: SourceEpisode, SourceDocument: "Paradise Lost", Score: 0.6},
	}}
	gen := &fakeGenerator{answer: "The sources disagree sharply."}

	svc := newTestService(graph, semantic, gen, nil)
	result, err := svc.Analyze(context.Background(), Request{
		Query: "underlying tensions among cultural perspectives",
	})
	require.NoError(t, err)

	assert.Equal(t, CategoryThemes, result.Category)
	assert.Equal(t, SearchSemantic, result.SearchMethod)
	assert.Equal(t, map[string]int{"The Great Fire": 1, "Paradise Lost": 1}, result.BooksReferenced)
	assert.Equal(t, int32(0), graph.calls.Load())
}

func TestAnalyzeEmptyQuery(t *testing.T) {
	svc := newTestService(&fakeGraphStore{}, &fakeSemanticStore{}, &fakeGenerator{}, nil)

	_, err := svc.Analyze(context.Background(), Request{Query: "   "})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}

func TestAnalyzeUnknownAnalysisType(t *testing.T) {
	svc := newTestService(&fakeGraphStore{}, &fakeSemanticStore{}, &fakeGenerator{}, nil)

	_, err := svc.Analyze(context.Background(), Request{Query: "anything", AnalysisType: Category("sentiment")})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeInvalidParam, appErr.Code)
}

func TestAnalyzeExplicitTypeSkipsClassification(t *testing.T) {
	graph := &fakeGraphStore{}
	gen := &fakeGenerator{answer: "ok"}

	svc := newTestService(graph, &fakeSemanticStore{}, gen, nil)
	result, err := svc.Analyze(context.Background(), Request{
		Query:        "Who was Asa Jennings?",
		AnalysisType: CategoryTemporal,
	})
	require.NoError(t, err)

	assert.Equal(t, CategoryTemporal, result.Category)
}

func TestAnalyzeGeneratorError(t *testing.T) {
	graph := &fakeGraphStore{}
	gen := &fakeGenerator{err: errors.New("provider timeout")}

	svc := newTestService(graph, &fakeSemanticStore{}, gen, nil)
	_, err := svc.Analyze(context.Background(), Request{Query: "What happened at the quay?"})
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeLLMCallFailed, appErr.Code)
}

func TestAnalyzeCacheHit(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "George Horton served as American consul.", SourceKind: SourceCharacterProfile, Entity: "George Horton"},
	}}
	gen := &fakeGenerator{answer: "Horton was the consul."}
	cache := newMemoryAnswerCache()

	svc := newTestService(graph, &fakeSemanticStore{}, gen, cache)

	first, err := svc.Analyze(context.Background(), Request{Query: "Who was George Horton?"})
	require.NoError(t, err)

	second, err := svc.Analyze(context.Background(), Request{Query: "who  was   george horton?"})
	require.NoError(t, err)

	// 归一化后的同一查询命中缓存，生成器只调用一次
	assert.Equal(t, int32(1), gen.calls.Load())
	assert.Equal(t, first.Answer, second.Answer)
}

func TestAnalyzeEmptyEvidenceStillAnswers(t *testing.T) {
	graph := &fakeGraphStore{}
	gen := &fakeGenerator{answer: "The available sources are insufficient to answer."}

	svc := newTestService(graph, &fakeSemanticStore{}, gen, nil)
	result, err := svc.Analyze(context.Background(), Request{Query: "A question no source covers"})
	require.NoError(t, err)

	assert.Empty(t, result.Entities)
	assert.Equal(t, SearchManual, result.SearchMethod)
	assert.False(t, result.CompressionApplied)
}
