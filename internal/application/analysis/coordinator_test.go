package analysis

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"historical-qa-api/internal/config"
)

type fakeGraphStore struct {
	items []EvidenceItem
	err   error
	calls atomic.Int32
}

func (f *fakeGraphStore) Retrieve(ctx context.Context, query string, category Category, entities []string) ([]EvidenceItem, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]EvidenceItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

type fakeSemanticStore struct {
	enabled bool
	items   []EvidenceItem
	err     error
	calls   atomic.Int32
}

func (f *fakeSemanticStore) Enabled() bool { return f.enabled }

func (f *fakeSemanticStore) DisabledReason() string {
	if f.enabled {
		return ""
	}
	return "embedding service not configured"
}

func (f *fakeSemanticStore) Search(ctx context.Context, query string, topK int) ([]EvidenceItem, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]EvidenceItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func TestGatherManualOnlyWhenSemanticDisabled(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "Asa Jennings organized the rescue fleet.", SourceKind: SourceCharacterProfile, Entity: "Asa Jennings"},
	}}
	semantic := &fakeSemanticStore{enabled: false}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Who was Asa Jennings?", CategoryCharacterAnalysis)
	require.NoError(t, err)

	assert.Equal(t, SearchManual, bundle.SearchMethod)
	assert.Equal(t, int32(1), graph.calls.Load())
	assert.Equal(t, int32(0), semantic.calls.Load())
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, ProvenanceManual, bundle.Items[0].Provenance)
	assert.Equal(t, []string{"Asa Jennings"}, bundle.EntitiesFound)
	assert.Nil(t, bundle.PerSourceCounts)
}

func TestGatherHybridCountsSemanticSources(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "Mark Bristol commanded the American naval detachment.", SourceKind: SourceCharacterProfile, Entity: "Mark Bristol"},
	}}
	semantic := &fakeSemanticStore{enabled: true, items: []EvidenceItem{
		{Text: "The admiral restricted press reports from the harbor.", SourceKind: SourceEpisode, SourceDocument: "The Great Fire", Score: 0.9},
		{Text: "Relief committees petitioned the admiral for escorts.", SourceKind: SourceEpisode, SourceDocument: "The Great Fire", Score: 0.8},
		{Text: "Witnesses described the flames from the deck.", SourceKind: SourceEpisode, SourceDocument: "Smyrna 1922", Score: 0.7},
	}}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Who was Mark Bristol?", CategoryCharacterAnalysis)
	require.NoError(t, err)

	assert.Equal(t, SearchHybrid, bundle.SearchMethod)
	assert.Equal(t, map[string]int{"The Great Fire": 2, "Smyrna 1922": 1}, bundle.PerSourceCounts)
	// 档案永远排最前
	assert.Equal(t, SourceCharacterProfile, bundle.Items[0].SourceKind)
}

func TestGatherSemanticOnlySkipsManual(t *testing.T) {
	graph := &fakeGraphStore{}
	semantic := &fakeSemanticStore{enabled: true, items: []EvidenceItem{
		{Text: "The quay filled with refugees as the fire spread.", SourceKind: SourceEpisode, SourceDocument: "Paradise Lost", Score: 0.8},
	}}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Describe conditions at the quay", CategoryComprehensive)
	require.NoError(t, err)

	assert.Equal(t, SearchSemantic, bundle.SearchMethod)
	assert.Equal(t, int32(0), graph.calls.Load())
	assert.Equal(t, int32(1), semantic.calls.Load())
}

func TestGatherFallsBackWhenSemanticBelowThreshold(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "The fire began near the Armenian quarter on September 13.", SourceKind: SourceEvent},
	}}
	semantic := &fakeSemanticStore{enabled: true, items: []EvidenceItem{
		{Text: "A loosely related passage.", SourceKind: SourceEpisode, Score: 0.1},
	}}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{MinSimilarity: 0.35})
	bundle, err := c.Gather(context.Background(), "Where did the fire begin?", CategoryComprehensive)
	require.NoError(t, err)

	assert.Equal(t, int32(1), graph.calls.Load())
	assert.Equal(t, SearchManual, bundle.SearchMethod)
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, SourceEvent, bundle.Items[0].SourceKind)
}

func TestGatherBothEmpty(t *testing.T) {
	graph := &fakeGraphStore{}
	semantic := &fakeSemanticStore{enabled: true}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Something no source covers", CategoryComprehensive)
	require.NoError(t, err)

	assert.True(t, bundle.Empty())
	assert.Equal(t, SearchManual, bundle.SearchMethod)
	assert.Equal(t, int32(1), graph.calls.Load())
}

func TestGatherDegradesOnGraphError(t *testing.T) {
	graph := &fakeGraphStore{err: errors.New("connection refused")}
	semantic := &fakeSemanticStore{enabled: true, items: []EvidenceItem{
		{Text: "The harbor was crowded with allied warships.", SourceKind: SourceEpisode, Score: 0.6},
	}}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Who was Powell?", CategoryCharacterAnalysis)
	require.NoError(t, err)

	assert.Equal(t, SearchSemantic, bundle.SearchMethod)
	require.Len(t, bundle.Items, 1)
}

func TestGatherDegradesOnSemanticError(t *testing.T) {
	graph := &fakeGraphStore{items: []EvidenceItem{
		{Text: "George Horton served as American consul in Smyrna.", SourceKind: SourceCharacterProfile, Entity: "George Horton"},
	}}
	semantic := &fakeSemanticStore{enabled: true, err: errors.New("milvus unavailable")}

	c := NewCoordinator(graph, semantic, config.RetrievalConfig{})
	bundle, err := c.Gather(context.Background(), "Who was George Horton?", CategoryCharacterAnalysis)
	require.NoError(t, err)

	assert.Equal(t, SearchManual, bundle.SearchMethod)
	require.Len(t, bundle.Items, 1)
}

func TestMergeOrdersByKind(t *testing.T) {
	c := NewCoordinator(&fakeGraphStore{}, nil, config.RetrievalConfig{})

	manual := []EvidenceItem{
		{Text: "An episode text goes here.", SourceKind: SourceEpisode, Provenance: ProvenanceManual},
		{Text: "A relationship entry sits in the middle.", SourceKind: SourceRelationship, Provenance: ProvenanceManual},
		{Text: "A profile comes first always.", SourceKind: SourceCharacterProfile, Provenance: ProvenanceManual},
	}
	semantic := []EvidenceItem{
		{Text: "An event passage from semantic search.", SourceKind: SourceEvent, Score: 0.9, Provenance: ProvenanceSemantic},
	}

	bundle := c.merge(semantic, manual)
	require.Len(t, bundle.Items, 4)
	assert.Equal(t, SourceCharacterProfile, bundle.Items[0].SourceKind)
	assert.Equal(t, SourceRelationship, bundle.Items[1].SourceKind)
	assert.Equal(t, SourceEvent, bundle.Items[2].SourceKind)
	assert.Equal(t, SourceEpisode, bundle.Items[3].SourceKind)
}

func TestMergeDeduplicatesNearDuplicates(t *testing.T) {
	c := NewCoordinator(&fakeGraphStore{}, nil, config.RetrievalConfig{})

	manual := []EvidenceItem{
		{Text: "Jennings chartered every ship in the harbor.", SourceKind: SourceEpisode, Provenance: ProvenanceManual},
	}
	semantic := []EvidenceItem{
		{Text: "jennings   chartered every ship in the harbor.", SourceKind: SourceEpisode, Score: 0.8, Provenance: ProvenanceSemantic},
		{Text: "chartered every ship", SourceKind: SourceEpisode, Score: 0.7, Provenance: ProvenanceSemantic},
	}

	bundle := c.merge(semantic, manual)
	require.Len(t, bundle.Items, 1)
	// 互为子串视为重复，保留排序后先出现的一条（相似度最高者）
	assert.Equal(t, 0.8, bundle.Items[0].Score)
}

func TestMergeSortsBySimilarityWithinKind(t *testing.T) {
	c := NewCoordinator(&fakeGraphStore{}, nil, config.RetrievalConfig{})

	semantic := []EvidenceItem{
		{Text: "A lower scoring passage about the docks.", SourceKind: SourceEpisode, Score: 0.5, Provenance: ProvenanceSemantic},
		{Text: "A higher scoring passage about the fire.", SourceKind: SourceEpisode, Score: 0.9, Provenance: ProvenanceSemantic},
	}

	bundle := c.merge(semantic, nil)
	require.Len(t, bundle.Items, 2)
	assert.Equal(t, 0.9, bundle.Items[0].Score)
	assert.Equal(t, 0.5, bundle.Items[1].Score)
}
