package analysis

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"historical-qa-api/internal/config"
)

func TestCompressNoopUnderBudget(t *testing.T) {
	c := NewCompressor(config.CompressionConfig{MaxContextChars: 1000, BatchSize: 2})
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: "Short passage.", SourceKind: SourceEpisode},
		{Text: "Another short passage.", SourceKind: SourceEvent},
	}}

	c.Compress(context.Background(), bundle, "what happened")

	assert.False(t, bundle.CompressionApplied)
	assert.False(t, bundle.OverBudget)
	assert.Equal(t, "Short passage.", bundle.Items[0].Text)
	assert.Equal(t, "Another short passage.", bundle.Items[1].Text)
}

func TestCompressKeepsProfilesVerbatim(t *testing.T) {
	profileText := "Asa Jennings was a YMCA worker who organized the evacuation fleet."
	longText := strings.Repeat("The fire advanced along the waterfront through the night. ", 20)

	c := NewCompressor(config.CompressionConfig{MaxContextChars: 300, BatchSize: 2})
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: profileText, SourceKind: SourceCharacterProfile, Entity: "Asa Jennings"},
		{Text: longText, SourceKind: SourceEpisode},
	}}
	originalSize := bundle.Size()

	c.Compress(context.Background(), bundle, "Who was Asa Jennings?")

	assert.True(t, bundle.CompressionApplied)
	assert.False(t, bundle.OverBudget)
	require.NotEmpty(t, bundle.Items)
	assert.Equal(t, SourceCharacterProfile, bundle.Items[0].SourceKind)
	assert.Equal(t, profileText, bundle.Items[0].Text)
	assert.LessOrEqual(t, bundle.Size(), originalSize)
	assert.LessOrEqual(t, bundle.Size(), 300)
}

func TestCompressOverBudgetDropsNonAuthoritative(t *testing.T) {
	c := NewCompressor(config.CompressionConfig{MaxContextChars: 100, BatchSize: 2})
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: strings.Repeat("profile ", 20), SourceKind: SourceCharacterProfile},
		{Text: "An event description.", SourceKind: SourceEvent},
		{Text: "An episode passage.", SourceKind: SourceEpisode},
	}}

	c.Compress(context.Background(), bundle, "query")

	assert.True(t, bundle.CompressionApplied)
	assert.True(t, bundle.OverBudget)
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, SourceCharacterProfile, bundle.Items[0].SourceKind)
}

func TestCompressMergesBatchIntoOnePassage(t *testing.T) {
	c := NewCompressor(config.CompressionConfig{MaxContextChars: 200, BatchSize: 2})
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: strings.Repeat("The fire spread through the Armenian quarter. ", 6), SourceKind: SourceEvent, SourceDocument: "The Great Fire"},
		{Text: strings.Repeat("Refugees fled toward the waterfront. ", 6), SourceKind: SourceEpisode, SourceDocument: "Smyrna 1922"},
	}}

	c.Compress(context.Background(), bundle, "the fire")

	assert.True(t, bundle.CompressionApplied)
	require.Len(t, bundle.Items, 1)
	assert.Equal(t, SourceEpisode, bundle.Items[0].SourceKind)
	assert.Empty(t, bundle.Items[0].SourceDocument)
	assert.LessOrEqual(t, len(bundle.Items[0].Text), 200)
	assert.Contains(t, bundle.Items[0].Text, "fire")
}

func TestCompressBatchCountBoundsItemCount(t *testing.T) {
	c := NewCompressor(config.CompressionConfig{MaxContextChars: 300, BatchSize: 2})
	items := make([]EvidenceItem, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, EvidenceItem{
			Text:       strings.Repeat("Sailors carried refugees out to the anchored ships. ", 4),
			SourceKind: SourceEpisode,
		})
	}
	bundle := &EvidenceBundle{Items: items}

	c.Compress(context.Background(), bundle, "rescue")

	// 5 条、批大小 2，最多 3 批即最多 3 条
	assert.True(t, bundle.CompressionApplied)
	assert.LessOrEqual(t, len(bundle.Items), 3)
	assert.LessOrEqual(t, bundle.Size(), 300)
}

func TestCompressIdempotent(t *testing.T) {
	c := NewCompressor(config.CompressionConfig{MaxContextChars: 400, BatchSize: 2})
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: strings.Repeat("The ships waited in the harbor while the city burned. ", 10), SourceKind: SourceEpisode},
		{Text: strings.Repeat("Refugees crowded the quay hoping for rescue. ", 10), SourceKind: SourceEvent},
	}}

	c.Compress(context.Background(), bundle, "rescue at the harbor")
	assert.True(t, bundle.CompressionApplied)
	assert.LessOrEqual(t, bundle.Size(), 400)

	firstPass := make([]string, len(bundle.Items))
	for i, item := range bundle.Items {
		firstPass[i] = item.Text
	}

	c.Compress(context.Background(), bundle, "rescue at the harbor")
	require.Len(t, bundle.Items, len(firstPass))
	for i, item := range bundle.Items {
		assert.Equal(t, firstPass[i], item.Text)
	}
}

func TestCondensePreservesOriginalOrder(t *testing.T) {
	text := "The weather was mild that morning. Jennings gathered ships at the pier. Jennings saved many refugees."
	got := condense(text, []string{"jennings"}, 66)

	assert.Equal(t, "Jennings gathered ships at the pier. Jennings saved many refugees.", got)
}

func TestCondenseShortTextUnchanged(t *testing.T) {
	text := "Nothing to trim here."
	assert.Equal(t, text, condense(text, nil, 100))
}

func TestCondenseWithoutSentencesTruncatesAtWord(t *testing.T) {
	text := strings.Repeat("word ", 50)
	got := condense(text, nil, 30)

	assert.LessOrEqual(t, len(got), 30)
	assert.False(t, strings.HasSuffix(got, " "))
	assert.NotContains(t, got, "wor ")
}

func TestCondenseTruncatesOnRuneBoundary(t *testing.T) {
	// 上限落在 ü 的两个字节中间
	text := strings.Repeat("Atatürk ", 20)
	got := condense(text, nil, 14)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "Atatürk", got)
}

func TestCondenseZeroLimit(t *testing.T) {
	assert.Equal(t, "", condense("Some text.", nil, 0))
}
