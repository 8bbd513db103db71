package postgres

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"historical-qa-api/internal/application/analysis"
	"historical-qa-api/internal/domain/entity"
)

func TestAppendEpisodesTruncatesOnRuneBoundary(t *testing.T) {
	// 截断位置落在 ü 的两个字节中间
	episodes := []*entity.Episode{{
		Content:    "a" + strings.Repeat("ü", 1000),
		SourceBook: "The Great Fire",
	}}

	items := appendEpisodes(nil, episodes, "")

	require.Len(t, items, 1)
	assert.True(t, utf8.ValidString(items[0].Text))
	assert.LessOrEqual(t, len(items[0].Text), episodeCharLimit)
	assert.Equal(t, analysis.SourceEpisode, items[0].SourceKind)
}

func TestAppendEpisodesKeepsShortContent(t *testing.T) {
	episodes := []*entity.Episode{{
		Title:      "The Quay",
		Content:    "Refugees crowded the quay.",
		SourceBook: "Smyrna 1922",
	}}

	items := appendEpisodes(nil, episodes, "Asa Jennings")

	require.Len(t, items, 1)
	assert.Equal(t, "The Quay: Refugees crowded the quay.", items[0].Text)
	assert.Equal(t, "Smyrna 1922", items[0].SourceDocument)
	assert.Equal(t, "Asa Jennings", items[0].Entity)
}
