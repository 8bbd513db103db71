package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPrompt(t *testing.T) {
	for _, c := range []Category{
		CategoryComprehensive, CategoryCharacterAnalysis, CategoryStoryProgression,
		CategoryRelationships, CategoryThemes, CategoryTemporal,
	} {
		assert.NotEmpty(t, SystemPrompt(c), "category %s", c)
	}

	// 未知类别回落到综合类提示词
	assert.Equal(t, SystemPrompt(CategoryComprehensive), SystemPrompt(Category("bogus")))
}

func TestBuildUserPromptEmptyBundle(t *testing.T) {
	prompt := BuildUserPrompt("Who burned the city?", &EvidenceBundle{})

	assert.Contains(t, prompt, "sources are insufficient")
	assert.Contains(t, prompt, "Question: Who burned the city?")
	assert.NotContains(t, prompt, "Evidence:")
}

func TestBuildUserPromptMarksProfiles(t *testing.T) {
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: "Asa Jennings led the evacuation.", SourceKind: SourceCharacterProfile, Entity: "Asa Jennings"},
		{Text: "Ships gathered at the pier.", SourceKind: SourceEpisode, SourceDocument: "The Great Fire"},
	}}

	prompt := BuildUserPrompt("Who was Asa Jennings?", bundle)

	profileIdx := strings.Index(prompt, "=== AUTHORITATIVE CHARACTER PROFILE: Asa Jennings ===")
	passageIdx := strings.Index(prompt, "--- Passage from The Great Fire ---")
	assert.GreaterOrEqual(t, profileIdx, 0)
	assert.Greater(t, passageIdx, profileIdx)
	assert.True(t, strings.HasSuffix(prompt, "Question: Who was Asa Jennings?"))
}

func TestBuildUserPromptSourceLabels(t *testing.T) {
	bundle := &EvidenceBundle{Items: []EvidenceItem{
		{Text: "Powell relayed the evacuation terms.", SourceKind: SourceRelationship},
		{Text: "The fire started near the Armenian quarter.", SourceKind: SourceEvent, SourceDocument: "Smyrna 1922"},
	}}

	prompt := BuildUserPrompt("What happened?", bundle)

	assert.Contains(t, prompt, "--- Relationship ---")
	assert.Contains(t, prompt, "--- Historical event from Smyrna 1922 ---")
}
