package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"historical-qa-api/internal/application/analysis"
)

func TestFromResult(t *testing.T) {
	result := &analysis.Result{
		Answer:             "Jennings organized the fleet.",
		Category:           analysis.CategoryCharacterAnalysis,
		Entities:           []string{"Asa Jennings"},
		ProcessingTime:     1500 * time.Millisecond,
		SearchMethod:       analysis.SearchHybrid,
		CompressionApplied: true,
		BooksReferenced:    map[string]int{"The Great Fire": 3},
	}

	resp := FromResult(result)

	assert.Equal(t, "character_analysis", resp.Category)
	assert.Equal(t, "hybrid", resp.SearchMethod)
	assert.Equal(t, 1.5, resp.ProcessingTime)
	assert.Equal(t, 1, resp.EntitiesFound)
	assert.Equal(t, []string{"Asa Jennings"}, resp.Entities)
	assert.Equal(t, map[string]int{"The Great Fire": 3}, resp.BooksReferenced)
}

func TestFromResultEntitiesFoundIsCount(t *testing.T) {
	resp := FromResult(&analysis.Result{
		Category: analysis.CategoryRelationships,
		Entities: []string{"Asa Jennings", "Mark Bristol"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(2), decoded["entities_found"])
	assert.Equal(t, []any{"Asa Jennings", "Mark Bristol"}, decoded["entities"])
}

func TestFromResultNilEntities(t *testing.T) {
	resp := FromResult(&analysis.Result{Category: analysis.CategoryComprehensive})

	assert.Equal(t, 0, resp.EntitiesFound)
	// JSON 序列化时保证是 [] 而不是 null
	assert.NotNil(t, resp.Entities)
	assert.Empty(t, resp.Entities)
}
