package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	t.Run("figures before places, ordered by occurrence", func(t *testing.T) {
		got := ExtractEntities("Did Jennings work with Bristol in Smyrna?")
		assert.Equal(t, []string{"Asa Jennings", "Mark Bristol", "Smyrna"}, got)
	})

	t.Run("aliases collapse to one canonical name", func(t *testing.T) {
		got := ExtractEntities("Was Ataturk the same man as Kemal?")
		assert.Equal(t, []string{"Mustafa Kemal Atatürk"}, got)
	})

	t.Run("word boundary prevents partial matches", func(t *testing.T) {
		got := ExtractEntities("The bristols moved to the coast")
		assert.Empty(t, got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := ExtractEntities("HORTON wrote about GREECE")
		assert.Equal(t, []string{"George Horton", "Greece"}, got)
	})

	t.Run("no known entities", func(t *testing.T) {
		got := ExtractEntities("What caused the fire?")
		assert.Empty(t, got)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		query := "Jennings, Horton and Powell met Bristol in Turkey"
		first := ExtractEntities(query)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, ExtractEntities(query))
		}
	})
}

func TestKnownFigures(t *testing.T) {
	got := KnownFigures()

	assert.Equal(t, []string{
		"Asa Jennings",
		"George Horton",
		"Halsey Powell",
		"Mark Bristol",
		"Mustafa Kemal Atatürk",
		"Theodore Roosevelt Jr.",
	}, got)
}

func TestExpandKeywords(t *testing.T) {
	t.Run("drops stop words and short words", func(t *testing.T) {
		got := ExpandKeywords("What was the fire at an old pier")
		assert.Equal(t, []string{"fire", "old", "pier"}, got)
	})

	t.Run("humanitarian expands to relief and jennings", func(t *testing.T) {
		got := ExpandKeywords("humanitarian efforts at the harbor")
		assert.Contains(t, got, "relief")
		assert.Contains(t, got, "jennings")
	})

	t.Run("multi-trigger rule needs all triggers", func(t *testing.T) {
		got := ExpandKeywords("american ships in the bay")
		assert.NotContains(t, got, "policy")

		got = ExpandKeywords("american officials on the ground")
		assert.Contains(t, got, "bristol")
		assert.Contains(t, got, "policy")
	})

	t.Run("turkish expands toward republic context", func(t *testing.T) {
		got := ExpandKeywords("the turkish army entered the city")
		assert.Contains(t, got, "bristol")
		assert.Contains(t, got, "republic")
	})

	t.Run("no duplicate keywords", func(t *testing.T) {
		got := ExpandKeywords("fire fire fire")
		assert.Equal(t, []string{"fire"}, got)
	})

	t.Run("query words come before expansions", func(t *testing.T) {
		got := ExpandKeywords("humanitarian relief")
		assert.Equal(t, []string{"humanitarian", "relief", "jennings"}, got)
	})
}
