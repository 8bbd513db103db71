package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandEnv(t *testing.T) {
	t.Run("uses default when unset", func(t *testing.T) {
		assert.Equal(t, "host: localhost", expandEnv("host: ${TEST_UNSET_HOST:localhost}"))
	})

	t.Run("env value overrides default", func(t *testing.T) {
		t.Setenv("TEST_SET_HOST", "db.internal")
		assert.Equal(t, "host: db.internal", expandEnv("host: ${TEST_SET_HOST:localhost}"))
	})

	t.Run("empty default", func(t *testing.T) {
		assert.Equal(t, "password: ", expandEnv("password: ${TEST_UNSET_PASSWORD:}"))
	})

	t.Run("no default keeps placeholder when unset", func(t *testing.T) {
		assert.Equal(t, "key: ${TEST_UNSET_KEY}", expandEnv("key: ${TEST_UNSET_KEY}"))
	})

	t.Run("multiple placeholders", func(t *testing.T) {
		t.Setenv("TEST_PORT", "5433")
		got := expandEnv("addr: ${TEST_UNSET_ADDR:localhost}:${TEST_PORT:5432}")
		assert.Equal(t, "addr: localhost:5433", got)
	})
}

func TestSemanticEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.SemanticEnabled())

	cfg.Embedding.Endpoint = "http://localhost:8001/v1"
	assert.True(t, cfg.SemanticEnabled())

	cfg = &Config{}
	cfg.Embedding.APIKey = "sk-test"
	assert.True(t, cfg.SemanticEnabled())
}
