package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "EMBEDDING_PROVIDER", "INTENT_SIMILARITY_THRESHOLD", "INTENT_DELETE_CUTOFF", "INTENT_TITLE_CUTOFF", "OTEL_ENABLED", "SESSION_TTL_MINUTES"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := FromEnv()
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "fallback", cfg.Ai.EmbeddingProvider)
	assert.Equal(t, 0.6, cfg.Intent.SimilarityThreshold)
	assert.Equal(t, 70.0, cfg.Intent.DeleteCutoff)
	assert.Equal(t, 80.0, cfg.Intent.TitleCutoff)
	assert.False(t, cfg.Otel.Enabled)
	assert.Equal(t, 60, cfg.App.SessionTTLMinutes)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("EMBEDDING_PROVIDER", "jina")
	t.Setenv("INTENT_SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "jina", cfg.Ai.EmbeddingProvider)
	assert.Equal(t, 0.75, cfg.Intent.SimilarityThreshold)
	assert.Equal(t, 5, cfg.App.SessionTTLMinutes)
	assert.True(t, cfg.Otel.Enabled)
	assert.True(t, cfg.IsProduction())
}

func TestMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("INTENT_TITLE_CUTOFF", "high")
	t.Setenv("SESSION_TTL_MINUTES", "soon")

	cfg := FromEnv()
	assert.Equal(t, 80.0, cfg.Intent.TitleCutoff)
	assert.Equal(t, 60, cfg.App.SessionTTLMinutes)
}
