package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "monsters", cfg.FactTable)
	assert.Equal(t, 2, cfg.MaxSQLRetries)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ORACLE_SQL_RETRIES", "5")
	t.Setenv("ORACLE_LLM_TIMEOUT", "10s")
	t.Setenv("ORACLE_FACT_TABLE", "creatures")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxSQLRetries)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "creatures", cfg.FactTable)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ORACLE_SQL_RETRIES", "not-a-number")
	t.Setenv("ORACLE_LLM_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxSQLRetries)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
