package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mistral", cfg.LLM.Provider)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 1, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 20, cfg.Tutor.HistoryWindow)
	assert.Equal(t, 0.3, cfg.Tutor.SimilarityThreshold)
	assert.Equal(t, 3, cfg.Tutor.SimilarLimit)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9090\"\nllm:\n  provider: openai\n  model: gpt-4o-mini\ntutor:\n  history_window: 10\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TUTOR_SIMILAR_LIMIT", "5")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 10, cfg.Tutor.HistoryWindow)
	assert.Equal(t, 5, cfg.Tutor.SimilarLimit)
	require.NoError(t, cfg.ValidateLLM())
}

func TestValidateLLM(t *testing.T) {
	cfg := &Config{}
	cfg.LLM.Provider = "mock"
	assert.NoError(t, cfg.ValidateLLM())

	cfg.LLM.Provider = "mistral"
	cfg.LLM.Timeout = time.Second
	assert.ErrorContains(t, cfg.ValidateLLM(), "MISTRAL_API_KEY")

	cfg.LLM.APIKey = "key"
	assert.NoError(t, cfg.ValidateLLM())

	cfg.LLM.Provider = "cohere"
	assert.ErrorContains(t, cfg.ValidateLLM(), "unknown LLM provider")
}

func TestValidateAuth(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateAuth())
	cfg.Auth.JWTSecret = "s3cret"
	assert.NoError(t, cfg.ValidateAuth())
}
