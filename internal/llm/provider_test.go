package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_FIFOAndFallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "uno"}, MockResponse{Err: errors.New("dos")})

	resp, err := mock.Generate(context.Background(), UserMessage("s", "a", 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "uno", resp.Text)

	_, err = mock.Generate(context.Background(), UserMessage("s", "b", 10, 0))
	assert.EqualError(t, err, "dos")

	_, err = mock.Generate(context.Background(), UserMessage("s", "c", 10, 0))
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	mock.Fallback = "eco"
	resp, err = mock.Generate(context.Background(), UserMessage("s", "d", 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "eco", resp.Text)

	last, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, "d", last.Messages[0].Content)
	assert.Equal(t, 4, mock.CallCount())
}

func TestMockProvider_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockProvider(MockResponse{Text: "x"}).Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoggingProvider_LogsUsage(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	mock := NewMockProvider(MockResponse{Text: "hola", Usage: Usage{InputTokens: 3, OutputTokens: 2}})
	p := WithLogging(mock, logger)

	_, err := p.Generate(WithPurpose(context.Background(), "chat"), UserMessage("sys", "msg", 10, 0))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "chat", entry["purpose"])
	assert.Equal(t, float64(3), entry["input_tokens"])
	assert.Equal(t, float64(6), entry["prompt_chars"])
	assert.Equal(t, true, entry["success"])
	assert.Equal(t, "mock", p.ModelID())
}

func TestPurposeFrom_Default(t *testing.T) {
	assert.Equal(t, "unknown", PurposeFrom(context.Background()))
}

func TestNewProvider(t *testing.T) {
	logger := logrus.New()

	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, logger)
	require.NoError(t, err)
	resp, err := p.Generate(context.Background(), UserMessage("", "hola", 10, 0))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Text)

	p, err = NewProvider(context.Background(), Config{Provider: "mistral", APIKey: "k"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "open-mistral-7b", p.ModelID())

	p, err = NewProvider(context.Background(), Config{Provider: "openai", APIKey: "k", Retry: retryConfig()}, logger)
	require.NoError(t, err)
	assert.IsType(t, &RetryProvider{}, p)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "mistral"}, logger)
	assert.ErrorContains(t, err, "API key is required")

	_, err = NewProvider(context.Background(), Config{Provider: "cohere", APIKey: "k"}, logger)
	assert.ErrorContains(t, err, "unknown LLM provider")
}

func TestConfigValidate_Limits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Temperature = 2.5
	assert.ErrorContains(t, cfg.Validate(), "temperature")

	cfg.Temperature = 0.7
	cfg.MaxTokens = -1
	assert.ErrorContains(t, cfg.Validate(), "max tokens")
}

func TestLoggingProvider_TagsUserAndFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}})
	p := WithLogging(mock, logger)

	_, err := p.Generate(WithUser(WithPurpose(context.Background(), "chat"), 42), UserMessage("", "hola", 10, 0))
	require.Error(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, float64(42), entry["user_id"])
	assert.Equal(t, "rate_limited", entry["failure"])
	assert.Equal(t, false, entry["success"])
}
