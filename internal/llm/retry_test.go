package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestWithRetry_SingleAttemptIsPassThrough(t *testing.T) {
	mock := NewMockProvider()
	assert.Same(t, Provider(mock), WithRetry(mock, RetryConfig{MaxAttempts: 1}, nil))
	assert.Same(t, Provider(mock), WithRetry(mock, RetryConfig{}, nil))
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig(), nil)

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	mock := NewMockProvider(down, down, down, down)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("empty")}}
	mock := NewMockProvider(invalid, invalid, MockResponse{Text: "never"})
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetry_ContextErrorsNotRetried(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.DeadlineExceeded}, MockResponse{Text: "late"})
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffRespectsRetryAfterAndCap(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}}

	assert.Equal(t, 3*time.Second, r.backoff(0, &ErrRateLimit{RetryAfter: 3 * time.Second}))

	wait := r.backoff(3, errors.New("x"))
	assert.LessOrEqual(t, wait, time.Duration(float64(2*time.Second)*1.2))
	assert.GreaterOrEqual(t, wait, time.Duration(float64(2*time.Second)*0.8))
}

func TestRetry_RejectedNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRequestRejected{Provider: "mistral", Status: 401, Err: errors.New("bad key")}},
		MockResponse{Text: "never"},
	)
	p := WithRetry(mock, retryConfig(), nil)

	_, err := p.Generate(context.Background(), Request{})
	assert.Equal(t, "rejected", FailureKind(err))
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_LogsEachRetry(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{Provider: "openai", Err: errors.New("429")}},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig(), logger)

	_, err := p.Generate(WithPurpose(context.Background(), "chat"), Request{})
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Retrying LLM request", entry["msg"])
	assert.Equal(t, "rate_limited", entry["failure"])
	assert.Equal(t, "chat", entry["purpose"])
	assert.Equal(t, float64(1), entry["attempt"])
}
