package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingProvider is a decorator that logs every LLM request.
type LoggingProvider struct {
	inner  Provider
	logger *logrus.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger *logrus.Logger) Provider {
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	fields := logrus.Fields{
		"model":        l.inner.ModelID(),
		"purpose":      PurposeFrom(ctx),
		"latency_ms":   time.Since(start).Milliseconds(),
		"prompt_chars": promptChars(req),
		"max_tokens":   req.MaxTokens,
		"success":      err == nil,
	}
	if userID, ok := UserFrom(ctx); ok {
		fields["user_id"] = userID
	}

	if resp != nil {
		fields["model"] = resp.Model
		fields["input_tokens"] = resp.Usage.InputTokens
		fields["output_tokens"] = resp.Usage.OutputTokens
		fields["stop_reason"] = resp.StopReason
	}

	if err != nil {
		fields["failure"] = FailureKind(err)
		l.logger.WithFields(fields).WithError(err).Warn("LLM request failed")
	} else {
		l.logger.WithFields(fields).Info("LLM request completed")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func promptChars(req Request) int {
	n := len(req.System)
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}
