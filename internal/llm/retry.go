package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryProvider repeats transient provider failures with exponential
// backoff. Rejected requests and context errors go straight back to the
// caller, and an empty answer is asked for again only once.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *logrus.Logger
}

// WithRetry returns p unchanged when the config allows a single attempt.
func WithRetry(p Provider, cfg RetryConfig, logger *logrus.Logger) Provider {
	if cfg.MaxAttempts <= 1 {
		return p
	}
	return &RetryProvider{inner: p, config: cfg, logger: logger}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	invalidSeen := false

	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		var invalid *ErrInvalidResponse
		isInvalid := errors.As(err, &invalid)
		if !retryable(err) || (isInvalid && invalidSeen) || attempt == r.config.MaxAttempts-1 {
			return nil, err
		}
		invalidSeen = invalidSeen || isInvalid

		delay := r.backoff(attempt, err)
		if r.logger != nil {
			r.logger.WithFields(logrus.Fields{
				"purpose": PurposeFrom(ctx),
				"attempt": attempt + 1,
				"failure": FailureKind(err),
				"delay":   delay,
			}).Warn("Retrying LLM request")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

func retryable(err error) bool {
	var rejected *ErrRequestRejected
	return !errors.As(err, &rejected) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// backoff honours a provider's Retry-After, otherwise grows the wait by
// Multiplier up to MaxWait with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	delay := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	delay = math.Min(delay, float64(r.config.MaxWait))
	delay *= 0.8 + 0.4*rand.Float64()
	return time.Duration(delay)
}
