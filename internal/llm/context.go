package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	userKey    contextKey = "llm_user"
)

// WithPurpose labels the calls made with ctx, e.g. "chat" or "health".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithUser records which student a call is made for so provider logs can
// be matched to chat logs.
func WithUser(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

func UserFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userKey).(uint)
	return id, ok
}
