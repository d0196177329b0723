package transport

import (
	"context"
)

type (
	contextKey string
)

const (
	ContextAuthTokenKey contextKey = "authToken"
	ContextAnonymousKey contextKey = "anonymous"
)

// WithAuthToken pins bearer token used by requests issued with the returned context
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextAuthTokenKey, token)
}

// WithAnonymous marks requests that must not carry a credential nor reset the session on 401
func WithAnonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextAnonymousKey, true)
}

// AuthToken returns pinned token if any
func AuthToken(ctx context.Context) (string, bool) {
	if v := ctx.Value(ContextAuthTokenKey); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// IsAnonymous returns true if context was marked with WithAnonymous
func IsAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(ContextAnonymousKey).(bool)
	return v
}
