package graphql

import (
	"context"
	"net/http"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const CtxKeySessionID contextKey = "sessionID"

// Session resolution for /graphql requests.
// Resolved from: X-Session-ID header > imarket_session cookie.
const (
	HeaderSession = "X-Session-ID"
	CookieSession = "imarket_session"
)

// SessionIDFromContext returns the session id for the current request, or "".
func SessionIDFromContext(ctx context.Context) string {
	if v := ctx.Value(CtxKeySessionID); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithSessionID attaches the session id to context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, CtxKeySessionID, sessionID)
}

// GetSessionID extracts the session id from a raw request.
func GetSessionID(r *http.Request) string {
	if h := r.Header.Get(HeaderSession); h != "" {
		return h
	}
	if c, err := r.Cookie(CookieSession); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}
