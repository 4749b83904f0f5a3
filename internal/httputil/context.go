package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	sessionIDKey contextKey = "sessionID"
)

// SessionHeader carries the page session id on API requests
const SessionHeader = "X-Session-ID"

// SessionQueryParam carries the session id where headers cannot be set
// (EventSource and browser WebSocket clients)
const SessionQueryParam = "session"

// WithSessionID adds the session id to the request context
func WithSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// GetSessionID retrieves the session id from context, returns empty string if not found
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(sessionIDKey).(string)
	return sessionID
}

// SessionIDFromRequest reads the raw session id from the header, falling back
// to the query parameter
func SessionIDFromRequest(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return r.URL.Query().Get(SessionQueryParam)
}
