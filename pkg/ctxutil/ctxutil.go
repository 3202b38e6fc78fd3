// Package ctxutil carries request-scoped identifiers through context.Context.
package ctxutil

import (
	"context"
	"strings"
)

type ctxKey string

const (
	chatUserIDKey ctxKey = "chat_user_id"
	requestIDKey  ctxKey = "request_id"
)

// WithChatUserID stores the chat user identifier in the context.
func WithChatUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, chatUserIDKey, id)
}

// ChatUserIDFromCtx extracts the chat user identifier from the context.
// Returns "" and false if the value is missing, blank, or of the wrong type.
func ChatUserIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(chatUserIDKey).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
