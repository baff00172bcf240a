package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}
type sessionDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// SessionData identifies the profile a request is acting as. Profile
// selection is trust-based; there is no credential behind it.
type SessionData struct {
	Token     string
	ProfileID uuid.UUID
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithSessionData(ctx context.Context, sd *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, sd)
}

func GetSessionData(ctx context.Context) *SessionData {
	if sd, ok := ctx.Value(sessionDataKey{}).(*SessionData); ok {
		return sd
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
