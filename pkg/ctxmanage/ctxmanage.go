// Package ctxmanage propagates the per-request trace id through the request
// context so every log line of a request can be correlated.
package ctxmanage

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type traceIdKey string

// TraceIdKey is the context key under which the trace id travels.
const TraceIdKey traceIdKey = "traceId"

// WithTraceId returns a context carrying the given trace id.
func WithTraceId(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, TraceIdKey, traceId)
}

// NewTraceId generates a fresh trace id.
func NewTraceId() string {
	return uuid.NewString()
}

// GetTraceIdOfRequest extracts the trace id from the request context.
func GetTraceIdOfRequest(c *gin.Context) string {
	traceId, ok := c.Request.Context().Value(TraceIdKey).(string)
	if !ok {
		return "unknown"
	}
	return traceId
}
