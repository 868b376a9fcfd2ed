package middleware

import (
	"log/slog"
	"time"

	"agrotec/pkg/ctxmanage"
	"agrotec/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Logger assigns a trace id to the request (reusing an incoming X-Trace-Id if
// present) and logs one line per request with method, path, status and
// latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.Request.Header.Get("X-Trace-Id")
		if traceId == "" {
			traceId = ctxmanage.NewTraceId()
		}

		ctx := ctxmanage.WithTraceId(c.Request.Context(), traceId)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set("X-Trace-Id", traceId)

		start := time.Now()
		c.Next()

		slog.Info("request completed",
			slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method),
			slog.String("Path", c.Request.URL.Path),
			slog.Int("Status", c.Writer.Status()),
			slog.Duration("Latency", time.Since(start)),
		)
	}
}
