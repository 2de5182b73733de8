package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceIDKey      = "traceID"
	RequestIDHeader = "X-Request-ID"
)

// RequestID assigns every request a trace id, reusing the client's
// X-Request-ID when present, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(TraceIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}

// RequestLogger writes one structured line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"trace_id", TraceID(c),
		}
		if id, ok := CurrentUserID(c); ok {
			attrs = append(attrs, "user_id", id)
		}

		switch {
		case status >= 500:
			logger.Error("request failed", attrs...)
		case status >= 400:
			logger.Warn("request rejected", attrs...)
		default:
			logger.Info("request handled", attrs...)
		}
	}
}
