package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey is the gin context key carrying the per-request id.
const RequestIDKey = "requestID"

// RequestLogger tags every request with an id and logs its outcome.
func RequestLogger(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		event := lgr.Info()
		if c.Writer.Status() >= 500 {
			event = lgr.Error()
		} else if c.Writer.Status() >= 400 {
			event = lgr.Warn()
		}
		event.
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	}
}
