package middleware

import (
	"ad-agent-api/application/ports/outbound"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextRequestIDKey = "requestID"
	RequestIDHeader     = "X-Request-ID"
)

func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := map[string]interface{}{
			"requestId": requestID,
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
		}
		if userID := c.GetString(ContextUserIDKey); userID != "" {
			fields["userId"] = userID
		}
		if c.Writer.Status() >= 500 {
			logger.WarnWithFields("Request failed", fields)
			return
		}
		logger.InfoWithFields("Request handled", fields)
	}
}
