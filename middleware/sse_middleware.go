package middleware

import (
	"github.com/gin-gonic/gin"
)

// SSEKeepAliveComment is written on idle streams so proxies do not drop the connection.
const SSEKeepAliveComment = ": keep-alive\n\n"

func SSEMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		c.Next()
	}
}

// WriteKeepAlive reports false once the client is gone.
func WriteKeepAlive(c *gin.Context) bool {
	if _, err := c.Writer.WriteString(SSEKeepAliveComment); err != nil {
		return false
	}
	c.Writer.Flush()
	return true
}
