package middleware

import (
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one structured line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logRequest(c, time.Since(start))
	}
}

func logRequest(c *gin.Context, elapsed time.Duration) {
	status := c.Writer.Status()
	attrs := []any{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"ip", c.ClientIP(),
		"request_id", c.GetString(string(domain.KeyRequestID)),
	}
	switch {
	case status >= 500:
		logger.Log.Error("HTTP request", attrs...)
	case status >= 400:
		logger.Log.Warn("HTTP request", attrs...)
	default:
		logger.Log.Info("HTTP request", attrs...)
	}
}
