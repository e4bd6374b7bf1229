package middleware

import (
	"strconv"
	"time"

	"job-board-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per route template. Unmatched
// paths share one label so scanners cannot explode the series count.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
