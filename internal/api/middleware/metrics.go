package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/infrastructure/metrics"
)

// Metrics 記錄 HTTP 請求數、延遲與進行中的請求
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		// 以路由樣板為標籤，避免 ID 造成標籤爆量
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
