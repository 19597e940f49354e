package middleware

import (
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"meal-planner/internal/pkg/common"
)

// 同時追蹤的用戶端上限；閒置超過 limiterIdleTTL 的限流器會被淘汰
const (
	maxTrackedClients = 4096
	limiterIdleTTL    = 10 * time.Minute
)

// RateLimiter 以用戶端 IP 區分的令牌桶限流器
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter 創建新的限流器：每個用戶端在 window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   requests,
		clients: expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, limiterIdleTTL),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(client string) bool {
	limiter, ok := rl.clients.Get(client)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients.Add(client, limiter)
	}
	return limiter.Allow()
}

// retryAfter 取得下一個令牌的等待秒數
func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(rl.limit)))
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", limiter.retryAfter()))
			common.AbortWithError(c, common.ErrTooManyRequests, gin.H{"retry_after": limiter.retryAfter()})
			return
		}

		c.Next()
	}
}
