package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

const (
	defaultDedupWindow = time.Second
	maxFingerprints    = 8192
)

// Deduplication 在 window 內拒絕相同路徑與內容的重複 POST（例如重複送出的建立計畫請求）
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = defaultDedupWindow
	}
	// 指紋在 window 後自動過期
	seen := expirable.NewLRU[string, time.Time](maxFingerprints, nil, window)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.RequestURI() + ":" + c.ClientIP()
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.Next()
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if _, dup := seen.Get(fingerprint); dup {
			common.LogInfo("重複請求已拒絕",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", common.RequestIDFrom(c.Request.Context())),
			)
			common.AbortWithError(c, common.ErrTooManyRequests, gin.H{"duplicate": true})
			return
		}
		seen.Add(fingerprint, time.Now())

		c.Next()
	}
}
