package common

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取得請求 ID，沒有時產生新的
func RequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return GenerateUUID()
}

type requestIDKey struct{}

// WithRequestID 將請求 ID 放入 context，供下游日誌使用
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom 從 context 取出請求 ID
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WriteErrorResponse 寫入錯誤響應
func WriteErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// AbortWithError 以預定義錯誤中止請求，details 會合併到回應中
func AbortWithError(c *gin.Context, e *CustomError, details gin.H) {
	body := gin.H{
		"error": e.Message,
		"code":  e.Code,
	}
	for k, v := range details {
		body[k] = v
	}
	c.AbortWithStatusJSON(e.Status, body)
}

// WriteError 依錯誤類型寫入對應的狀態碼與錯誤代碼
func WriteError(c *gin.Context, err error) {
	var (
		custom   *CustomError
		assembly *PlanAssemblyError
	)
	switch {
	case IsValidationError(err):
		WriteErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.As(err, &assembly):
		WriteErrorResponse(c, http.StatusInternalServerError, ErrCodePlanAssembly, assembly.Error())
	case errors.As(err, &custom):
		WriteErrorResponse(c, custom.Status, custom.Code, custom.Message)
	case errors.Is(err, context.DeadlineExceeded):
		WriteErrorResponse(c, ErrGatewayTimeout.Status, ErrGatewayTimeout.Code, ErrGatewayTimeout.Message)
	default:
		WriteErrorResponse(c, ErrInternalError.Status, ErrInternalError.Code, ErrInternalError.Message)
	}
}

// RoundMoney 金額取到小數點後兩位
func RoundMoney(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
