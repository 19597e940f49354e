package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"message"`           // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓包裝過的錯誤仍能以 errors.Is 對應到預定義錯誤
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// Wrap 複製預定義錯誤並附上原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return &CustomError{Code: e.Code, Message: e.Message, Status: e.Status, Err: err}
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PlanAssemblyError 週計畫組裝失敗：某一天在所有退路後仍無法填滿
type PlanAssemblyError struct {
	Day     string
	Cuisine string
	Diet    string
	Err     error
}

func (e *PlanAssemblyError) Error() string {
	diet := e.Diet
	if diet == "" {
		diet = "any diet"
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to assemble %s for %s/%s: %v", e.Day, e.Cuisine, diet, e.Err)
	}
	return fmt.Sprintf("failed to assemble %s for %s/%s", e.Day, e.Cuisine, diet)
}

// Unwrap 取得原始錯誤
func (e *PlanAssemblyError) Unwrap() error {
	return e.Err
}

// IsPlanAssemblyError 檢查是否為計畫組裝錯誤
func IsPlanAssemblyError(err error) bool {
	var pe *PlanAssemblyError
	return errors.As(err, &pe)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeBodyTooLarge    = "BODY_TOO_LARGE"    // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"       // 500
	ErrCodePlanAssembly       = "PLAN_ASSEMBLY_FAILED" // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"  // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"      // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrBodyTooLarge    = NewError(ErrCodeBodyTooLarge, "請求內容過大", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheMiss          = NewError("CACHE_MISS", "快取未命中", http.StatusNotFound, nil)
	ErrAIServiceError     = NewError("AI_SERVICE_ERROR", "AI 服務錯誤", http.StatusServiceUnavailable, nil)
	ErrRecipeSourceError  = NewError("RECIPE_SOURCE_ERROR", "食譜搜尋服務錯誤", http.StatusServiceUnavailable, nil)
	ErrPlanNotFound       = NewError("PLAN_NOT_FOUND", "找不到週計畫", http.StatusNotFound, nil)
	ErrGroceryNotFound    = NewError("GROCERY_LIST_NOT_FOUND", "找不到購物清單", http.StatusNotFound, nil)
	ErrGatewayQueueClosed = NewError("AI_GATE_CLOSED", "AI 請求閘門已關閉", http.StatusServiceUnavailable, nil)
)
