package grocery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	coregrocery "meal-planner/internal/core/grocery"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

// EstimateRequest 臨時食材清單估價
type EstimateRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1,dive,required"`
	Currency    string   `json:"currency"`
}

// Handler 購物清單估價與幣別處理程序
type Handler struct {
	builder  *coregrocery.Builder
	currency string
}

// NewHandler 創建新的處理程序
func NewHandler(builder *coregrocery.Builder, defaultCurrency string) *Handler {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Handler{builder: builder, currency: defaultCurrency}
}

// HandleEstimate 彙整並估價任意的食材字串，例如 "2 cups rice"
func (h *Handler) HandleEstimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteErrorResponse(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "ingredients are required")
		return
	}
	if req.Currency == "" {
		req.Currency = h.currency
	}

	list, err := h.builder.Estimate(req.Ingredients, req.Currency)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	metrics.GroceryListsBuilt.Inc()

	common.LogDebug("Ingredient estimate completed",
		zap.Int("input", len(req.Ingredients)),
		zap.Int("items", len(list.Items)),
		zap.String("currency", list.Currency),
		zap.String("request_id", common.RequestIDFrom(c.Request.Context())),
	)
	c.JSON(http.StatusOK, list)
}

// HandleCurrencies 支援的幣別與匯率說明
func (h *Handler) HandleCurrencies(c *gin.Context) {
	rates := h.builder.Rates()
	c.JSON(http.StatusOK, gin.H{
		"currencies": rates.Codes(),
		"default":    h.currency,
		"note":       rates.Note(),
	})
}
