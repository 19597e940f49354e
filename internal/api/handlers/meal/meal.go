package meal

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meal-planner/internal/core/sourcing"
	"meal-planner/internal/pkg/common"
)

// Sourcer 單一欄位與批次建議的餐點來源
type Sourcer interface {
	SourceMeal(ctx context.Context, slot sourcing.Slot) common.MealCandidate
	SuggestMeals(ctx context.Context, req sourcing.SuggestRequest) ([]common.MealCandidate, error)
}

// SourceRequest 為單一欄位取得餐點
type SourceRequest struct {
	Type        common.MealType `json:"type" binding:"required"`
	Cuisine     string          `json:"cuisine" binding:"required"`
	DietType    string          `json:"dietType" binding:"omitempty,diettype"`
	BudgetUSD   float64         `json:"budgetUSD" binding:"gte=0"`
	PeopleCount int             `json:"peopleCount" binding:"gte=0"`
	Allergies   []string        `json:"allergies,omitempty"`
	Exclude     []string        `json:"exclude,omitempty"`
}

// Handler 餐點處理程序
type Handler struct {
	sourcer Sourcer
}

// NewHandler 創建新的餐點處理程序
func NewHandler(sourcer Sourcer) *Handler {
	return &Handler{sourcer: sourcer}
}

// HandleSourceMeal 依序嘗試各層級為單一欄位取得餐點
func (h *Handler) HandleSourceMeal(c *gin.Context) {
	ctx := c.Request.Context()

	var req SourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("餐點請求格式無效",
			zap.Error(err),
			zap.String("request_id", common.RequestIDFrom(ctx)),
		)
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}
	if !req.Type.Valid() {
		common.WriteErrorResponse(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, "unknown meal type: "+string(req.Type))
		return
	}

	meal := h.sourcer.SourceMeal(ctx, sourcing.Slot{
		Type:        req.Type,
		Cuisine:     req.Cuisine,
		DietType:    req.DietType,
		BudgetUSD:   req.BudgetUSD,
		Allergies:   req.Allergies,
		PeopleCount: req.PeopleCount,
		Exclude:     req.Exclude,
	})

	common.LogInfo("餐點已取得",
		zap.String("meal", meal.Name),
		zap.String("tier", string(meal.SourceTier)),
		zap.String("request_id", common.RequestIDFrom(ctx)),
	)
	c.JSON(http.StatusOK, meal)
}

// HandleSuggestMeals 批次建議餐點，不足的部分以占位餐點補足
func (h *Handler) HandleSuggestMeals(c *gin.Context) {
	ctx := c.Request.Context()

	var req sourcing.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	meals, err := h.sourcer.SuggestMeals(ctx, req)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	placeholders := 0
	for _, m := range meals {
		if m.Placeholder {
			placeholders++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"meals":        meals,
		"count":        len(meals),
		"placeholders": placeholders,
	})
}
