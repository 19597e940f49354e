package plan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"meal-planner/internal/core/grocery"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"
)

// Assembler 組裝週計畫
type Assembler interface {
	Assemble(ctx context.Context, req common.PlanRequest) (*common.WeeklyPlan, error)
}

// PlanResponse 建立週計畫的回應
type PlanResponse struct {
	Plan     *common.WeeklyPlan `json:"plan"`
	Degraded bool               `json:"degraded"`
	Warnings []string           `json:"warnings,omitempty"`
}

// Handler 週計畫與購物清單處理程序
type Handler struct {
	assembler Assembler
	store     store.PlanStore
	builder   *grocery.Builder
	currency  string
}

// NewHandler 創建新的週計畫處理程序；defaultCurrency 為未指定 currency 時使用的幣別
func NewHandler(assembler Assembler, planStore store.PlanStore, builder *grocery.Builder, defaultCurrency string) *Handler {
	if defaultCurrency == "" {
		defaultCurrency = "USD"
	}
	return &Handler{
		assembler: assembler,
		store:     planStore,
		builder:   builder,
		currency:  defaultCurrency,
	}
}

var registerOnce sync.Once

// RegisterValidators 在 gin 的驗證引擎註冊 diettype 規則
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			common.LogWarn("gin validator engine is not go-playground/validator; diettype rule not registered")
			return
		}
		if err := v.RegisterValidation("diettype", func(fl validator.FieldLevel) bool {
			return common.ValidDiet(fl.Field().String())
		}); err != nil {
			common.LogError("Failed to register diettype validator", zap.Error(err))
		}
	})
}

// HandleCreatePlan 組裝並保存週計畫
func (h *Handler) HandleCreatePlan(c *gin.Context) {
	ctx := c.Request.Context()
	requestID := common.RequestIDFrom(ctx)

	var req common.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("週計畫請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteErrorResponse(c, http.StatusBadRequest, common.ErrCodeInvalidRequest, bindingMessage(err))
		return
	}

	common.LogInfo("開始組裝週計畫",
		zap.String("request_id", requestID),
		zap.String("cuisine", req.Cuisine),
		zap.String("diet", req.Dietary),
		zap.Float64("max_daily_budget", req.MaxDailyBudget),
		zap.Int("people", req.NumberOfPeople),
		zap.Strings("allergies", req.Allergies),
	)

	plan, err := h.assembler.Assemble(ctx, req)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	if err := h.store.SavePlan(ctx, plan); err != nil {
		common.LogError("Failed to save plan",
			zap.String("plan_id", plan.ID),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, PlanResponse{
		Plan:     plan,
		Degraded: plan.Degraded,
		Warnings: planner.Warnings(plan),
	})
}

// HandleGetPlan 取得已保存的週計畫
func (h *Handler) HandleGetPlan(c *gin.Context) {
	plan, err := h.store.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// HandleBuildGroceryList 由週計畫建立購物清單，?currency= 指定幣別
func (h *Handler) HandleBuildGroceryList(c *gin.Context) {
	ctx := c.Request.Context()
	plan, err := h.store.GetPlan(ctx, c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}

	currency := strings.TrimSpace(c.DefaultQuery("currency", h.currency))
	list, err := h.builder.Build(plan, currency)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	metrics.GroceryListsBuilt.Inc()

	if err := h.store.SaveGroceryList(ctx, list); err != nil {
		common.LogError("Failed to save grocery list",
			zap.String("plan_id", plan.ID),
			zap.Error(err),
			zap.String("request_id", common.RequestIDFrom(ctx)),
		)
		common.WriteError(c, err)
		return
	}

	common.LogInfo("購物清單已建立",
		zap.String("plan_id", plan.ID),
		zap.String("currency", list.Currency),
		zap.Int("items", len(list.Items)),
		zap.Float64("total_usd", list.TotalCostUSD),
		zap.String("request_id", common.RequestIDFrom(ctx)),
	)
	c.JSON(http.StatusOK, list)
}

// HandleGetGroceryList 取得計畫最近一次建立的購物清單
func (h *Handler) HandleGetGroceryList(c *gin.Context) {
	list, err := h.store.GetGroceryList(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// bindingMessage 將驗證錯誤轉成可讀的訊息
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "diettype":
			msgs = append(msgs, fmt.Sprintf("unsupported dietary type: %v", fe.Value()))
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		default:
			msgs = append(msgs, fe.Field()+" failed "+fe.Tag()+" "+fe.Param())
		}
	}
	return strings.TrimSpace(strings.Join(msgs, "; "))
}
