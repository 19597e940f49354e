package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"meal-planner/internal/api/handlers/grocery"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/api/handlers/meal"
	"meal-planner/internal/api/handlers/plan"
	"meal-planner/internal/api/middleware"
	coregrocery "meal-planner/internal/core/grocery"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"
)

const (
	// 超時設置（組裝一週計畫可能需要多次外部呼叫）
	defaultTimeout = 120 * time.Second
	// 請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Assembler plan.Assembler
	Sourcer   meal.Sourcer
	Store     store.PlanStore
	Builder   *coregrocery.Builder
	AI        health.StatusReporter
	Pingers   map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodySize := cfg.BodyLimit
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	plan.RegisterValidators()

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.RequestContext())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 健康檢查與指標路由不受限流影響
	healthHandler := health.NewHandler(cfg.App.Version, deps.AI, deps.Pingers)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.NoRoute(func(c *gin.Context) {
		common.AbortWithError(c, common.ErrNotFound, gin.H{"path": c.Request.URL.Path})
	})

	// API 路由組
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	v1.Use(middleware.Deduplication(cfg.DedupWindow))
	v1.Use(middleware.Timeout(timeout))
	{
		planHandler := plan.NewHandler(deps.Assembler, deps.Store, deps.Builder, cfg.Pricing.DefaultCurrency)
		plans := v1.Group("/plans")
		{
			plans.POST("", planHandler.HandleCreatePlan)
			plans.GET("/:id", planHandler.HandleGetPlan)
			plans.POST("/:id/grocery", planHandler.HandleBuildGroceryList)
			plans.GET("/:id/grocery", planHandler.HandleGetGroceryList)
		}

		mealHandler := meal.NewHandler(deps.Sourcer)
		meals := v1.Group("/meals")
		{
			meals.POST("/source", mealHandler.HandleSourceMeal)
			meals.POST("/suggest", mealHandler.HandleSuggestMeals)
		}

		groceryHandler := grocery.NewHandler(deps.Builder, cfg.Pricing.DefaultCurrency)
		v1.POST("/grocery/estimate", groceryHandler.HandleEstimate)
		v1.GET("/currencies", groceryHandler.HandleCurrencies)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)
	return router
}
