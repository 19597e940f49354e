package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/api"
	"meal-planner/internal/api/handlers/health"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/queue"
	aiservice "meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/grocery"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/recipesource"
	"meal-planner/internal/core/service"
	"meal-planner/internal/core/sourcing"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openrouter_model", cfg.OpenRouter.Model),
		zap.Bool("recipe_api_enabled", cfg.RecipeAPI.Enabled),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	ctx := context.Background()
	pingers := map[string]health.Pinger{}

	// 食譜搜尋快取（Redis 停用時為 nil）
	var searchCache recipesource.Cache
	redisCache, err := cache.NewService(cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize Redis cache", zap.Error(err))
	}
	if redisCache != nil {
		searchCache = redisCache
		pingers["redis"] = redisCache
		defer redisCache.Close()
	}
	recipes := recipesource.NewClient(cfg.RecipeAPI, searchCache)

	// 生成式模型：提供者 + 回應快取 + 呼叫閘門
	textProvider, err := service.NewProvider(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize AI provider", zap.Error(err))
	}
	aiService := aiservice.NewService(textProvider, cache.NewManager(cfg.Cache), queue.NewManager(cfg.Queue))
	defer aiService.Close()

	prices := grocery.DefaultPrices.WithDefaultPrice(cfg.Pricing.DefaultPriceUSD)
	orchestrator := sourcing.NewOrchestrator(cfg.Planner, recipes, aiService, nil, prices, nil)
	assembler := planner.NewAssembler(cfg.Planner, orchestrator)

	overrides, err := config.ParseCurrencyRates(cfg.Pricing.CurrencyRates)
	if err != nil {
		common.LogFatal("Invalid currency rates", zap.Error(err))
	}
	builder := grocery.NewBuilder(prices, grocery.DefaultUnits, grocery.DefaultRates.WithOverrides(overrides))

	planStore, err := store.New(cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize plan store", zap.Error(err))
	}
	if rs, ok := planStore.(*store.RedisStore); ok {
		defer rs.Close()
	}

	// 設置路由
	router := api.SetupRouter(cfg, api.Dependencies{
		Assembler: assembler,
		Sourcer:   orchestrator,
		Store:     planStore,
		Builder:   builder,
		AI:        aiService,
		Pingers:   pingers,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
			zap.String("ai_provider", aiService.ProviderName()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
