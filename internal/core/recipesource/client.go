// Package recipesource 結構化食譜搜尋 API（Spoonacular 相容）
package recipesource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

// ErrDisabled 未設定 API Key 或已停用
var ErrDisabled = errors.New("recipe API is disabled")

// Cache 搜尋結果快取
type Cache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any) error
}

// Client 食譜搜尋客戶端
type Client struct {
	cfg     config.RecipeAPIConfig
	client  *resty.Client
	limiter *rate.Limiter
	cache   Cache
}

// NewClient 創建食譜搜尋客戶端，cache 可為 nil
func NewClient(cfg config.RecipeAPIConfig, cache Cache) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		cache:   cache,
	}
}

// Enabled 是否可以呼叫
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIKey != "" && c.cfg.BaseURL != ""
}

// Search 搜尋食譜並轉換為 MealCandidate
func (c *Client) Search(ctx context.Context, q Query) ([]common.MealCandidate, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if q.Limit <= 0 {
		q.Limit = c.cfg.ResultLimit
	}
	if q.Limit <= 0 {
		q.Limit = 5
	}

	key := searchKey(q)
	if c.cache != nil {
		var cached []common.MealCandidate
		if err := c.cache.Get(ctx, key, &cached); err == nil {
			common.LogCacheHit("recipe_search", key)
			metrics.CacheLookups.WithLabelValues("recipe_search", metrics.OutcomeHit).Inc()
			return cached, nil
		}
		common.LogCacheMiss("recipe_search", key)
		metrics.CacheLookups.WithLabelValues("recipe_search", metrics.OutcomeMiss).Inc()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("recipe API rate limiter: %w", err)
	}

	params := map[string]string{
		"query":                q.Text,
		"number":               strconv.Itoa(q.Limit),
		"addRecipeInformation": "true",
		"addRecipeNutrition":   "true",
		"fillIngredients":      "true",
		"instructionsRequired": "true",
	}
	if q.Diet != "" {
		params["diet"] = q.Diet
	}
	if q.Cuisine != "" {
		params["cuisine"] = q.Cuisine
	}
	if q.Type != "" {
		params["type"] = mealTypeParam(q.Type)
	}
	if q.MaxCalories > 0 {
		params["maxCalories"] = strconv.FormatFloat(q.MaxCalories, 'f', 0, 64)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/recipes/complexSearch")
	if err != nil {
		return nil, fmt.Errorf("failed to send request to recipe API: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", common.ErrRecipeSourceError, resp.StatusCode(), common.Preview(resp.String(), 200))
	}

	var result searchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipe API response: %w", err)
	}

	meals := make([]common.MealCandidate, 0, len(result.Results))
	for _, r := range result.Results {
		meal := toMeal(r, q)
		if meal.Name == "" {
			continue
		}
		meals = append(meals, meal)
	}

	common.LogDebug("食譜搜尋完成",
		zap.String("query", q.Text),
		zap.Int("results", len(meals)),
		zap.Duration("耗時", time.Since(start)),
	)

	if c.cache != nil && len(meals) > 0 {
		if err := c.cache.Set(ctx, key, meals); err != nil {
			common.LogWarn("食譜搜尋快取寫入失敗", zap.Error(err))
		}
	}
	return meals, nil
}

// AnalyzeNutrition 以食材清單查詢每份營養資訊
func (c *Client) AnalyzeNutrition(ctx context.Context, ingredients []string, servings int) (common.Nutrition, error) {
	if !c.Enabled() {
		return common.Nutrition{}, ErrDisabled
	}
	if len(ingredients) == 0 {
		return common.Nutrition{}, nil
	}
	if servings <= 0 {
		servings = 1
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return common.Nutrition{}, fmt.Errorf("recipe API rate limiter: %w", err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"ingredientList":   strings.Join(ingredients, "\n"),
			"servings":         strconv.Itoa(servings),
			"includeNutrition": "true",
		}).
		Post("/recipes/parseIngredients")
	if err != nil {
		return common.Nutrition{}, fmt.Errorf("failed to send request to recipe API: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return common.Nutrition{}, fmt.Errorf("%w: status %d", common.ErrRecipeSourceError, resp.StatusCode())
	}

	var parsed []apiIngredient
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return common.Nutrition{}, fmt.Errorf("failed to parse nutrition response: %w", err)
	}

	var all []apiNutrient
	for _, ing := range parsed {
		all = append(all, ing.Nutrition.Nutrients...)
	}
	total := sumNutrients(all)
	s := float64(servings)
	return common.Nutrition{
		Calories: total.Calories / s,
		Protein:  total.Protein / s,
		Carbs:    total.Carbs / s,
		Fat:      total.Fat / s,
	}, nil
}

func mealTypeParam(t common.MealType) string {
	switch t {
	case common.MealBreakfast:
		return "breakfast"
	case common.MealSnack:
		return "snack"
	default:
		return "main course"
	}
}

func searchKey(q Query) string {
	return fmt.Sprintf("recipe:search:%s|%s|%s|%s|%.0f|%d|%d",
		strings.ToLower(q.Text), strings.ToLower(q.Cuisine), strings.ToLower(q.Diet), q.Type, q.MaxCalories, q.Limit, q.Servings)
}
