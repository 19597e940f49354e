package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App            AppConfig        `mapstructure:"app"`
	Server         ServerConfig     `mapstructure:"server"`
	OpenRouter     OpenRouterConfig `mapstructure:"openrouter"`
	Gemini         GeminiConfig     `mapstructure:"gemini"`
	AI             AIConfig         `mapstructure:"ai"`
	RecipeAPI      RecipeAPIConfig  `mapstructure:"recipe_api"`
	Planner        PlannerConfig    `mapstructure:"planner"`
	Pricing        PricingConfig    `mapstructure:"pricing"`
	Cache          CacheConfig      `mapstructure:"cache"`
	Redis          RedisConfig      `mapstructure:"redis"`
	Queue          QueueConfig      `mapstructure:"queue"`
	RateLimit      RateLimitConfig  `mapstructure:"rate_limit"`
	BodyLimit      int64            `mapstructure:"body_limit"`
	RequestTimeout time.Duration    `mapstructure:"request_timeout"`
	DedupWindow    time.Duration    `mapstructure:"dedup_window"`
	LogLevel       string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AIConfig 生成式模型設定
type AIConfig struct {
	Provider      string `mapstructure:"provider"` // openrouter | gemini | none
	EnableCache   bool   `mapstructure:"enable_cache"`
	MaxConcurrent int    `mapstructure:"max_concurrent"`
}

// RecipeAPIConfig 結構化食譜搜尋 API 設定
type RecipeAPIConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	ResultLimit   int           `mapstructure:"result_limit"`
}

// PlannerConfig 週計畫組裝設定
type PlannerConfig struct {
	TierTimeout      time.Duration `mapstructure:"tier_timeout"`
	RetryFactor      int           `mapstructure:"retry_factor"`
	FallbackAttempts int           `mapstructure:"fallback_attempts"`
	Candidates       int           `mapstructure:"candidates"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	Seed             int64         `mapstructure:"seed"` // 0 表示以時間為種子
}

// PricingConfig 價格與匯率設定
type PricingConfig struct {
	DefaultCurrency string  `mapstructure:"default_currency"`
	DefaultPriceUSD float64 `mapstructure:"default_price_usd"`
	CurrencyRates   string  `mapstructure:"currency_rates"` // 例如 "EUR:0.92,GBP:0.79"
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig Redis 設定（食譜搜尋快取與計畫儲存）
type RedisConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	PlanTTL   time.Duration `mapstructure:"plan_ttl"`
}

// QueueConfig 生成式模型呼叫閘門設定
type QueueConfig struct {
	Workers int `mapstructure:"workers"`
	MaxSize int `mapstructure:"max_size"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定；.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// 設定預設值
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定環境變量
	bindings := map[string]string{
		"openrouter.api_key":     "OPENROUTER_API_KEY",
		"openrouter.model":       "OPENROUTER_MODEL",
		"openrouter.max_tokens":  "MODEL_MAX_TOKENS",
		"gemini.api_key":         "GEMINI_API_KEY",
		"gemini.model":           "GEMINI_MODEL",
		"ai.provider":            "AI_PROVIDER",
		"recipe_api.api_key":     "RECIPE_API_KEY",
		"recipe_api.base_url":    "RECIPE_API_BASE_URL",
		"recipe_api.enabled":     "RECIPE_API_ENABLED",
		"planner.seed":           "PLANNER_SEED",
		"pricing.currency_rates": "CURRENCY_RATES",
		"cache.enabled":          "CACHE_ENABLED",
		"redis.enabled":          "REDIS_ENABLED",
		"redis.addr":             "REDIS_ADDR",
		"redis.password":         "REDIS_PASSWORD",
		"rate_limit.enabled":     "RATE_LIMIT_ENABLED",
		"rate_limit.requests":    "RATE_LIMIT_REQUESTS",
		"rate_limit.window":      "RATE_LIMIT_WINDOW",
		"dedup_window":           "DEDUP_WINDOW",
		"log_level":              "LOG_LEVEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	// 解析設定
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 驗證必要設定
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "meal-planner")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "120s")

	// OpenRouter 設定
	v.SetDefault("openrouter.enabled", true)
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "meta-llama/llama-3.1-8b-instruct:free")
	v.SetDefault("openrouter.max_tokens", 2000)
	v.SetDefault("openrouter.timeout", "30s")

	// Gemini 設定
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 2000)
	v.SetDefault("gemini.timeout", "30s")

	// AI 設定
	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.enable_cache", true)
	v.SetDefault("ai.max_concurrent", 4)

	// 食譜 API 設定
	v.SetDefault("recipe_api.enabled", true)
	v.SetDefault("recipe_api.base_url", "https://api.spoonacular.com")
	v.SetDefault("recipe_api.timeout", "10s")
	v.SetDefault("recipe_api.rate_per_second", 5)
	v.SetDefault("recipe_api.burst", 5)
	v.SetDefault("recipe_api.result_limit", 5)

	// 計畫組裝設定
	v.SetDefault("planner.tier_timeout", "4s")
	v.SetDefault("planner.retry_factor", 3)
	v.SetDefault("planner.fallback_attempts", 5)
	v.SetDefault("planner.candidates", 3)
	v.SetDefault("planner.max_tokens", 1500)
	v.SetDefault("planner.seed", 0)

	// 價格設定
	v.SetDefault("pricing.default_currency", "USD")
	v.SetDefault("pricing.default_price_usd", 0.5)
	v.SetDefault("pricing.currency_rates", "")

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis 設定
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.search_ttl", "6h")
	v.SetDefault("redis.plan_ttl", "168h")

	// 隊列設定
	v.SetDefault("queue.workers", 4)
	v.SetDefault("queue.max_size", 100)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("body_limit", 1<<20)
	v.SetDefault("request_timeout", "120s")
	v.SetDefault("dedup_window", "1s")
	v.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	// 驗證伺服器設定
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	// 驗證快取設定
	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	// 驗證隊列設定
	if config.Queue.Workers <= 0 {
		return fmt.Errorf("invalid queue workers")
	}
	if config.Queue.MaxSize <= 0 {
		return fmt.Errorf("invalid queue max size")
	}

	// 驗證計畫設定
	if config.Planner.TierTimeout <= 0 {
		return fmt.Errorf("invalid planner tier timeout")
	}
	if config.Planner.RetryFactor <= 0 {
		return fmt.Errorf("invalid planner retry factor")
	}
	if config.Planner.FallbackAttempts <= 0 {
		return fmt.Errorf("invalid planner fallback attempts")
	}

	switch config.AI.Provider {
	case "openrouter", "gemini", "none":
	default:
		return fmt.Errorf("unknown ai provider: %s", config.AI.Provider)
	}

	if _, err := ParseCurrencyRates(config.Pricing.CurrencyRates); err != nil {
		return err
	}

	return nil
}

// ParseCurrencyRates 解析 "EUR:0.92,GBP:0.79" 格式的匯率覆蓋設定
func ParseCurrencyRates(raw string) (map[string]float64, error) {
	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid currency rate %q", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || rate <= 0 {
			return nil, fmt.Errorf("invalid currency rate %q", pair)
		}
		rates[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return rates, nil
}
