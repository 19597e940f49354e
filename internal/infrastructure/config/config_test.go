package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "openrouter", cfg.AI.Provider)
	assert.Equal(t, 4*time.Second, cfg.Planner.TierTimeout)
	assert.Equal(t, 3, cfg.Planner.RetryFactor)
	assert.Equal(t, 5, cfg.RecipeAPI.ResultLimit)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(1<<20), cfg.BodyLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gem-key-123456")
	t.Setenv("APP_PLANNER_TIER_TIMEOUT", "250ms")
	t.Setenv("CURRENCY_RATES", "EUR:0.5, gbp:0.8")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, "gem-key-123456", cfg.Gemini.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Planner.TierTimeout)
	assert.True(t, cfg.Redis.Enabled)

	rates, err := ParseCurrencyRates(cfg.Pricing.CurrencyRates)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"EUR": 0.5, "GBP": 0.8}, rates)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown provider", map[string]string{"AI_PROVIDER": "skynet"}},
		{"bad rates", map[string]string{"CURRENCY_RATES": "EUR=0.5"}},
		{"negative rate", map[string]string{"CURRENCY_RATES": "EUR:-1"}},
		{"zero retry factor", map[string]string{"APP_PLANNER_RETRY_FACTOR": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := load(viper.New())
			assert.Error(t, err)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", MaskAPIKey("sk-abcdefwxyz"))
}
