package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/infrastructure/config"
)

func TestNewGeminiService_RequiresKey(t *testing.T) {
	svc, err := NewGeminiService(context.Background(), config.GeminiConfig{Model: "gemini-1.5-flash"})
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestNewGeminiService_Accessors(t *testing.T) {
	cfg := config.GeminiConfig{APIKey: "test-key", Model: "gemini-1.5-flash", MaxTokens: 512, Timeout: 20 * time.Second}
	svc, err := NewGeminiService(context.Background(), cfg)
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "gemini", svc.Name())
	assert.Equal(t, "gemini-1.5-flash", svc.GetModel())
	assert.Equal(t, 20*time.Second, svc.GetTimeout())
}

func TestNewProvider_GeminiWithoutKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.AI.Provider = "gemini"
	p, err := NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, p)

	cfg.Gemini.APIKey = "test-key"
	p, err = NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
}
