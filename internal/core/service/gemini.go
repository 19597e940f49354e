package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

// GeminiService Google Gemini 服務
type GeminiService struct {
	config config.GeminiConfig
	client *genai.Client
}

// NewGeminiService 創建 Gemini 服務
func NewGeminiService(ctx context.Context, cfg config.GeminiConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{config: cfg, client: client}, nil
}

// Generate 生成回應
func (s *GeminiService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	model := s.client.GenerativeModel(s.config.Model)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", provider.ErrEmptyResponse
	}
	return b.String(), nil
}

// Name 提供者名稱
func (s *GeminiService) Name() string { return "gemini" }

// GetModel 模型名稱
func (s *GeminiService) GetModel() string { return s.config.Model }

// GetTimeout 請求超時時間
func (s *GeminiService) GetTimeout() time.Duration { return s.config.Timeout }

// Close 關閉 Gemini 客戶端
func (s *GeminiService) Close() error { return s.client.Close() }

// NewProvider 依設定建立生成式模型提供者
func NewProvider(ctx context.Context, cfg *config.Config) (provider.Provider, error) {
	switch cfg.AI.Provider {
	case "gemini":
		svc, err := NewGeminiService(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case "openrouter":
		if cfg.OpenRouter.APIKey == "" || !cfg.OpenRouter.Enabled {
			return provider.Noop{}, nil
		}
		return NewOpenRouterService(cfg.OpenRouter), nil
	default:
		return provider.Noop{}, nil
	}
}
