package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/infrastructure/config"
)

// OpenRouterService OpenRouter 服務
type OpenRouterService struct {
	config config.OpenRouterConfig
	client *resty.Client
}

// NewOpenRouterService 創建 OpenRouter 服務
func NewOpenRouterService(cfg config.OpenRouterConfig) *OpenRouterService {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("HTTP-Referer", "https://meal-planner.local").
		SetHeader("X-Title", "Meal Planner")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &OpenRouterService{
		config: cfg,
		client: client,
	}
}

// Generate 生成回應
func (s *OpenRouterService) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = s.config.MaxTokens
	}

	// 構建請求
	req := map[string]interface{}{
		"model": s.config.Model,
		"messages": []provider.Message{
			{Role: "system", Content: "You are a meal planning assistant. Respond with JSON only."},
			{Role: "user", Content: prompt},
		},
		"max_tokens": maxTokens,
	}

	// 發送請求
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned error: %s", resp.String())
	}

	// 解析回應
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

// Name 提供者名稱
func (s *OpenRouterService) Name() string { return "openrouter" }

// GetModel 模型名稱
func (s *OpenRouterService) GetModel() string { return s.config.Model }

// GetTimeout 請求超時時間
func (s *OpenRouterService) GetTimeout() time.Duration { return s.config.Timeout }

// Close resty 客戶端不需要關閉
func (s *OpenRouterService) Close() error { return nil }
