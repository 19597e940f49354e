package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/metrics"
	"meal-planner/internal/pkg/common"
)

// Service AI 服務：在提供者之外加上回應快取與呼叫閘門
type Service struct {
	provider     provider.Provider
	cacheManager *cache.CacheManager
	gate         *queue.Manager
}

// NewService 創建 AI 服務；cacheManager 與 gate 皆可為 nil
func NewService(p provider.Provider, cacheManager *cache.CacheManager, gate *queue.Manager) *Service {
	if p == nil {
		p = provider.Noop{}
	}
	return &Service{
		provider:     p,
		cacheManager: cacheManager,
		gate:         gate,
	}
}

// Generate 實作 provider.TextGenerator
func (s *Service) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	// 統一 prompt 格式，去除多餘空白與換行，確保快取 key 一致
	prompt = strings.Join(strings.Fields(prompt), " ")
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	if val, ok := s.cacheManager.Get(prompt, maxTokens); ok {
		return val, nil
	}

	var content string
	call := func(ctx context.Context) error {
		start := time.Now()
		out, err := s.provider.Generate(ctx, prompt, maxTokens)
		common.LogAICall(s.provider.Name(), time.Since(start), err, common.RequestIDFrom(ctx))
		if err != nil {
			return err
		}
		content = out
		return nil
	}

	var err error
	if s.gate != nil {
		err = s.gate.Do(ctx, call)
	} else {
		err = call(ctx)
	}
	if err != nil {
		metrics.AICalls.WithLabelValues(s.provider.Name(), outcome(ctx, err)).Inc()
		return "", common.ErrAIServiceError.Wrap(err)
	}
	if strings.TrimSpace(content) == "" {
		metrics.AICalls.WithLabelValues(s.provider.Name(), metrics.OutcomeFailure).Inc()
		return "", provider.ErrEmptyResponse
	}
	metrics.AICalls.WithLabelValues(s.provider.Name(), metrics.OutcomeSuccess).Inc()

	s.cacheManager.Set(prompt, maxTokens, content)
	return content, nil
}

// ProviderName 目前使用的提供者
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// Status 快取與隊列狀態
func (s *Service) Status() map[string]interface{} {
	status := map[string]interface{}{
		"provider": s.provider.Name(),
		"model":    s.provider.GetModel(),
		"cache":    s.cacheManager.GetStats(),
	}
	if s.gate != nil {
		status["queue"] = s.gate.GetQueueStatus()
	}
	return status
}

// Close 關閉提供者與快取
func (s *Service) Close() error {
	if s.gate != nil {
		s.gate.Close()
	}
	_ = s.cacheManager.Close()
	return s.provider.Close()
}

func outcome(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return metrics.OutcomeTimeout
	}
	return metrics.OutcomeFailure
}
