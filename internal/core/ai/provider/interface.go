package provider

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyResponse 模型回傳空內容
var ErrEmptyResponse = errors.New("empty response from provider")

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TextGenerator 生成式文字協作者：送出 prompt，取回原始文字
// 回傳內容不保證是合法 JSON
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Provider 定義 AI 提供者介面
type Provider interface {
	TextGenerator

	// Name 提供者名稱（openrouter、gemini）
	Name() string

	// GetModel 獲取當前使用的模型名稱
	GetModel() string

	// GetTimeout 獲取請求超時時間
	GetTimeout() time.Duration

	// Close 關閉提供者連接
	Close() error
}

// Noop 未設定提供者時使用，永遠回傳錯誤，讓呼叫端直接退到下一層
type Noop struct{}

// ErrNoProvider 沒有可用的生成式模型
var ErrNoProvider = errors.New("no generative provider configured")

// Generate 永遠回傳 ErrNoProvider
func (Noop) Generate(context.Context, string, int) (string, error) {
	return "", ErrNoProvider
}

func (Noop) Name() string { return "none" }

func (Noop) GetModel() string { return "" }

func (Noop) GetTimeout() time.Duration { return 0 }

func (Noop) Close() error { return nil }
