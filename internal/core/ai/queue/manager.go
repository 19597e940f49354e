package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

// ErrQueueFull 等待中的請求已達上限
var ErrQueueFull = errors.New("queue is full")

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	InFlight       int `json:"in_flight"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 生成式模型呼叫閘門：限制同時進行的呼叫數與等待數
type Manager struct {
	slots     chan struct{}
	maxSize   int
	waiting   atomic.Int64
	processed atomic.Int64
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = workers
	}
	return &Manager{
		slots:   make(chan struct{}, workers),
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
}

// Acquire 取得一個執行名額，回傳的 release 必須呼叫一次
func (m *Manager) Acquire(ctx context.Context) (func(), error) {
	if n := m.waiting.Add(1); n > int64(m.maxSize) {
		m.waiting.Add(-1)
		common.LogWarn("AI 請求隊列已滿", zap.Int("max_queue_size", m.maxSize))
		return nil, ErrQueueFull
	}
	defer m.waiting.Add(-1)

	select {
	case <-m.done:
		return nil, common.ErrGatewayQueueClosed
	default:
	}

	select {
	case m.slots <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-m.slots
				m.processed.Add(1)
			})
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, common.ErrGatewayQueueClosed
	}
}

// Do 取得名額後執行 fn
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	release, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    int(m.waiting.Load()),
		InFlight:       len(m.slots),
		ProcessedCount: int(m.processed.Load()),
		MaxQueueSize:   m.maxSize,
		Workers:        cap(m.slots),
	}
}

// Close 關閉隊列管理器，之後的 Acquire 皆失敗
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}
