package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func (f *fakeProvider) Name() string              { return "fake" }
func (f *fakeProvider) GetModel() string          { return "fake-model" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newCache() *cache.CacheManager {
	return cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
}

func TestService_CachesByNormalizedPrompt(t *testing.T) {
	p := &fakeProvider{reply: `[{"name":"Toast"}]`}
	s := NewService(p, newCache(), queue.NewManager(config.QueueConfig{Workers: 1, MaxSize: 4}))

	out, err := s.Generate(context.Background(), "suggest   breakfast\n meals", 100)
	require.NoError(t, err)
	assert.Equal(t, p.reply, out)

	out, err = s.Generate(context.Background(), "suggest breakfast meals", 100)
	require.NoError(t, err)
	assert.Equal(t, p.reply, out)

	assert.Equal(t, 1, p.calls())
	assert.Equal(t, "suggest breakfast meals", p.prompts[0])
}

func TestService_EmptyResponse(t *testing.T) {
	p := &fakeProvider{reply: "   "}
	s := NewService(p, newCache(), nil)

	_, err := s.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)

	// 空回應不寫入快取
	_, err = s.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, provider.ErrEmptyResponse)
	assert.Equal(t, 2, p.calls())
}

func TestService_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	s := NewService(&fakeProvider{err: boom}, nil, nil)

	_, err := s.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, common.ErrAIServiceError)
}

func TestService_EmptyPrompt(t *testing.T) {
	p := &fakeProvider{reply: "x"}
	s := NewService(p, nil, nil)
	_, err := s.Generate(context.Background(), " \n\t", 100)
	assert.Error(t, err)
	assert.Zero(t, p.calls())
}

func TestService_NilProviderIsNoop(t *testing.T) {
	s := NewService(nil, nil, nil)
	_, err := s.Generate(context.Background(), "prompt", 100)
	assert.ErrorIs(t, err, provider.ErrNoProvider)
	assert.Equal(t, "none", s.ProviderName())
}

func TestService_Status(t *testing.T) {
	s := NewService(&fakeProvider{}, nil, queue.NewManager(config.QueueConfig{Workers: 2, MaxSize: 4}))
	status := s.Status()
	assert.Equal(t, "fake", status["provider"])
	assert.Equal(t, "fake-model", status["model"])
	assert.Contains(t, status, "queue")
	require.NoError(t, s.Close())
}
