package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"
)

func TestManager_BoundsConcurrency(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 2, MaxSize: 100})

	var current, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := m.Do(context.Background(), func(ctx context.Context) error {
				n := current.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				current.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
	status := m.GetQueueStatus()
	assert.Equal(t, 10, status.ProcessedCount)
	assert.Equal(t, 0, status.InFlight)
	assert.Equal(t, 2, status.Workers)
}

func TestManager_ContextCancelledWhileWaiting(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 10})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestManager_Full(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	waiting := make(chan error, 1)
	go func() {
		_, err := m.Acquire(ctx)
		waiting <- err
	}()
	assert.Eventually(t, func() bool { return m.GetQueueStatus().QueueLength == 1 }, time.Second, time.Millisecond)

	_, err = m.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrQueueFull)

	cancel()
	assert.ErrorIs(t, <-waiting, context.Canceled)
}

func TestManager_Closed(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	m.Close()
	m.Close()
	_, err := m.Acquire(context.Background())
	assert.ErrorIs(t, err, common.ErrGatewayQueueClosed)
}

func TestManager_ReleaseIsIdempotent(t *testing.T) {
	m := NewManager(config.QueueConfig{Workers: 1, MaxSize: 1})
	release, err := m.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()
	assert.Equal(t, 1, m.GetQueueStatus().ProcessedCount)
	assert.Equal(t, 0, m.GetQueueStatus().InFlight)
}
