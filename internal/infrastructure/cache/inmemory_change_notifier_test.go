package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryChangeNotifier(t *testing.T) {
	t.Run("delivers published events to subscriber", func(t *testing.T) {
		notifier := NewInMemoryChangeNotifier()
		defer notifier.Close()

		var mu sync.Mutex
		var received []shared.ChangeEvent

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan struct{})
		go func() {
			_ = notifier.Subscribe(ctx, func(e shared.ChangeEvent) {
				mu.Lock()
				received = append(received, e)
				mu.Unlock()
			})
			close(done)
		}()

		// Give the subscriber time to register
		require.Eventually(t, func() bool {
			notifier.mu.RLock()
			defer notifier.mu.RUnlock()
			return len(notifier.handlers) == 1
		}, time.Second, 5*time.Millisecond)

		event := shared.ChangeEvent{
			Table:      "payments",
			Action:     shared.ChangeActionInsert,
			BusinessID: uuid.New(),
			RowID:      uuid.New(),
		}
		require.NoError(t, notifier.Publish(context.Background(), event))

		mu.Lock()
		require.Len(t, received, 1)
		assert.Equal(t, "payments", received[0].Table)
		assert.NotZero(t, received[0].Timestamp)
		mu.Unlock()

		cancel()
		<-done
	})

	t.Run("cancelled subscriber stops receiving", func(t *testing.T) {
		notifier := NewInMemoryChangeNotifier()
		defer notifier.Close()

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			_ = notifier.Subscribe(ctx, func(shared.ChangeEvent) {})
			close(done)
		}()

		require.Eventually(t, func() bool {
			notifier.mu.RLock()
			defer notifier.mu.RUnlock()
			return len(notifier.handlers) == 1
		}, time.Second, 5*time.Millisecond)

		cancel()
		<-done

		notifier.mu.RLock()
		assert.Empty(t, notifier.handlers)
		notifier.mu.RUnlock()
	})
}
