package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultChangeChannel = "bizfin:changes"
	defaultCloseTimeout  = 5 * time.Second
)

// RedisChangeNotifier implements shared.ChangeNotifier using Redis
// Pub/Sub, fanning row changes out to every server instance so each can
// forward them to its connected stream clients.
type RedisChangeNotifier struct {
	client     *redis.Client
	ownsClient bool
	channel    string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisChangeNotifierOption configures the notifier
type RedisChangeNotifierOption func(*RedisChangeNotifier)

// WithChangeChannel sets the Pub/Sub channel name
func WithChangeChannel(channel string) RedisChangeNotifierOption {
	return func(n *RedisChangeNotifier) {
		n.channel = channel
	}
}

// WithChangeLogger sets the logger for the notifier
func WithChangeLogger(logger *zap.Logger) RedisChangeNotifierOption {
	return func(n *RedisChangeNotifier) {
		n.logger = logger
	}
}

// NewRedisChangeNotifier creates a change notifier on an existing Redis
// client. The caller retains ownership of the client.
func NewRedisChangeNotifier(client *redis.Client, opts ...RedisChangeNotifierOption) *RedisChangeNotifier {
	notifier := &RedisChangeNotifier{
		client:     client,
		ownsClient: false,
		channel:    defaultChangeChannel,
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(notifier)
	}

	return notifier
}

// Publish sends a change event to all subscribers
func (n *RedisChangeNotifier) Publish(ctx context.Context, event shared.ChangeEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixNano()
	}

	data, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to marshal change event",
			zap.String("table", event.Table),
			zap.Error(err))
		return fmt.Errorf("failed to marshal change event: %w", err)
	}

	if err := n.client.Publish(ctx, n.channel, data).Err(); err != nil {
		n.logger.Error("Failed to publish change event",
			zap.String("channel", n.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish change event: %w", err)
	}

	n.logger.Debug("Published change event",
		zap.String("table", event.Table),
		zap.String("action", string(event.Action)),
		zap.String("row_id", event.RowID.String()))

	return nil
}

// Subscribe blocks and invokes handler for each received event until ctx
// is cancelled. Call it from its own goroutine.
func (n *RedisChangeNotifier) Subscribe(ctx context.Context, handler func(shared.ChangeEvent)) error {
	n.mu.Lock()
	if n.isRunning {
		n.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	n.isRunning = true
	n.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	n.mu.Lock()
	n.cancelFn = cancel
	n.mu.Unlock()

	pubsub := n.client.Subscribe(subCtx, n.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		n.mu.Lock()
		n.isRunning = false
		n.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	n.logger.Info("Subscribed to change channel", zap.String("channel", n.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			n.logger.Info("Change subscription stopped")
			n.mu.Lock()
			n.isRunning = false
			n.mu.Unlock()
			n.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				n.logger.Warn("Change channel closed")
				n.mu.Lock()
				n.isRunning = false
				n.mu.Unlock()
				n.markDone()
				return nil
			}

			var event shared.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				n.logger.Error("Failed to unmarshal change event",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			// Run the handler off the receive loop so a slow consumer
			// never stalls delivery.
			go func(e shared.ChangeEvent) {
				defer func() {
					if r := recover(); r != nil {
						n.logger.Error("Panic in change event handler", zap.Any("panic", r))
					}
				}()
				handler(e)
			}(event)
		}
	}
}

func (n *RedisChangeNotifier) markDone() {
	n.doneOnce.Do(func() {
		close(n.doneCh)
	})
}

// Close releases resources held by the notifier
func (n *RedisChangeNotifier) Close() error {
	n.mu.Lock()
	cancelFn := n.cancelFn
	n.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-n.doneCh:
		case <-time.After(defaultCloseTimeout):
			n.logger.Warn("Timeout waiting for change subscription to stop")
		}
	}

	if n.ownsClient {
		return n.client.Close()
	}
	return nil
}

var _ shared.ChangeNotifier = (*RedisChangeNotifier)(nil)
