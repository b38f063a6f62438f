package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bizfin/backend/internal/domain/shared"
)

// InMemoryChangeNotifier is a single-process shared.ChangeNotifier for
// tests and deployments without Redis.
type InMemoryChangeNotifier struct {
	mu       sync.RWMutex
	handlers map[int]func(shared.ChangeEvent)
	nextID   int
	closed   bool
}

// NewInMemoryChangeNotifier creates an in-memory change notifier
func NewInMemoryChangeNotifier() *InMemoryChangeNotifier {
	return &InMemoryChangeNotifier{
		handlers: make(map[int]func(shared.ChangeEvent)),
	}
}

// Publish delivers the event to all subscribed handlers
func (n *InMemoryChangeNotifier) Publish(_ context.Context, event shared.ChangeEvent) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixNano()
	}

	n.mu.RLock()
	handlers := make([]func(shared.ChangeEvent), 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		h(event)
	}
	return nil
}

// Subscribe registers handler and blocks until ctx is cancelled
func (n *InMemoryChangeNotifier) Subscribe(ctx context.Context, handler func(shared.ChangeEvent)) error {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handler
	n.mu.Unlock()

	<-ctx.Done()

	n.mu.Lock()
	delete(n.handlers, id)
	n.mu.Unlock()

	return ctx.Err()
}

// Close drops all handlers
func (n *InMemoryChangeNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = make(map[int]func(shared.ChangeEvent))
	n.closed = true
	return nil
}

var _ shared.ChangeNotifier = (*InMemoryChangeNotifier)(nil)
