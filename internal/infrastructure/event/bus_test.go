package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	t.Run("delivers to typed handler", func(t *testing.T) {
		handler := &recordingHandler{types: []string{"ledger.payment.created"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), testEvent("ledger.payment.created")))
		require.NoError(t, bus.Publish(context.Background(), testEvent("goals.goal.created")))

		assert.Equal(t, 1, handler.received())
		bus.Unsubscribe(handler)
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			testEvent("ledger.payment.created"),
			testEvent("daily.entry.recorded"),
		))

		assert.Equal(t, 2, handler.received())
		bus.Unsubscribe(handler)
	})

	t.Run("failing handler does not stop others", func(t *testing.T) {
		failing := &recordingHandler{types: []string{"x"}, err: errors.New("nope")}
		ok := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(context.Background(), testEvent("x")))

		assert.Equal(t, 1, ok.received())
		bus.Unsubscribe(failing)
		bus.Unsubscribe(ok)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		panicking := &recordingHandler{types: []string{"y"}, panics: true}
		ok := &recordingHandler{types: []string{"y"}}
		bus.Subscribe(panicking)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(context.Background(), testEvent("y")))

		assert.Equal(t, 1, ok.received())
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"z"}}

	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), testEvent("z")))
	assert.Equal(t, 0, handler.received())
}
