package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/infrastructure/cache"
	"github.com/bizfin/backend/internal/interfaces/http/middleware"
)

func TestNewChangesHandler(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier)

	assert.NotNil(t, h)
	assert.Equal(t, 30*time.Second, h.heartbeat)
	assert.Equal(t, 64, h.bufferSize)
}

func TestNewChangesHandlerWithOptions(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()
	log := zap.NewNop()

	h := NewChangesHandler(notifier,
		WithChangesLogger(log),
		WithChangesHeartbeat(10*time.Second),
		WithChangesBuffer(8),
		WithChangesMaxClients(2),
	)

	assert.Equal(t, 10*time.Second, h.heartbeat)
	assert.Equal(t, 8, h.bufferSize)
	assert.Equal(t, 2, h.maxClients)
	assert.Equal(t, log, h.logger)
}

func TestChangesHandlerStartStop(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier, WithChangesLogger(zap.NewNop()))

	require.NoError(t, h.Start())
	assert.Error(t, h.Start(), "second start must fail")

	h.Stop()
}

func TestChangesHandlerClientCount(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier)
	assert.Equal(t, 0, h.ClientCount())

	client := &SSEClient{
		ID:   "client-1",
		Chan: make(chan SSEMessage, 8),
		Done: make(chan struct{}),
	}
	h.clients.Store(client.ID, client)
	assert.Equal(t, 1, h.ClientCount())
}

func TestChangesHandlerFiltersByBusiness(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier, WithChangesLogger(zap.NewNop()))

	watchedBusiness := uuid.New()
	otherBusiness := uuid.New()

	watcher := &SSEClient{
		ID:         "watcher",
		BusinessID: watchedBusiness,
		Chan:       make(chan SSEMessage, 8),
		Done:       make(chan struct{}),
	}
	bystander := &SSEClient{
		ID:         "bystander",
		BusinessID: otherBusiness,
		Chan:       make(chan SSEMessage, 8),
		Done:       make(chan struct{}),
	}
	h.clients.Store(watcher.ID, watcher)
	h.clients.Store(bystander.ID, bystander)

	event := shared.ChangeEvent{
		Table:      "suppliers",
		Action:     shared.ChangeActionUpdate,
		BusinessID: watchedBusiness,
		RowID:      uuid.New(),
		Timestamp:  time.Now().UnixNano(),
	}
	h.handleChange(event)

	select {
	case msg := <-watcher.Chan:
		assert.Equal(t, "change", msg.Event)
		var decoded shared.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &decoded))
		assert.Equal(t, "suppliers", decoded.Table)
		assert.Equal(t, watchedBusiness, decoded.BusinessID)
	default:
		t.Fatal("expected watcher to receive the event")
	}

	select {
	case <-bystander.Chan:
		t.Fatal("bystander must not receive events for another business")
	default:
	}
}

func TestChangesHandlerSendEvent(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier)

	var sb strings.Builder
	h.sendEvent(&sb, SSEMessage{Event: "change", ID: "17", Data: `{"table":"goals"}`})

	out := sb.String()
	assert.Contains(t, out, "event: change\n")
	assert.Contains(t, out, "id: 17\n")
	assert.True(t, strings.HasSuffix(out, "data: {\"table\":\"goals\"}\n\n"))
}

func TestChangesHandlerSlowClientDoesNotBlock(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier, WithChangesLogger(zap.NewNop()))

	businessID := uuid.New()
	slow := &SSEClient{
		ID:         "slow",
		BusinessID: businessID,
		Chan:       make(chan SSEMessage, 1),
		Done:       make(chan struct{}),
	}
	h.clients.Store(slow.ID, slow)

	for i := 0; i < 5; i++ {
		h.handleChange(shared.ChangeEvent{
			Table:      "payments",
			Action:     shared.ChangeActionInsert,
			BusinessID: businessID,
			RowID:      uuid.New(),
			Timestamp:  int64(i + 1),
		})
	}

	// Only the first event fits; the rest are dropped without blocking
	assert.Len(t, slow.Chan, 1)
}

func TestChangesHandlerFanOutSurvivesDisconnect(t *testing.T) {
	notifier := cache.NewInMemoryChangeNotifier()
	defer notifier.Close()

	h := NewChangesHandler(notifier, WithChangesLogger(zap.NewNop()))
	businessID := uuid.New()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	reqCtx, cancel := context.WithCancel(context.Background())
	c.Request = httptest.NewRequest(http.MethodGet, "/changes", nil).WithContext(reqCtx)
	c.Set(middleware.BusinessIDKey, businessID)

	streamed := make(chan struct{})
	go func() {
		defer close(streamed)
		h.Stream(c)
	}()

	require.Eventually(t, func() bool { return h.ClientCount() == 1 },
		time.Second, 5*time.Millisecond, "client must register")

	// A fan-out may load the client just before the stream ends and
	// send just after; hold the same reference it would
	var held *SSEClient
	h.clients.Range(func(_, value any) bool {
		held = value.(*SSEClient)
		return false
	})
	require.NotNil(t, held)

	cancel()
	select {
	case <-streamed:
	case <-time.After(time.Second):
		t.Fatal("stream did not end after disconnect")
	}
	require.Eventually(t, func() bool { return h.ClientCount() == 0 },
		time.Second, 5*time.Millisecond, "client must deregister")

	// A send racing the disconnect must never hit a closed channel
	require.NotPanics(t, func() {
		select {
		case held.Chan <- SSEMessage{Event: "change", Data: "{}"}:
		default:
		}
		for i := 0; i < 10; i++ {
			h.handleChange(shared.ChangeEvent{
				Table:      "invoices",
				Action:     shared.ChangeActionUpdate,
				BusinessID: businessID,
				RowID:      uuid.New(),
				Timestamp:  int64(i + 1),
			})
		}
	})
}
