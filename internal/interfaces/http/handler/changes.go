package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizfin/backend/internal/domain/shared"
	"github.com/bizfin/backend/internal/interfaces/http/middleware"
)

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID         string
	UserID     string
	BusinessID uuid.UUID
	Chan       chan SSEMessage
	Done       chan struct{}
}

// SSEMessage represents a message to be sent to SSE clients
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// ChangesHandler streams row-change events to connected clients over SSE.
// Each client only receives events for the business it subscribed to.
type ChangesHandler struct {
	BaseHandler
	notifier   shared.ChangeNotifier
	logger     *zap.Logger
	clients    sync.Map // map[string]*SSEClient
	ctx        context.Context
	cancel     context.CancelFunc
	heartbeat  time.Duration
	bufferSize int
	maxClients int
	started    bool
	startMu    sync.Mutex
}

// ChangesOption is a functional option for configuring the handler
type ChangesOption func(*ChangesHandler)

// WithChangesLogger sets the logger for the handler
func WithChangesLogger(logger *zap.Logger) ChangesOption {
	return func(h *ChangesHandler) {
		h.logger = logger
	}
}

// WithChangesHeartbeat sets the heartbeat interval
func WithChangesHeartbeat(interval time.Duration) ChangesOption {
	return func(h *ChangesHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithChangesBuffer sets the per-client message buffer size
func WithChangesBuffer(size int) ChangesOption {
	return func(h *ChangesHandler) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}

// WithChangesMaxClients sets the maximum number of concurrent SSE clients
func WithChangesMaxClients(max int) ChangesOption {
	return func(h *ChangesHandler) {
		h.maxClients = max
	}
}

// NewChangesHandler creates a new SSE handler for row-change events
func NewChangesHandler(notifier shared.ChangeNotifier, opts ...ChangesOption) *ChangesHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &ChangesHandler{
		notifier:   notifier,
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		bufferSize: 64,
		maxClients: 10000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start begins listening for change events and broadcasting to clients
func (h *ChangesHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return fmt.Errorf("changes handler already started")
	}

	go h.sendHeartbeats()

	go func() {
		err := h.notifier.Subscribe(h.ctx, h.handleChange)
		if err != nil && h.ctx.Err() == nil {
			h.logger.Error("change subscription error", zap.Error(err))
		}
	}()

	h.started = true
	h.logger.Info("Change stream handler started")
	return nil
}

// Stop stops the handler and disconnects all clients
func (h *ChangesHandler) Stop() {
	h.cancel()

	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*SSEClient); ok {
			close(client.Done)
		}
		return true
	})

	h.logger.Info("Change stream handler stopped")
}

// handleChange fans a change event out to the clients watching its business
func (h *ChangesHandler) handleChange(event shared.ChangeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal change event", zap.Error(err))
		return
	}

	msg := SSEMessage{
		Event: "change",
		Data:  string(data),
		ID:    strconv.FormatInt(event.Timestamp, 10),
	}

	h.clients.Range(func(key, value any) bool {
		client, ok := value.(*SSEClient)
		if !ok || client.BusinessID != event.BusinessID {
			return true
		}

		select {
		case client.Chan <- msg:
		default:
			// Channel full, client is too slow to keep up
			h.logger.Warn("Client channel full, dropping change event",
				zap.String("client_id", client.ID),
				zap.String("table", event.Table))
		}
		return true
	})
}

// sendHeartbeats periodically sends heartbeat messages to keep connections alive
func (h *ChangesHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			hb := SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			}
			h.clients.Range(func(_, value any) bool {
				if client, ok := value.(*SSEClient); ok {
					select {
					case client.Chan <- hb:
					default:
					}
				}
				return true
			})
		}
	}
}

// Stream handles GET /businesses/:businessID/changes
func (h *ChangesHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		c.JSON(503, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAX_CONNECTIONS_REACHED",
				"message": "Maximum number of streaming connections reached",
			},
		})
		return
	}

	businessID, ok := h.businessID(c)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(c)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := &SSEClient{
		ID:         uuid.New().String(),
		UserID:     userID.String(),
		BusinessID: businessID,
		Chan:       make(chan SSEMessage, h.bufferSize),
		Done:       make(chan struct{}),
	}

	// Chan is never closed: a fan-out goroutine may still hold this
	// client after the stream ends, and a send on a closed channel
	// panics. Deleting from the map is enough; the channel is
	// collected with the client.
	h.clients.Store(client.ID, client)
	defer h.clients.Delete(client.ID)

	h.logger.Info("SSE client connected",
		zap.String("client_id", client.ID),
		zap.String("business_id", businessID.String()))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()

	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("SSE client disconnected",
				zap.String("client_id", client.ID))
			return
		case <-client.Done:
			return
		case <-h.ctx.Done():
			return
		case msg := <-client.Chan:
			h.sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *ChangesHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// ClientCount returns the number of connected SSE clients
func (h *ChangesHandler) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
