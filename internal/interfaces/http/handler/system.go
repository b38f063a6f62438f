package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bizfin/backend/internal/interfaces/http/dto"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping() error
}

// PingerFunc adapts a function to the Pinger interface
type PingerFunc func() error

// Ping calls f
func (f PingerFunc) Ping() error { return f() }

type readyCheck struct {
	name   string
	pinger Pinger
}

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	db        Pinger
	checks    []readyCheck
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger) *SystemHandler {
	h := &SystemHandler{
		db:        db,
		startTime: time.Now(),
	}
	if db != nil {
		h.checks = append(h.checks, readyCheck{name: "database", pinger: db})
	}
	return h
}

// AddReadyCheck registers an extra dependency for the readiness probe.
// Call before the server starts accepting traffic.
func (h *SystemHandler) AddReadyCheck(name string, p Pinger) {
	h.checks = append(h.checks, readyCheck{name: name, pinger: p})
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "BizFin Backend API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// Health handles GET /health. It reports unhealthy when the database
// cannot be reached.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": "ok",
	})
}

// Ready handles GET /ready. It pings every registered dependency and
// reports 503 when any of them is unreachable.
func (h *SystemHandler) Ready(c *gin.Context) {
	results := make(gin.H, len(h.checks))
	ready := true
	for _, check := range h.checks {
		if err := check.pinger.Ping(); err != nil {
			results[check.name] = "error"
			ready = false
			continue
		}
		results[check.name] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "unavailable"
	}
	c.JSON(status, gin.H{
		"status": state,
		"time":   time.Now().Format(time.RFC3339),
		"checks": results,
	})
}
