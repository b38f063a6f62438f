package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemEngine(h *SystemHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
	engine.GET("/api/v1/system/info", h.Info)
	return engine
}

func TestSystemHandlerHealth(t *testing.T) {
	t.Run("healthy when database responds", func(t *testing.T) {
		h := NewSystemHandler(PingerFunc(func() error { return nil }))
		engine := newSystemEngine(h)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
	})

	t.Run("unhealthy when database is down", func(t *testing.T) {
		h := NewSystemHandler(PingerFunc(func() error { return errors.New("connection refused") }))
		engine := newSystemEngine(h)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSystemHandlerReady(t *testing.T) {
	t.Run("reports every registered check", func(t *testing.T) {
		h := NewSystemHandler(PingerFunc(func() error { return nil }))
		h.AddReadyCheck("redis", PingerFunc(func() error { return errors.New("down") }))
		engine := newSystemEngine(h)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "unavailable", body.Status)
		assert.Equal(t, "ok", body.Checks["database"])
		assert.Equal(t, "error", body.Checks["redis"])
	})

	t.Run("ready when all checks pass", func(t *testing.T) {
		h := NewSystemHandler(PingerFunc(func() error { return nil }))
		engine := newSystemEngine(h)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSystemHandlerInfo(t *testing.T) {
	h := NewSystemHandler(nil)
	engine := newSystemEngine(h)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_version")
}
