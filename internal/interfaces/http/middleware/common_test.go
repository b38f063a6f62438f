package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	engine.Use(handlers...)
	engine.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": GetRequestID(c)})
	})
	engine.POST("/probe", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		engine := newEngine(RequestID())
		req := httptest.NewRequest("GET", "/probe", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Contains(t, w.Body.String(), id)
	})

	t.Run("reuses caller-supplied id", func(t *testing.T) {
		engine := newEngine(RequestID())
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set(RequestIDHeader, "trace-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "trace-42", w.Header().Get(RequestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	cfg := CORSConfig{
		AllowOrigins:     []string{"https://app.example.com"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}

	t.Run("allowed origin echoed", func(t *testing.T) {
		engine := newEngine(CORS(cfg))
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		engine := newEngine(CORS(cfg))
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answered with 204", func(t *testing.T) {
		engine := newEngine(CORS(cfg))
		req := httptest.NewRequest("OPTIONS", "/probe", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("wildcard never allows credentials", func(t *testing.T) {
		engine := newEngine(CORS(CORSConfig{
			AllowOrigins:     []string{"*"},
			AllowCredentials: true,
		}))
		req := httptest.NewRequest("GET", "/probe", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestBodyLimit(t *testing.T) {
	engine := newEngine(BodyLimit(16))

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/probe", strings.NewReader("tiny"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/probe", strings.NewReader(strings.Repeat("x", 64)))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
