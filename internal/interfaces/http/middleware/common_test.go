package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ferreteria/backoffice/internal/infrastructure/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.GET("/cash-registers", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORSWithConfig(t *testing.T) {
	tests := []struct {
		name            string
		cfg             CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantOrigin      string
		wantCredentials string
	}{
		{
			name:       "empty whitelist sets no headers",
			cfg:        DefaultCORSConfig(),
			method:     http.MethodGet,
			origin:     "http://any-origin.com",
			wantStatus: http.StatusOK,
		},
		{
			name:            "listed origin is echoed with credentials",
			cfg:             CORSConfig{AllowOrigins: []string{"http://caja.local", "http://admin.local"}, AllowCredentials: true},
			method:          http.MethodGet,
			origin:          "http://admin.local",
			wantStatus:      http.StatusOK,
			wantOrigin:      "http://admin.local",
			wantCredentials: "true",
		},
		{
			name:       "unlisted origin gets nothing",
			cfg:        CORSConfig{AllowOrigins: []string{"http://caja.local"}},
			method:     http.MethodGet,
			origin:     "http://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:       "wildcard never sends credentials",
			cfg:        CORSConfig{AllowOrigins: []string{"*"}, AllowCredentials: true},
			method:     http.MethodGet,
			origin:     "http://any-origin.com",
			wantStatus: http.StatusOK,
			wantOrigin: "*",
		},
		{
			name:       "preflight from listed origin",
			cfg:        CORSConfig{AllowOrigins: []string{"http://caja.local"}, AllowMethods: []string{"GET", "POST"}},
			method:     http.MethodOptions,
			origin:     "http://caja.local",
			wantStatus: http.StatusNoContent,
			wantOrigin: "http://caja.local",
		},
		{
			name:       "preflight from unlisted origin still answers 204",
			cfg:        CORSConfig{AllowOrigins: []string{"http://caja.local"}},
			method:     http.MethodOptions,
			origin:     "http://evil.example",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/cash-registers", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			corsRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSHeaderValues(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://caja.local"}

	req := httptest.NewRequest(http.MethodOptions, "/cash-registers", nil)
	req.Header.Set("Origin", "http://caja.local")
	w := httptest.NewRecorder()
	corsRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), IdempotencyKeyHeader)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), UserIDHeader)
	assert.Equal(t, RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
}

func TestRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, c.GetString(RequestIDKey), logger.RequestID(c.Request.Context()))
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	t.Run("generates request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Len(t, w.Body.String(), 36)
		assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
	})

	t.Run("keeps client request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "caja-1-req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "caja-1-req-42", w.Body.String())
	})

	t.Run("truncates oversized request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("r", 500))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Body.String(), MaxRequestIDLength)
	})
}

func TestActor(t *testing.T) {
	router := gin.New()
	router.Use(Actor())
	router.GET("/test", func(c *gin.Context) {
		assert.Equal(t, c.GetString(ActorKey), logger.Actor(c.Request.Context()))
		c.String(http.StatusOK, c.GetString(ActorKey))
	})

	tests := []struct {
		header string
		want   string
	}{
		{"", SystemActor},
		{"   ", SystemActor},
		{"cajero-7", "cajero-7"},
		{strings.Repeat("u", 150), strings.Repeat("u", MaxActorLength)},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		if tt.header != "" {
			req.Header.Set(UserIDHeader, tt.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, tt.want, w.Body.String())
	}
}

func TestSecure(t *testing.T) {
	router := gin.New()
	router.Use(Secure())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestSecureWithHSTS(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSMaxAge = int((24 * time.Hour).Seconds())

	router := gin.New()
	router.Use(SecureWithConfig(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, "max-age=86400; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}
