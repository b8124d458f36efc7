package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.Equal(t, 2, rl.Remaining("cajero-1"))
	assert.True(t, rl.Allow("cajero-1"))
	assert.True(t, rl.Allow("cajero-1"))
	assert.False(t, rl.Allow("cajero-1"))
	assert.Equal(t, 0, rl.Remaining("cajero-1"))

	// other keys have their own budget
	assert.True(t, rl.Allow("cajero-2"))

	now = now.Add(time.Minute)
	assert.Equal(t, 2, rl.Remaining("cajero-1"))
	assert.True(t, rl.Allow("cajero-1"))
	assert.Equal(t, 1, rl.Remaining("cajero-1"))
}

func TestRateLimiter_Evict(t *testing.T) {
	now := time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Second)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(3 * time.Second)
	rl.Allow("fresh")
	rl.evict()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "old")
	assert.Contains(t, rl.clients, "fresh")
}

func TestRateLimiter_RunStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rl.Run(ctx)
	}()
	cancel()
	wg.Wait()
}

func TestRateLimit(t *testing.T) {
	newRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RequestID(), Actor(), RateLimit(limiter))
		router.POST("/cash-movements", func(c *gin.Context) {
			c.String(http.StatusCreated, "ok")
		})
		router.GET("/cash-movements", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}
	post := func(router http.Handler, actor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/cash-movements", nil)
		req.Header.Set(UserIDHeader, actor)
		req.Header.Set(RequestIDHeader, "req-limit")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("throttles mutations per actor", func(t *testing.T) {
		router := newRouter(NewRateLimiter(1, time.Minute))

		first := post(router, "cajero-1")
		require.Equal(t, http.StatusCreated, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

		second := post(router, "cajero-1")
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), `"code":"RATE_LIMITED"`)
		assert.Contains(t, second.Body.String(), `"request_id":"req-limit"`)

		assert.Equal(t, http.StatusCreated, post(router, "cajero-2").Code)
	})

	t.Run("reads are not counted", func(t *testing.T) {
		router := newRouter(NewRateLimiter(1, time.Minute))
		for range 3 {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cash-movements", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
		assert.Equal(t, http.StatusCreated, post(router, "cajero-1").Code)
	})

	t.Run("nil limiter disables throttling", func(t *testing.T) {
		router := newRouter(nil)
		for range 3 {
			assert.Equal(t, http.StatusCreated, post(router, "cajero-1").Code)
		}
	})
}
