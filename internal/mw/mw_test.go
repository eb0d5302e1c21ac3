package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCache(t *testing.T) {
	store := NewCacheStore(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.GET("/history/logs", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"calls": calls, "limit": c.Query("limit")})
	})
	r.GET("/missing", func(c *gin.Context) {
		calls++
		c.Status(http.StatusNotFound)
	})

	first := perform(r, http.MethodGet, "/history/logs?limit=5")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))

	second := perform(r, http.MethodGet, "/history/logs?limit=5")
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, calls)

	// The query string is part of the key.
	third := perform(r, http.MethodGet, "/history/logs?limit=6")
	assert.Equal(t, "MISS", third.Header().Get(CacheHeader))
	assert.Equal(t, 2, calls)

	perform(r, http.MethodGet, "/missing")
	perform(r, http.MethodGet, "/missing")
	assert.Equal(t, 4, calls, "errors are not cached")
}

func TestCache_SkipsNonGet(t *testing.T) {
	store := NewCacheStore(time.Minute)
	calls := 0

	r := gin.New()
	r.Use(Cache(store, time.Minute))
	r.POST("/actions", func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	perform(r, http.MethodPost, "/actions")
	perform(r, http.MethodPost, "/actions")
	assert.Equal(t, 2, calls)
	assert.Zero(t, store.ItemCount())
}

func TestRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)

	r := gin.New()
	r.Use(RateLimiter(limiter))
	r.GET("/feed", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/feed").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/feed").Code)

	w := perform(r, http.MethodGet, "/feed")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, w.Body.String())
}

func TestIPRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.now = func() time.Time { return now }

	limiter.GetLimiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	limiter.GetLimiter("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	assert.Equal(t, 1, limiter.Sweep(time.Minute))
	assert.Equal(t, 1, limiter.Len())

	// A returning client starts with a fresh bucket.
	first := limiter.GetLimiter("10.0.0.2")
	assert.Same(t, first, limiter.GetLimiter("10.0.0.2"))
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	perform(r, http.MethodGet, "/ok")
	perform(r, http.MethodGet, "/boom")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "/boom", entries[1].ContextMap()["path"])
	assert.EqualValues(t, http.StatusInternalServerError, entries[1].ContextMap()["status"])
}
