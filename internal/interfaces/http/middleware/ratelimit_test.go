package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	allowed   bool
	err       error
	lastLimit int
}

func (l *fakeLimiter) Allow(_ context.Context, _ string, limit int, _ time.Duration) (bool, error) {
	l.lastLimit = limit
	return l.allowed, l.err
}

func newRateLimitRouter(cfg RateLimitConfig, limiter RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(cfg, limiter))
	r.GET("/api/capabilities", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/capabilities", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBurstExtendsAllowance(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 20, Burst: 40}, limiter)

	w := doRequest(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 40, limiter.lastLimit)
}

func TestRateLimitWithoutBurstUsesRate(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 20}, limiter)

	doRequest(r)

	assert.Equal(t, 20, limiter.lastLimit)
}

func TestRateLimitRejectsWhenExhausted(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: true, RequestsPerSecond: 1}, limiter)

	w := doRequest(r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	limiter := &fakeLimiter{allowed: false}
	r := newRateLimitRouter(RateLimitConfig{Enabled: false}, limiter)

	w := doRequest(r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, limiter.lastLimit)
}
