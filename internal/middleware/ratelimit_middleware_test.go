package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"labportal-service/internal/pkg/ratelimit"
)

func newLimitedRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(
		ratelimit.NewMemoryLimiter(limit, time.Minute),
		zap.NewNop(),
		"/api/v1/auth/", "/api/v1/ws",
	))
	r.GET("/api/v1/portal/results", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/auth/session", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func doRequest(r *gin.Engine, method, path, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = ip + ":51000"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	r := newLimitedRouter(10)

	for i := 0; i < 10; i++ {
		w := doRequest(r, http.MethodGet, "/api/v1/portal/results", "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}

	w := doRequest(r, http.MethodGet, "/api/v1/portal/results", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"rate_limited"`)
}

func TestRateLimitKeysByClientIP(t *testing.T) {
	r := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/portal/results", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(r, http.MethodGet, "/api/v1/portal/results", "10.0.0.1").Code)

	// A different client still gets through.
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/api/v1/portal/results", "10.0.0.2").Code)
}

func TestRateLimitExemptsAuthPrefix(t *testing.T) {
	r := newLimitedRouter(1)

	for i := 0; i < 5; i++ {
		w := doRequest(r, http.MethodPost, "/api/v1/auth/session", "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
