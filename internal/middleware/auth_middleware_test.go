package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labportal-service/internal/pkg/bridgetoken"
	"labportal-service/internal/pkg/jwt"
	"labportal-service/internal/pkg/roles"
	"labportal-service/internal/service/auth"
)

// pageGateService builds an AuthService that can verify token shapes but
// has no backing stores: enough for the unauthenticated paths the page
// gate exercises.
func pageGateService(t *testing.T) *auth.AuthService {
	t.Helper()
	codec, err := bridgetoken.New("bridge-secret")
	require.NoError(t, err)
	tokens, err := jwt.NewManager(jwt.Config{
		Secret:   "session-secret",
		Issuer:   "labportal",
		Audience: "labportal-clients",
		TTL:      time.Hour,
	})
	require.NoError(t, err)
	return auth.NewAuthService(nil, nil, nil, nil, codec, roles.NewResolver(""), tokens, zap.NewNop())
}

func newPageRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(pageGateService(t), "/signin")

	r := gin.New()
	pages := r.Group("/")
	pages.Use(m.PageAuth())
	pages.GET("/portal/results", func(c *gin.Context) { c.Status(http.StatusOK) })
	pages.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestPageGateRedirectsWithCallbackURL(t *testing.T) {
	r := newPageRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/portal/results", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signin?callbackUrl=%2Fportal%2Fresults", w.Header().Get("Location"))
}

func TestPageGateRejectsGarbageCookie(t *testing.T) {
	r := newPageRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-session"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signin?callbackUrl=%2Fadmin", w.Header().Get("Location"))
}

func TestAPIAuthReturnsJSON401(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(pageGateService(t), "/signin")

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(m.Auth())
	api.GET("/portal/results", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/portal/results", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"missing_token"`)
}
