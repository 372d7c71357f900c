// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"labportal-service/internal/pkg/response"
	"labportal-service/internal/pkg/roles"
	"labportal-service/internal/service/auth"
)

// SessionCookie is where browser pages carry the session token. API
// clients use the Authorization header instead.
const SessionCookie = "session_token"

type AuthMiddleware struct {
	authService *auth.AuthService
	signInPath  string
}

func NewAuthMiddleware(authService *auth.AuthService, signInPath string) *AuthMiddleware {
	if signInPath == "" {
		signInPath = "/signin"
	}
	return &AuthMiddleware{
		authService: authService,
		signInPath:  signInPath,
	}
}

// Auth validates the session token and loads the session into the request
// context. API variant: failures are 401 JSON.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "missing_token", "missing authorization token")
			return
		}

		data, err := m.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "session_expired", "invalid or expired session")
			return
		}

		c.Set("subject", data.Subject)
		c.Set("jti", data.JTI)
		c.Set("email", data.Email)
		c.Set("name", data.Name)
		c.Set("role", data.EffectiveRole())

		c.Next()
	}
}

// PageAuth gates browser page prefixes. A missing or invalid session
// redirects to the sign-in page with the original path as callbackUrl so
// the client lands back where they were heading.
func (m *AuthMiddleware) PageAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if data, err := m.authService.ValidateToken(c.Request.Context(), token); err == nil {
				c.Set("subject", data.Subject)
				c.Set("jti", data.JTI)
				c.Set("email", data.Email)
				c.Set("name", data.Name)
				c.Set("role", data.EffectiveRole())
				c.Next()
				return
			}
		}

		dest := m.signInPath + "?callbackUrl=" + url.QueryEscape(c.Request.URL.Path)
		c.Redirect(http.StatusFound, dest)
		c.Abort()
	}
}

// RequireRole requires the session's role to be one of the given roles.
// MUST be used after Auth() or PageAuth().
func (m *AuthMiddleware) RequireRole(required ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			response.Forbidden(c, "authentication required")
			return
		}

		for _, r := range required {
			if role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
	}
}

// AdminOnly is the Auth + RequireRole(admin) chain for admin routes.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(roles.RoleAdmin),
	}
}

// extractToken pulls the session token from the Authorization header,
// falling back to the session cookie for browser navigation.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	return ""
}
