// internal/middleware/ratelimit_middleware.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labportal-service/internal/pkg/ratelimit"
	"labportal-service/internal/pkg/response"
)

// RateLimitMiddleware gates API traffic by client IP. Auth endpoints and
// the websocket upgrade are exempt: the former must stay reachable for
// sign-in, the latter authenticates and paces itself.
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger, exemptPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range exemptPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// A broken limiter backend must not take the API down.
			logger.Error("rate limiter error", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", path),
			)
			response.TooManyRequests(c, "too many requests, slow down")
			return
		}

		c.Next()
	}
}
