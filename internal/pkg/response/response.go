// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response defines the standard API response format. Code carries a short
// machine-checkable error identifier; Message is for humans.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, status int, code, message string) {
	// Abort FIRST so downstream handlers never run on a failed request
	c.Abort()

	c.JSON(status, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, code, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, code, message string) {
	Error(c, http.StatusUnauthorized, code, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "forbidden", message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "not_found", message)
}

// TooManyRequests sends a 429 response for rate-limited clients.
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, "rate_limited", message)
}

// ServiceUnavailable sends a 503 for configuration-class failures without
// revealing which setting is missing.
func ServiceUnavailable(c *gin.Context, code string) {
	Error(c, http.StatusServiceUnavailable, code, "service temporarily unavailable")
}
