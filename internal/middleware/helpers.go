// internal/middleware/helpers.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"labportal-service/internal/pkg/roles"
)

// GetSubject gets the identity subject from context.
func GetSubject(c *gin.Context) (string, bool) {
	subject, exists := c.Get("subject")
	if !exists {
		return "", false
	}
	s, ok := subject.(string)
	return s, ok
}

// GetJTI gets the session token id from context.
func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	s, ok := jti.(string)
	return s, ok
}

// GetRole gets the session role from context.
func GetRole(c *gin.Context) (roles.Role, bool) {
	role, exists := c.Get("role")
	if !exists {
		return "", false
	}
	r, ok := role.(roles.Role)
	return r, ok
}

// MustGetSubject gets the subject from context or panics.
func MustGetSubject(c *gin.Context) string {
	subject, exists := GetSubject(c)
	if !exists {
		panic("subject not found in context")
	}
	return subject
}

// MustGetJTI gets the JTI from context or panics.
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// IsAuthenticated checks if the request carries a validated session.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("subject")
	return exists
}

// IsAdmin checks if the session role is admin.
func IsAdmin(c *gin.Context) bool {
	role, ok := GetRole(c)
	return ok && role == roles.RoleAdmin
}
