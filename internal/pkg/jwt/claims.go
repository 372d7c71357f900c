// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"

	"labportal-service/internal/pkg/roles"
)

// Claims represents the session JWT claims. Subject is the identity
// provider's opaque user id; ID (JTI) keys the Redis session entry.
type Claims struct {
	Email string     `json:"email"`
	Role  roles.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role. A missing role
// means user.
func (c *Claims) IsAdmin() bool {
	return roles.Parse(string(c.Role)) == roles.RoleAdmin
}
