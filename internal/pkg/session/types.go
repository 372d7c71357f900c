// internal/pkg/session/types.go
package session

import (
	"time"

	"labportal-service/internal/pkg/roles"
)

// Data is the session record stored in Redis for the lifetime of a login.
type Data struct {
	JTI            string     `json:"jti"`
	Subject        string     `json:"subject"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           roles.Role `json:"role,omitempty"`
	IPAddress      string     `json:"ip_address,omitempty"`
	UserAgent      string     `json:"user_agent,omitempty"`
	LoginAt        time.Time  `json:"login_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
}

// EffectiveRole treats an absent role as user.
func (d *Data) EffectiveRole() roles.Role {
	return roles.Parse(string(d.Role))
}
