// internal/domain/auth/dto.go
package auth

import (
	"time"

	"labportal-service/internal/pkg/roles"
)

// Credentials is the single entry point payload for session creation:
// either an email/password pair or a one-time bridge token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// OAuthExchangeRequest is the POST fallback body used when the provider
// returns tokens in a URL fragment only the browser can read.
type OAuthExchangeRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SessionResponse is returned after successful authorization.
type SessionResponse struct {
	SessionToken string    `json:"session_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
}

// UserInfo is the session shape exposed to the rest of the application.
// Absent role must be read as "user".
type UserInfo struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  roles.Role `json:"role,omitempty"`
}

// Identity is a verified identity returned by the provider exchange.
type Identity struct {
	Subject  string
	Email    string
	FullName string
	Name     string
	Phone    string
}

// PreferredName applies the display-name fallback chain: full name, then
// name, then the email's local part.
func (i *Identity) PreferredName() string {
	if i.FullName != "" {
		return i.FullName
	}
	if i.Name != "" {
		return i.Name
	}
	return localPart(i.Email)
}

// BridgeResult is what the OAuth bridge hands back to its handler.
type BridgeResult struct {
	Token       string
	CallbackURL string
	Role        roles.Role
}
