// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"

	"labportal-service/internal/pkg/roles"
)

// ClientProfile is the application's own record of a non-admin user,
// keyed by the identity provider's subject id.
type ClientProfile struct {
	ID        int64          `json:"id" db:"id"`
	Subject   string         `json:"subject" db:"subject"`
	Email     string         `json:"email" db:"email"`
	FullName  sql.NullString `json:"full_name" db:"full_name"`
	Phone     sql.NullString `json:"phone" db:"phone"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// DisplayName prefers the stored full name and falls back to the email's
// local part.
func (p *ClientProfile) DisplayName() string {
	if p.FullName.Valid && p.FullName.String != "" {
		return p.FullName.String
	}
	return localPart(p.Email)
}

// Principal is the authenticated identity handed to the session layer.
type Principal struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Name  string     `json:"name"`
	Role  roles.Role `json:"role"`
}

func localPart(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
