// internal/pkg/roles/resolver.go
package roles

import "strings"

// Role is the coarse authorization tag attached to every principal.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Parse normalizes a stored role value. Anything other than an explicit
// admin tag (missing, unknown, mixed case) is a plain user.
func Parse(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Resolver classifies emails against the configured admin allow-list.
// An empty allow-list grants admin to nobody.
type Resolver struct {
	admins map[string]struct{}
}

// NewResolver builds a resolver from a comma-separated allow-list.
// Entries are trimmed and compared case-insensitively.
func NewResolver(allowList string) *Resolver {
	admins := make(map[string]struct{})
	for _, entry := range strings.Split(allowList, ",") {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			admins[entry] = struct{}{}
		}
	}
	return &Resolver{admins: admins}
}

// Resolve returns the role for an email address.
func (r *Resolver) Resolve(email string) Role {
	if _, ok := r.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return RoleAdmin
	}
	return RoleUser
}
