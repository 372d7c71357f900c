package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveCaseInsensitive(t *testing.T) {
	r := NewResolver("lab.director@example.com, ops@example.com")

	assert.Equal(t, RoleAdmin, r.Resolve("lab.director@example.com"))
	assert.Equal(t, RoleAdmin, r.Resolve("Lab.Director@Example.COM"))
	assert.Equal(t, r.Resolve("Ops@Example.com"), r.Resolve("ops@example.com"))
	assert.Equal(t, RoleUser, r.Resolve("patient@example.com"))
}

func TestResolveTrimsEntries(t *testing.T) {
	r := NewResolver("  admin@lab.test ,, ")

	assert.Equal(t, RoleAdmin, r.Resolve("admin@lab.test"))
	assert.Equal(t, RoleAdmin, r.Resolve(" admin@lab.test "))
}

func TestEmptyAllowListFailsClosed(t *testing.T) {
	for _, allowList := range []string{"", "   ", ","} {
		r := NewResolver(allowList)
		assert.Equal(t, RoleUser, r.Resolve("admin@lab.test"))
		assert.Equal(t, RoleUser, r.Resolve("root@lab.test"))
		assert.Equal(t, RoleUser, r.Resolve(""))
	}
}

func TestParseDefaultsToUser(t *testing.T) {
	assert.Equal(t, RoleAdmin, Parse("admin"))
	assert.Equal(t, RoleAdmin, Parse("ADMIN"))
	assert.Equal(t, RoleUser, Parse("user"))
	assert.Equal(t, RoleUser, Parse(""))
	assert.Equal(t, RoleUser, Parse("superuser"))
}
