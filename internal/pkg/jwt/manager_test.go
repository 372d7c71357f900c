package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labportal-service/internal/pkg/roles"
)

func testConfig() Config {
	return Config{
		Secret:   "session-secret",
		Issuer:   "labportal",
		Audience: "labportal-clients",
		TTL:      time.Hour,
	}
}

func TestGenerateVerify(t *testing.T) {
	m, err := NewManager(testConfig())
	require.NoError(t, err)

	token, jti, err := m.Generate("usr_01", "patient@example.com", roles.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "usr_01", claims.Subject)
	assert.Equal(t, "patient@example.com", claims.Email)
	assert.Equal(t, jti, claims.ID)
	assert.False(t, claims.IsAdmin())
}

func TestAdminClaims(t *testing.T) {
	m, err := NewManager(testConfig())
	require.NoError(t, err)

	token, _, err := m.Generate("usr_02", "director@lab.test", roles.RoleAdmin)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	m, err := NewManager(testConfig())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Secret = "other-secret"
	other, err := NewManager(cfg)
	require.NoError(t, err)

	token, _, err := other.Generate("usr_01", "patient@example.com", roles.RoleUser)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.TTL = -time.Minute
	m, err := NewManager(Config{Secret: cfg.Secret, Issuer: cfg.Issuer, Audience: cfg.Audience, TTL: time.Hour})
	require.NoError(t, err)

	expired := &Manager{secret: []byte(cfg.Secret), issuer: cfg.Issuer, audience: cfg.Audience, TTL: -time.Minute}
	token, _, err := expired.Generate("usr_01", "patient@example.com", roles.RoleUser)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(Config{})
	assert.Error(t, err)
}
