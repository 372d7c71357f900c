package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "labportal-service/internal/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL, APIKey: "anon-key"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "", APIKey: "key"})
	assert.ErrorIs(t, err, xerrors.ErrOAuthConfig)

	_, err = NewClient(Config{BaseURL: "https://auth.lab.test", APIKey: ""})
	assert.ErrorIs(t, err, xerrors.ErrOAuthConfig)
}

func TestPasswordGrantSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "patient@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at",
			"user": map[string]interface{}{
				"id":    "usr_01",
				"email": "patient@example.com",
				"user_metadata": map[string]interface{}{
					"full_name": "Pat Example",
					"phone":     "555-0100",
				},
			},
		})
	})

	ident, err := c.PasswordGrant(context.Background(), "patient@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "usr_01", ident.Subject)
	assert.Equal(t, "Pat Example", ident.PreferredName())
	assert.Equal(t, "555-0100", ident.Phone)
}

func TestPasswordGrantUniformRejection(t *testing.T) {
	// Bad password and unknown account produce the identical error.
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, status)
		})

		_, err := c.PasswordGrant(context.Background(), "whoever@example.com", "wrong")
		assert.ErrorIs(t, err, xerrors.ErrInvalidCredentials, "status %d", status)
	}
}

func TestExchangeCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "authorization_code", r.URL.Query().Get("grant_type"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "at",
			"user": map[string]interface{}{
				"id":    "usr_02",
				"email": "client@example.com",
			},
		})
	})

	ident, err := c.ExchangeCode(context.Background(), "one-time-code")
	require.NoError(t, err)
	assert.Equal(t, "usr_02", ident.Subject)
	// No metadata name configured: fall back to the email local part.
	assert.Equal(t, "client", ident.PreferredName())
}

func TestExchangeCodeFailureIsGeneric(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"server_error","error_description":"stack trace here"}`, http.StatusBadGateway)
	})

	_, err := c.ExchangeCode(context.Background(), "bad-code")
	assert.ErrorIs(t, err, xerrors.ErrOAuthExchange)
	assert.NotContains(t, err.Error(), "stack trace")
}

func TestUserFromTokens(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer provider-at", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    "usr_03",
			"email": "fragment@example.com",
			"user_metadata": map[string]interface{}{
				"name": "Frag",
			},
		})
	})

	ident, err := c.UserFromTokens(context.Background(), "provider-at", "provider-rt")
	require.NoError(t, err)
	assert.Equal(t, "usr_03", ident.Subject)
	assert.Equal(t, "Frag", ident.PreferredName())
}

func TestMissingEmailFromProvider(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "usr_04",
		})
	})

	_, err := c.UserFromTokens(context.Background(), "provider-at", "")
	assert.ErrorIs(t, err, xerrors.ErrOAuthNoEmail)
}
