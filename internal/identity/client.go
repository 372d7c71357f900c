// internal/identity/client.go
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"labportal-service/internal/domain/auth"
	xerrors "labportal-service/internal/pkg/errors"
)

// Client talks to the hosted identity provider's auth API. All failures
// are mapped to the service's fixed error vocabulary; provider response
// bodies never propagate past this package.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, xerrors.ErrOAuthConfig
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type userPayload struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	UserMetadata struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	} `json:"user_metadata"`
}

type grantResponse struct {
	AccessToken string      `json:"access_token"`
	User        userPayload `json:"user"`
}

// ExchangeCode redeems an authorization code for a verified identity.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*auth.Identity, error) {
	body := map[string]string{"auth_code": code}
	var resp grantResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=authorization_code", "", body, &resp); err != nil {
		return nil, xerrors.ErrOAuthExchange
	}
	return identityFromUser(&resp.User)
}

// UserFromTokens resolves the identity behind an access token. The refresh
// token is accepted for parity with the fragment-based flow but the user
// endpoint only needs the access token.
func (c *Client) UserFromTokens(ctx context.Context, accessToken, _ string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, xerrors.ErrOAuthExchange
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, xerrors.ErrOAuthExchange
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, xerrors.ErrOAuthExchange
	}

	var user userPayload
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, xerrors.ErrOAuthExchange
	}
	return identityFromUser(&user)
}

// PasswordGrant exchanges email/password credentials. Wrong password,
// unknown account, and provider outages all come back as the same
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*auth.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var resp grantResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", body, &resp); err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	ident, err := identityFromUser(&resp.User)
	if err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}
	return ident, nil
}

func (c *Client) post(ctx context.Context, path, bearer string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("provider returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func identityFromUser(user *userPayload) (*auth.Identity, error) {
	if user.ID == "" {
		return nil, xerrors.ErrOAuthExchange
	}
	if user.Email == "" {
		return nil, xerrors.ErrOAuthNoEmail
	}

	phone := user.Phone
	if phone == "" {
		phone = user.UserMetadata.Phone
	}

	return &auth.Identity{
		Subject:  user.ID,
		Email:    user.Email,
		FullName: user.UserMetadata.FullName,
		Name:     user.UserMetadata.Name,
		Phone:    phone,
	}, nil
}
