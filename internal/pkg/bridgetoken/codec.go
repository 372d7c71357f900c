// internal/pkg/bridgetoken/codec.go
package bridgetoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"labportal-service/internal/pkg/roles"
)

// The bridge token carries a verified identity across the OAuth redirect
// boundary: the callback handler cannot attach the final session itself, so
// it hands the browser a short-lived signed artifact that the session
// endpoint redeems. One redirect round-trip is all it needs to survive.
const TTL = 120 * time.Second

const separator = "."

// ErrInvalid is the single failure mode of Verify. Callers get no signal
// about which check failed.
var ErrInvalid = errors.New("invalid bridge token")

// Payload is the signed content of a bridge token.
type Payload struct {
	Subject   string     `json:"sub"`
	Email     string     `json:"email"`
	Role      roles.Role `json:"role"`
	ExpiresAt int64      `json:"exp"`
}

// Codec mints and verifies bridge tokens with a shared HMAC-SHA256 secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// New builds a codec. A missing secret is a configuration error; the
// service must refuse to start rather than ever issue an unsigned token.
func New(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("bridge token secret is not configured")
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// Create serializes and signs the payload. Subject and email are required;
// role must be one of the two known values.
func (c *Codec) Create(subject, email string, role roles.Role) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("bridge token requires a subject")
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("bridge token requires a valid email")
	}
	if role != roles.RoleAdmin && role != roles.RoleUser {
		return "", fmt.Errorf("unknown role %q", role)
	}

	payload := Payload{
		Subject:   subject,
		Email:     email,
		Role:      role,
		ExpiresAt: c.now().Add(TTL).Unix(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal bridge payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + separator + c.sign(encoded), nil
}

// Verify checks signature and expiry and returns the payload. Any failure
// (shape, decoding, signature, expiry) returns ErrInvalid; a partially
// trusted payload is never returned.
func (c *Codec) Verify(token string) (*Payload, error) {
	parts := strings.Split(token, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, ErrInvalid
	}

	// Constant-time compare on the signature; a plain == would leak a
	// timing side-channel on how many leading bytes match.
	if !hmac.Equal([]byte(c.sign(parts[0])), []byte(parts[1])) {
		return nil, ErrInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, ErrInvalid
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrInvalid
	}
	if payload.ExpiresAt <= c.now().Unix() {
		return nil, ErrInvalid
	}
	payload.Role = roles.Parse(string(payload.Role))

	return &payload, nil
}

func (c *Codec) sign(encodedPayload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
