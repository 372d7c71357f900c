// internal/pkg/signedurl/signer.go
package signedurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signer mints short-lived download URLs for result documents. The storage
// gateway (or this service's download route) verifies the signature before
// serving the object, so object keys are never exposed as open links.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

var ErrInvalidURL = errors.New("invalid or expired signed url")

func New(secret, baseURL string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signed url secret is not configured")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Signer{secret: []byte(secret), baseURL: baseURL, ttl: ttl, now: time.Now}, nil
}

// Sign returns a URL for the object key, valid until the TTL lapses.
func (s *Signer) Sign(objectKey string) (string, error) {
	if objectKey == "" {
		return "", fmt.Errorf("object key is required")
	}
	expires := s.now().Add(s.ttl).Unix()

	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse storage base url: %w", err)
	}
	u.Path, err = url.JoinPath(u.Path, objectKey)
	if err != nil {
		return "", fmt.Errorf("join object path: %w", err)
	}

	q := u.Query()
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("sig", s.signature(objectKey, expires))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Verify checks a key/expiry/signature triple as presented by a client.
func (s *Signer) Verify(objectKey, expiresStr, sig string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil {
		return ErrInvalidURL
	}
	if !hmac.Equal([]byte(s.signature(objectKey, expires)), []byte(sig)) {
		return ErrInvalidURL
	}
	if expires <= s.now().Unix() {
		return ErrInvalidURL
	}
	return nil
}

func (s *Signer) signature(objectKey string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", objectKey, expires)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
