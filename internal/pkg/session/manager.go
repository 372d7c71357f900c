// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager owns session records in Redis. Sessions expire with their key
// TTL; there is no database copy to fall back to.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Create stores a new session under session:<subject>:<jti>.
func (m *Manager) Create(ctx context.Context, data *Data) error {
	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := m.client.Set(ctx, m.sessionKey(data.Subject, data.JTI), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Get retrieves a session; a missing key means the session is gone.
func (m *Manager) Get(ctx context.Context, subject, jti string) (*Data, error) {
	raw, err := m.client.Get(ctx, m.sessionKey(subject, jti)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	data.LastActivityAt = time.Now()
	go m.touch(context.Background(), &data)

	return &data, nil
}

// Invalidate removes one session.
func (m *Manager) Invalidate(ctx context.Context, subject, jti string) error {
	return m.client.Del(ctx, m.sessionKey(subject, jti)).Err()
}

// InvalidateAll removes every session for a subject.
func (m *Manager) InvalidateAll(ctx context.Context, subject string) error {
	iter := m.client.Scan(ctx, 0, fmt.Sprintf("session:%s:*", subject), 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete session %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// BlacklistToken revokes a JTI for the remainder of its lifetime.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

// IsTokenBlacklisted checks whether a JTI has been revoked.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return exists > 0, nil
}

func (m *Manager) sessionKey(subject, jti string) string {
	return fmt.Sprintf("session:%s:%s", subject, jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (m *Manager) touch(ctx context.Context, data *Data) {
	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	m.client.Set(ctx, m.sessionKey(data.Subject, data.JTI), raw, ttl)
}
