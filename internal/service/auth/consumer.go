// internal/service/auth/consumer.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBridgeConsumer marks bridge tokens as used with SET NX. The key is
// a digest of the token so the raw credential never lands in Redis.
type RedisBridgeConsumer struct {
	client *redis.Client
}

func NewRedisBridgeConsumer(client *redis.Client) *RedisBridgeConsumer {
	return &RedisBridgeConsumer{client: client}
}

func (c *RedisBridgeConsumer) Consume(ctx context.Context, token string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, nil
	}
	sum := sha256.Sum256([]byte(token))
	key := "bridge:used:" + hex.EncodeToString(sum[:])
	return c.client.SetNX(ctx, key, "1", ttl).Result()
}
