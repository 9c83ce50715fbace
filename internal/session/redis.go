package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/glasscart/storefront/pkg/errors"
)

const keyPrefix = "session:"

// RedisProvider implements Provider using Redis with a fixed TTL per session.
type RedisProvider struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProvider creates a Redis-backed session provider.
func NewRedisProvider(client *redis.Client, ttl time.Duration) *RedisProvider {
	return &RedisProvider{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a session by token.
func (p *RedisProvider) Get(ctx context.Context, token string) (*Session, error) {
	key := keyPrefix + token

	data, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("session", token)
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &sess, nil
}

// Put stores a session under the token with the configured TTL.
func (p *RedisProvider) Put(ctx context.Context, token string, sess *Session) error {
	key := keyPrefix + token

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Delete removes a session by token.
func (p *RedisProvider) Delete(ctx context.Context, token string) error {
	key := keyPrefix + token

	if err := p.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}

	return nil
}
