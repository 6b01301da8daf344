package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Sessions are JSON values with a
// TTL equal to the configured max age; every Save resets the TTL, so
// expiry is handled entirely by Redis.
type RedisStore struct {
	client *redis.Client
	maxAge time.Duration
}

func NewRedisStore(client *redis.Client, maxAge time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		maxAge: maxAge,
	}
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &sess, nil
}

func (r *RedisStore) Save(ctx context.Context, sess *Session) error {
	sess.ExpiresAt = time.Now().Add(r.maxAge)

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	if err := r.client.Set(ctx, sessionKey(sess.Token), data, r.maxAge).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error { return r.client.Close() }

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}
