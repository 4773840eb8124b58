package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore persists scope values in Redis under
// "<prefix><scope>:<key>".
type RedisTokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTokenStore creates a Redis-backed token store. A zero ttl keeps
// values until they are deleted.
func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{
		client: client,
		prefix: "scope:",
		ttl:    ttl,
	}
}

func (r *RedisTokenStore) key(scope, key string) string {
	return r.prefix + scope + ":" + key
}

func (r *RedisTokenStore) Put(ctx context.Context, scope, key, value string) error {
	if scope == "" {
		return errEmptyScope
	}
	if err := r.client.Set(ctx, r.key(scope, key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: redis get: %w", err)
	}
	return val, true, nil
}

func (r *RedisTokenStore) Delete(ctx context.Context, scope, key string) error {
	if err := r.client.Del(ctx, r.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) Close() error {
	return r.client.Close()
}
