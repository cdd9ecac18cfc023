package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV implements KV on redis string keys with no expiry
type RedisKV struct {
	client redis.Cmdable
	closer func() error
	prefix string
}

// NewRedisKV creates a KV on an existing client; keys are stored as prefix+key
func NewRedisKV(client redis.Cmdable, prefix string) *RedisKV {
	kv := &RedisKV{client: client, prefix: prefix, closer: func() error { return nil }}
	if c, ok := client.(interface{ Close() error }); ok {
		kv.closer = c.Close
	}
	return kv
}

// DialRedisKV connects to addr and verifies the connection
func DialRedisKV(ctx context.Context, addr, password string, db int, prefix string) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisKV(client, prefix), nil
}

// Get returns the value stored under key
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set stores the value under key
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, string(value), 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Close closes the client if it owns one
func (r *RedisKV) Close() error {
	return r.closer()
}
