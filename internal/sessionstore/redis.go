package sessionstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis. Every write refreshes the key TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	slog.Info("connected to redis", "addr", addr)

	return NewRedisStoreFromClient(rdb, ttl), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(sid, name string) string {
	return fmt.Sprintf("quiz:session:%s:%s", sid, name)
}

func (r *RedisStore) Get(ctx context.Context, sid, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, key(sid, name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session value: %w", err)
	}

	return data, nil
}

func (r *RedisStore) Set(ctx context.Context, sid, name string, value []byte) error {
	if err := r.client.Set(ctx, key(sid, name), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set session value: %w", err)
	}

	return nil
}

func (r *RedisStore) Delete(ctx context.Context, sid, name string) error {
	if err := r.client.Del(ctx, key(sid, name)).Err(); err != nil {
		return fmt.Errorf("delete session value: %w", err)
	}

	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
