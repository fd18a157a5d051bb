package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage owns the client shared by the session repository and the health check.
type RedisStorage struct {
	Connection *redis.Client
}

// NewRedisStorage - connects and fails fast when redis does not answer.
func NewRedisStorage(ctx context.Context, addr, password string, db int) (*RedisStorage, error) {
	storage := &RedisStorage{
		Connection: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}

	if err := storage.Ping(ctx); err != nil {
		_ = storage.Connection.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	return storage, nil
}

// Ping reports whether sessions can still be read and written.
func (that *RedisStorage) Ping(ctx context.Context) error {
	return that.Connection.Ping(ctx).Err()
}

func (that *RedisStorage) Close() error {
	return that.Connection.Close()
}
