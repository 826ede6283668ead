package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisSettings configures the Redis backend.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps values as plain Redis strings without expiry.
type RedisStore struct {
	client *redis.Client
}

var _ Store = &RedisStore{}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, settings RedisSettings) (*RedisStore, error) {
	if settings.Addr == "" {
		return nil, errors.New("redis kv: empty addr")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     settings.Addr,
		Password: settings.Password,
		DB:       settings.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis kv: ping")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errors.New("redis kv: key is empty")
	}
	value, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis kv: get")
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("redis kv: key is empty")
	}
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "redis kv: set")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
