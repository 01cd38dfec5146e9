package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps documents as plain redis strings under "wordwise:<scope>:<key>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redisURL (redis://host:port or redis://host:port/db).
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(scope, key string) string {
	return "wordwise:" + scope + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, redisKey(scope, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", scope, key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, scope, key string, value []byte) error {
	// TTL 0 = no expiration
	if err := s.client.Set(ctx, redisKey(scope, key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, redisKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis del %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
